package docker

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/volume"
)

// ListVolumes returns all volume names in the daemon's enumeration
// order.
func (c *Client) ListVolumes(ctx context.Context) ([]string, error) {
	resp, err := c.cli.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	names := make([]string, 0, len(resp.Volumes))
	for _, vol := range resp.Volumes {
		names = append(names, vol.Name)
	}
	return names, nil
}

// DiskUsage queries aggregate usage for the named volumes in a single
// batched call. Volumes without usage data report zero.
func (c *Client) DiskUsage(ctx context.Context, names []string) (map[string]int64, error) {
	usage, err := c.cli.DiskUsage(ctx, types.DiskUsageOptions{
		Types: []types.DiskUsageObject{types.VolumeObject},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query disk usage: %w", err)
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	sizes := make(map[string]int64, len(names))
	for _, vol := range usage.Volumes {
		if vol == nil || !wanted[vol.Name] {
			continue
		}
		if vol.UsageData != nil && vol.UsageData.Size > 0 {
			sizes[vol.Name] = vol.UsageData.Size
		} else {
			sizes[vol.Name] = 0
		}
	}
	return sizes, nil
}

// EnsureVolume creates the named volume if it does not exist yet.
func (c *Client) EnsureVolume(ctx context.Context, name string) error {
	_, err := c.cli.VolumeInspect(ctx, name)
	if err == nil {
		return nil
	}
	if !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to inspect volume %s: %w", name, err)
	}

	_, err = c.cli.VolumeCreate(ctx, volume.CreateOptions{
		Name:   name,
		Driver: "local",
		Labels: map[string]string{
			"volpack.managed": "true",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create volume %s: %w", name, err)
	}
	return nil
}
