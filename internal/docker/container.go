package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/lucsky/cuid"

	"github.com/lmarden/volpack/internal/backup"
)

// RunJob creates and starts a detached archival container and hands
// back a handle for log streaming, waiting and removal.
func (c *Client) RunJob(ctx context.Context, spec backup.JobSpec) (backup.Job, error) {
	if err := c.ensureImage(ctx, spec.Image); err != nil {
		return nil, err
	}

	mounts := make([]mount.Mount, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		mountType := mount.TypeBind
		source := m.HostPath
		if m.Volume != "" {
			mountType = mount.TypeVolume
			source = m.Volume
		}
		mounts = append(mounts, mount.Mount{
			Type:     mountType,
			Source:   source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	config := &container.Config{
		Image: spec.Image,
		Cmd:   spec.Command,
		Labels: map[string]string{
			"volpack.managed": "true",
		},
	}
	hostConfig := &container.HostConfig{
		Mounts: mounts,
	}

	opCtx, cancel := context.WithTimeout(ctx, ContainerOpTimeout)
	defer cancel()

	name := "volpack-job-" + cuid.Slug()
	resp, err := c.cli.ContainerCreate(opCtx, config, hostConfig, nil, nil, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create job container: %w", err)
	}

	if err := c.cli.ContainerStart(opCtx, resp.ID, container.StartOptions{}); err != nil {
		// reap the never-started container so it does not linger
		c.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return nil, fmt.Errorf("failed to start job container: %w", err)
	}

	return &job{c: c, id: resp.ID}, nil
}

func (c *Client) ensureImage(ctx context.Context, name string) error {
	_, _, err := c.cli.ImageInspectWithRaw(ctx, name)
	if err == nil {
		return nil
	}
	if !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to inspect image %s: %w", name, err)
	}

	pullCtx, cancel := context.WithTimeout(ctx, ImagePullTimeout)
	defer cancel()

	reader, err := c.cli.ImagePull(pullCtx, name, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", name, err)
	}
	defer reader.Close()

	// the pull completes when the status stream ends
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to read pull output for %s: %w", name, err)
	}
	return nil
}

type job struct {
	c  *Client
	id string
}

// Logs follows the container's combined output, demultiplexed into a
// single line-oriented stream. The stream ends when the job exits.
func (j *job) Logs(ctx context.Context) (io.ReadCloser, error) {
	raw, err := j.c.cli.ContainerLogs(ctx, j.id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get job logs: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, pw, raw)
		pw.CloseWithError(err)
	}()

	return &logStream{pr: pr, raw: raw}, nil
}

type logStream struct {
	pr  *io.PipeReader
	raw io.ReadCloser
}

func (s *logStream) Read(p []byte) (int, error) {
	return s.pr.Read(p)
}

func (s *logStream) Close() error {
	s.raw.Close()
	return s.pr.Close()
}

// Wait blocks until the container is no longer running and returns its
// exit status.
func (j *job) Wait(ctx context.Context) (int64, error) {
	statusCh, errCh := j.c.cli.ContainerWait(ctx, j.id, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return -1, fmt.Errorf("error waiting for job container: %w", err)
	case status := <-statusCh:
		return status.StatusCode, nil
	}
}

// Remove force-removes the job container. A container that is already
// gone is not an error.
func (j *job) Remove(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, ContainerOpTimeout)
	defer cancel()

	err := j.c.cli.ContainerRemove(opCtx, j.id, container.RemoveOptions{Force: true})
	if err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to remove job container: %w", err)
	}
	return nil
}
