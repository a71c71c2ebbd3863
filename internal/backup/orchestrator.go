package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Orchestrator drives a full backup or restore batch: enumerate, probe,
// then one job at a time. Individual job failures are reported through
// the notifier and never abort the batch; only precondition failures
// return an error.
type Orchestrator struct {
	rt       Runtime
	runner   *Runner
	progress ProgressSink
	notify   Notifier
}

func NewOrchestrator(rt Runtime, image string, progress ProgressSink, notify Notifier) *Orchestrator {
	return &Orchestrator{
		rt:       rt,
		runner:   NewRunner(rt, image),
		progress: progress,
		notify:   notify,
	}
}

type BackupOptions struct {
	Directory string
	Include   []string
	Ignore    []string
	Verbose   bool
	// Date stamps the archive filenames; the zero value means today.
	Date time.Time
}

type RestoreOptions struct {
	Directory string
}

// Backup archives every selected volume into the backup directory.
func (o *Orchestrator) Backup(ctx context.Context, opts BackupOptions) error {
	dir, err := checkBackupDir(opts.Directory, true)
	if err != nil {
		return err
	}

	include, err := CompilePatterns(opts.Include)
	if err != nil {
		return err
	}
	exclude, err := CompilePatterns(opts.Ignore)
	if err != nil {
		return err
	}

	all, err := o.rt.ListVolumes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list volumes: %w", err)
	}

	selected, err := Select(all, include, exclude)
	if err != nil {
		return err
	}

	sizes := ProbeSizes(ctx, o.rt, selected)
	var total int64
	for _, name := range selected {
		total += sizes[name]
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	o.progress.StartTask("Backing up volumes", total, len(selected))
	defer o.progress.Done()

	selectedSet := make(map[string]bool, len(selected))
	for _, name := range selected {
		selectedSet[name] = true
	}

	count := 0
	for _, name := range all {
		if !selectedSet[name] {
			if opts.Verbose {
				o.notify.Skipf("Skipped:   %s", name)
			}
			continue
		}

		count++
		o.progress.SetItem(count)
		o.notify.StartItem(name)

		item := Item{
			Volume:      name,
			ArchivePath: filepath.Join(dir, ArchiveName(name, date)),
			KnownSize:   sizes[name],
		}

		if err := o.runner.Backup(ctx, item, dir, o.progress, o.notify); err != nil {
			o.notify.Failf("Error:     %s - %v", name, err)
			continue
		}
		o.notify.Successf("Backed up: %s", name)
	}

	return nil
}

// Restore extracts every archive found in the backup directory into its
// volume, creating missing volumes first.
func (o *Orchestrator) Restore(ctx context.Context, opts RestoreOptions) error {
	dir, err := checkBackupDir(opts.Directory, false)
	if err != nil {
		return err
	}

	items, total, err := o.enumerateArchives(dir)
	if err != nil {
		return err
	}

	o.progress.StartTask("Restoring volumes", total, len(items))
	defer o.progress.Done()

	for i, item := range items {
		o.progress.SetItem(i + 1)
		o.notify.StartItem(item.Volume)

		if err := o.rt.EnsureVolume(ctx, item.Volume); err != nil {
			o.notify.Failf("Error:    %s - %v", item.Volume, err)
			o.progress.Advance(item.KnownSize)
			continue
		}

		if err := o.runner.Restore(ctx, item, dir, o.progress, o.notify); err != nil {
			o.notify.Failf("Error:    %s - %v", item.Volume, err)
			continue
		}
		o.notify.Successf("Restored: %s", item.Volume)
	}

	return nil
}

func (o *Orchestrator) enumerateArchives(dir string) ([]Item, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, configErrorf("cannot read backup directory %s: %v", dir, err)
	}

	var items []Item
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ArchiveSuffix) {
			continue
		}

		volume, err := VolumeFromArchive(entry.Name())
		if err != nil {
			o.notify.Warnf("Ignoring %s: %v", entry.Name(), err)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			o.notify.Warnf("Ignoring %s: %v", entry.Name(), err)
			continue
		}

		items = append(items, Item{
			Volume:      volume,
			ArchivePath: filepath.Join(dir, entry.Name()),
			KnownSize:   info.Size(),
		})
		total += info.Size()
	}

	if len(items) == 0 {
		return nil, 0, configErrorf("no backup files found in directory %s", dir)
	}
	return items, total, nil
}

// checkBackupDir validates the directory precondition before any job
// starts: the directory must exist, and backups need write access.
func checkBackupDir(dir string, writable bool) (string, error) {
	if dir == "" {
		return "", configErrorf("backup directory is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", configErrorf("invalid backup directory %s: %v", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", configErrorf("backup directory %s does not exist", abs)
	}
	if !info.IsDir() {
		return "", configErrorf("%s is not a directory", abs)
	}

	if writable {
		probe, err := os.CreateTemp(abs, ".volpack-*")
		if err != nil {
			return "", configErrorf("backup directory %s is not writable: %v", abs, err)
		}
		probe.Close()
		os.Remove(probe.Name())
	}

	return abs, nil
}
