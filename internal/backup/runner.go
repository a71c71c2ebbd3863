package backup

import (
	"bufio"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	volumeMountPath = "/volume"
	backupMountPath = "/backup"

	// DefaultImage runs the archival jobs. Any image shipping tar and
	// gzip works.
	DefaultImage = "alpine:latest"
)

// Runner executes one archival job at a time against the runtime.
type Runner struct {
	rt    Runtime
	image string
}

func NewRunner(rt Runtime, image string) *Runner {
	if image == "" {
		image = DefaultImage
	}
	return &Runner{rt: rt, image: image}
}

// Backup archives one volume into dir. The returned error is nil or a
// *JobError; either way the item's known size has been fully credited
// to progress by the time Backup returns.
func (r *Runner) Backup(ctx context.Context, item Item, dir string, progress ProgressSink, notify Notifier) error {
	spec := JobSpec{
		Image:   r.image,
		Command: []string{"tar", "cvzf", path.Join(backupMountPath, filepath.Base(item.ArchivePath)), "-C", volumeMountPath, "."},
		Mounts: []Mount{
			{Volume: item.Volume, Target: volumeMountPath, ReadOnly: true},
			{HostPath: dir, Target: backupMountPath},
		},
	}
	return r.run(ctx, item, spec, item.ArchivePath, progress, notify)
}

// Restore extracts one archive into its volume. Nothing grows on the
// host during extraction, so the item's whole contribution lands as a
// single advance once the job finishes.
func (r *Runner) Restore(ctx context.Context, item Item, dir string, progress ProgressSink, notify Notifier) error {
	spec := JobSpec{
		Image:   r.image,
		Command: []string{"tar", "xvzf", path.Join(backupMountPath, filepath.Base(item.ArchivePath)), "-C", volumeMountPath},
		Mounts: []Mount{
			{Volume: item.Volume, Target: volumeMountPath},
			{HostPath: dir, Target: backupMountPath, ReadOnly: true},
		},
	}
	return r.run(ctx, item, spec, "", progress, notify)
}

func (r *Runner) run(ctx context.Context, item Item, spec JobSpec, watchPath string, progress ProgressSink, notify Notifier) error {
	var observed int64

	// Reconcile polled progress against the known total exactly once
	// per item, on success and failure alike. The polled portion is
	// never double-counted.
	defer func() {
		if delta := item.KnownSize - observed; delta > 0 {
			progress.Advance(delta)
		}
	}()

	job, err := r.rt.RunJob(ctx, spec)
	if err != nil {
		return &JobError{Volume: item.Volume, ExitCode: -1, Err: err}
	}
	defer job.Remove(ctx)

	observed = r.followLogs(ctx, job, watchPath, progress, notify)

	code, err := job.Wait(ctx)
	if err != nil {
		return &JobError{Volume: item.Volume, ExitCode: -1, Err: err}
	}
	if code != 0 {
		return &JobError{Volume: item.Volume, ExitCode: code}
	}
	return nil
}

// followLogs drains the job's output until the stream ends, feeding the
// display window and, while an archive is being written, polling its
// size on every line so the bar moves with partial output. Returns the
// last observed archive size.
func (r *Runner) followLogs(ctx context.Context, job Job, watchPath string, progress ProgressSink, notify Notifier) int64 {
	logs, err := job.Logs(ctx)
	if err != nil {
		return 0
	}
	defer logs.Close()

	var observed int64
	scanner := bufio.NewScanner(logs)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		notify.JobLine(line)

		if watchPath == "" {
			continue
		}
		info, statErr := os.Stat(watchPath)
		if statErr != nil {
			continue
		}
		if delta := info.Size() - observed; delta > 0 {
			progress.Advance(delta)
			observed = info.Size()
		}
	}
	return observed
}
