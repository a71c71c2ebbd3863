package backup

import (
	"context"
	"io"
)

// Runtime is the slice of the container runtime the engine depends on.
// *docker.Client satisfies it.
type Runtime interface {
	ListVolumes(ctx context.Context) ([]string, error)
	DiskUsage(ctx context.Context, names []string) (map[string]int64, error)
	EnsureVolume(ctx context.Context, name string) error
	RunJob(ctx context.Context, spec JobSpec) (Job, error)
}

// Mount attaches either a named volume or a host path inside a job.
// Volume and HostPath are mutually exclusive.
type Mount struct {
	Volume   string
	HostPath string
	Target   string
	ReadOnly bool
}

type JobSpec struct {
	Image   string
	Command []string
	Mounts  []Mount
}

// Job is the handle to one detached archival container.
type Job interface {
	// Logs returns the job's combined output as a line-oriented stream.
	// The stream ends when the job exits.
	Logs(ctx context.Context) (io.ReadCloser, error)
	// Wait blocks until the job exits and returns its status code.
	Wait(ctx context.Context) (int64, error)
	// Remove reaps the job container. Must be safe to call on jobs that
	// already failed or disappeared.
	Remove(ctx context.Context) error
}

// ProgressSink receives byte-level progress from the engine. Advances
// are always positive; the engine never rewinds a task.
type ProgressSink interface {
	StartTask(description string, total int64, items int)
	Advance(n int64)
	SetItem(current int)
	Done()
}

// Notifier receives per-item outcome lines and the rolling job output.
// Rendering happens outside the engine.
type Notifier interface {
	StartItem(volume string)
	JobLine(line string)
	Successf(format string, args ...any)
	Failf(format string, args ...any)
	Skipf(format string, args ...any)
	Warnf(format string, args ...any)
}
