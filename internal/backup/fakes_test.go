package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// fakeJob scripts one container run: its log lines, its exit code, and
// optional launch-adjacent failures. steps lets a test mutate the world
// (grow a file) right before each line is produced, mimicking tar
// reporting entries while the archive grows.
type fakeJob struct {
	lines    []string
	steps    []func()
	exitCode int64
	waitErr  error
	logsErr  error
	removed  int
}

func (j *fakeJob) Logs(ctx context.Context) (io.ReadCloser, error) {
	if j.logsErr != nil {
		return nil, j.logsErr
	}
	return io.NopCloser(&scriptedLogs{job: j}), nil
}

func (j *fakeJob) Wait(ctx context.Context) (int64, error) {
	if j.waitErr != nil {
		return -1, j.waitErr
	}
	return j.exitCode, nil
}

func (j *fakeJob) Remove(ctx context.Context) error {
	j.removed++
	return nil
}

type scriptedLogs struct {
	job *fakeJob
	idx int
	buf []byte
}

func (s *scriptedLogs) Read(p []byte) (int, error) {
	if len(s.buf) == 0 {
		if s.idx >= len(s.job.lines) {
			return 0, io.EOF
		}
		if s.idx < len(s.job.steps) && s.job.steps[s.idx] != nil {
			s.job.steps[s.idx]()
		}
		s.buf = []byte(s.job.lines[s.idx] + "\n")
		s.idx++
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// fakeRuntime serves jobs keyed by volume name (taken from the first
// volume mount of the JobSpec).
type fakeRuntime struct {
	volumes   []string
	listErr   error
	usage     map[string]int64
	usageErr  error
	jobs      map[string]*fakeJob
	launchErr map[string]error
	ensureErr map[string]error
	ensured   []string
	runCalls  int
	specs     []JobSpec
}

func (f *fakeRuntime) ListVolumes(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.volumes, nil
}

func (f *fakeRuntime) DiskUsage(ctx context.Context, names []string) (map[string]int64, error) {
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	return f.usage, nil
}

func (f *fakeRuntime) EnsureVolume(ctx context.Context, name string) error {
	f.ensured = append(f.ensured, name)
	if err, ok := f.ensureErr[name]; ok {
		return err
	}
	return nil
}

func (f *fakeRuntime) RunJob(ctx context.Context, spec JobSpec) (Job, error) {
	f.runCalls++
	f.specs = append(f.specs, spec)

	volume := ""
	for _, m := range spec.Mounts {
		if m.Volume != "" {
			volume = m.Volume
			break
		}
	}

	if err, ok := f.launchErr[volume]; ok {
		return nil, err
	}
	if job, ok := f.jobs[volume]; ok {
		return job, nil
	}
	return &fakeJob{}, nil
}

// recordingSink captures progress calls.
type recordingSink struct {
	started  int
	total    int64
	items    int
	advanced int64
	item     int
	done     int
}

func (s *recordingSink) StartTask(description string, total int64, items int) {
	s.started++
	s.total = total
	s.items = items
}

func (s *recordingSink) Advance(n int64) {
	if n > 0 {
		s.advanced += n
	}
}

func (s *recordingSink) SetItem(current int) { s.item = current }
func (s *recordingSink) Done()               { s.done++ }

// recordingNotifier captures notification lines.
type recordingNotifier struct {
	items     []string
	jobLines  []string
	successes []string
	failures  []string
	skips     []string
	warns     []string
}

func (n *recordingNotifier) StartItem(volume string) { n.items = append(n.items, volume) }
func (n *recordingNotifier) JobLine(line string)     { n.jobLines = append(n.jobLines, line) }

func (n *recordingNotifier) Successf(format string, args ...any) {
	n.successes = append(n.successes, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Failf(format string, args ...any) {
	n.failures = append(n.failures, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Skipf(format string, args ...any) {
	n.skips = append(n.skips, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Warnf(format string, args ...any) {
	n.warns = append(n.warns, fmt.Sprintf(format, args...))
}

func containsLine(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

var errBoom = errors.New("boom")
