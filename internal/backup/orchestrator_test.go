package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(rt *fakeRuntime) (*Orchestrator, *recordingSink, *recordingNotifier) {
	sink := &recordingSink{}
	notify := &recordingNotifier{}
	return NewOrchestrator(rt, "", sink, notify), sink, notify
}

func TestBackup_MissingDirectoryIsConfigError(t *testing.T) {
	rt := &fakeRuntime{volumes: []string{"app_db"}}
	orch, sink, _ := newTestOrchestrator(rt)

	err := orch.Backup(context.Background(), BackupOptions{
		Directory: filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Zero(t, rt.runCalls)
	assert.Zero(t, sink.started)
}

func TestBackup_EmptySelectionAbortsBeforeAnyJob(t *testing.T) {
	rt := &fakeRuntime{volumes: []string{"app_db"}}
	orch, sink, _ := newTestOrchestrator(rt)

	err := orch.Backup(context.Background(), BackupOptions{
		Directory: t.TempDir(),
		Include:   []string{"nomatch"},
	})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Zero(t, rt.runCalls, "no job may launch when the selection is empty")
	assert.Zero(t, sink.started)
}

func TestBackup_FilterScenario(t *testing.T) {
	rt := &fakeRuntime{
		volumes: []string{"app_db", "app_cache", "tmp"},
		usage:   map[string]int64{"app_db": 100},
	}
	orch, sink, notify := newTestOrchestrator(rt)

	err := orch.Backup(context.Background(), BackupOptions{
		Directory: t.TempDir(),
		Include:   []string{"app_.*"},
		Ignore:    []string{"cache"},
		Verbose:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rt.runCalls)
	assert.Equal(t, []string{"app_db"}, notify.items)
	assert.True(t, containsLine(notify.skips, "app_cache"))
	assert.True(t, containsLine(notify.skips, "tmp"))
	assert.Equal(t, 1, sink.items)
	assert.Equal(t, int64(100), sink.total)
	assert.Equal(t, 1, sink.done)
}

func TestBackup_SkipsSilentWithoutVerbose(t *testing.T) {
	rt := &fakeRuntime{volumes: []string{"app_db", "tmp"}}
	orch, _, notify := newTestOrchestrator(rt)

	err := orch.Backup(context.Background(), BackupOptions{
		Directory: t.TempDir(),
		Include:   []string{"^app_db$"},
	})
	require.NoError(t, err)
	assert.Empty(t, notify.skips)
}

func TestBackup_BatchSurvivesItemFailures(t *testing.T) {
	volumes := []string{"a", "b", "c", "d", "e"}
	usage := map[string]int64{"a": 100, "b": 100, "c": 100, "d": 100, "e": 100}

	rt := &fakeRuntime{
		volumes:   volumes,
		usage:     usage,
		launchErr: map[string]error{"c": errBoom},
	}
	orch, sink, notify := newTestOrchestrator(rt)

	err := orch.Backup(context.Background(), BackupOptions{Directory: t.TempDir()})
	require.NoError(t, err, "item failures never abort the batch")

	assert.Equal(t, 5, rt.runCalls)
	assert.Len(t, notify.successes, 4)
	require.Len(t, notify.failures, 1)
	assert.Contains(t, notify.failures[0], "c")

	// the failed item's known size is still credited
	assert.Equal(t, int64(500), sink.advanced)
	assert.Equal(t, int64(500), sink.total)
	assert.Equal(t, 5, sink.item)
	assert.Equal(t, 1, sink.done)
}

func TestBackup_NonZeroExitReportedPerItem(t *testing.T) {
	rt := &fakeRuntime{
		volumes: []string{"a", "b"},
		jobs:    map[string]*fakeJob{"b": {exitCode: 2}},
	}
	orch, _, notify := newTestOrchestrator(rt)

	err := orch.Backup(context.Background(), BackupOptions{Directory: t.TempDir()})
	require.NoError(t, err)

	assert.Len(t, notify.successes, 1)
	require.Len(t, notify.failures, 1)
	assert.Contains(t, notify.failures[0], "exited with code 2")
}

func TestBackup_ProbeFailureStillRuns(t *testing.T) {
	rt := &fakeRuntime{
		volumes:  []string{"app_db"},
		usageErr: errBoom,
	}
	orch, sink, notify := newTestOrchestrator(rt)

	err := orch.Backup(context.Background(), BackupOptions{Directory: t.TempDir()})
	require.NoError(t, err)

	assert.Len(t, notify.successes, 1)
	// unknown sizes fall back to a total of zero; the tracker guards
	// the denominator downstream
	assert.Equal(t, int64(0), sink.total)
}

func writeFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0644))
}

func TestRestore_Scenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app_db_2024-01-15.tar.gz", 1000)
	writeFile(t, dir, "app_cache_2024-01-15.tar.gz", 500)
	writeFile(t, dir, "notes.txt", 64)        // not an archive
	writeFile(t, dir, "plain.tar.gz", 128)    // no date suffix
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.tar.gz"), 0755))

	rt := &fakeRuntime{}
	orch, sink, notify := newTestOrchestrator(rt)

	err := orch.Restore(context.Background(), RestoreOptions{Directory: dir})
	require.NoError(t, err)

	assert.Equal(t, int64(1500), sink.total)
	assert.Equal(t, 2, sink.items)
	assert.ElementsMatch(t, []string{"app_db", "app_cache"}, rt.ensured)
	assert.Len(t, notify.successes, 2)
	assert.True(t, containsLine(notify.warns, "plain.tar.gz"))
	assert.Equal(t, int64(1500), sink.advanced)
}

func TestRestore_EmptyDirectoryIsConfigError(t *testing.T) {
	rt := &fakeRuntime{}
	orch, _, _ := newTestOrchestrator(rt)

	err := orch.Restore(context.Background(), RestoreOptions{Directory: t.TempDir()})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Zero(t, rt.runCalls)
}

func TestRestore_MissingDirectoryIsConfigError(t *testing.T) {
	rt := &fakeRuntime{}
	orch, _, _ := newTestOrchestrator(rt)

	err := orch.Restore(context.Background(), RestoreOptions{
		Directory: filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestRestore_EnsureVolumeFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app_db_2024-01-15.tar.gz", 1000)
	writeFile(t, dir, "app_cache_2024-01-15.tar.gz", 500)

	rt := &fakeRuntime{
		ensureErr: map[string]error{"app_cache": errBoom},
	}
	orch, sink, notify := newTestOrchestrator(rt)

	err := orch.Restore(context.Background(), RestoreOptions{Directory: dir})
	require.NoError(t, err)

	assert.Len(t, notify.successes, 1)
	assert.Len(t, notify.failures, 1)
	assert.Equal(t, 1, rt.runCalls, "no job launches for a volume that cannot be created")
	// both items end up credited so the bar completes
	assert.Equal(t, int64(1500), sink.advanced)
}
