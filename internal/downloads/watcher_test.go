package downloads

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances instantly on Sleep so polling loops run without real
// waiting.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func (c *fakeClock) elapsed(start time.Time) time.Duration {
	return c.now.Sub(start)
}

// scriptedFS reports directory contents as a function of the fake clock, so a
// test can model files appearing, growing, and settling over time.
type scriptedFS struct {
	clock    *fakeClock
	start    time.Time
	contents func(elapsed time.Duration) map[string]FileStat
}

func newScriptedFS(clock *fakeClock, contents func(elapsed time.Duration) map[string]FileStat) *scriptedFS {
	return &scriptedFS{clock: clock, start: clock.now, contents: contents}
}

func (s *scriptedFS) List(dir string) ([]string, error) {
	var names []string
	for name := range s.contents(s.clock.now.Sub(s.start)) {
		names = append(names, name)
	}
	return names, nil
}

func (s *scriptedFS) Stat(path string) (FileStat, error) {
	name := filepath.Base(path)
	stat, ok := s.contents(s.clock.now.Sub(s.start))[name]
	if !ok {
		return FileStat{}, os.ErrNotExist
	}
	return stat, nil
}

func testWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval:       2 * time.Second,
		StabilityInterval:  1 * time.Second,
		StabilityTicks:     25,
		StabilityThreshold: 5,
		PartialExtensions:  []string{".crdownload", ".part", ".tmp", ".torrent", ".download", ".inprogress"},
	}
}

func newTestWatcher(cfg WatcherConfig, clock *fakeClock, fs DirFS) *Watcher {
	return NewWatcher(cfg, zerolog.Nop()).WithClock(clock).WithFS(fs)
}

func fileAt(size int64, modTime time.Time) FileStat {
	return FileStat{Size: size, ModTime: modTime}
}

func TestWaitForCompletionTimesOutOnEmptyDirectory(t *testing.T) {
	clock := newFakeClock()
	start := clock.now
	fs := newScriptedFS(clock, func(time.Duration) map[string]FileStat {
		return map[string]FileStat{}
	})
	watcher := newTestWatcher(testWatcherConfig(), clock, fs)

	result := watcher.WaitForCompletion("/downloads", Snapshot{}, 10*time.Second)

	assert.Equal(t, OutcomeTimedOut, result.Outcome)
	assert.Empty(t, result.Path)
	// The wait must stop within one poll interval past the deadline.
	assert.GreaterOrEqual(t, clock.elapsed(start), 10*time.Second)
	assert.LessOrEqual(t, clock.elapsed(start), 12*time.Second)
}

func TestWaitForCompletionDetectsStableFile(t *testing.T) {
	clock := newFakeClock()
	base := clock.now
	fs := newScriptedFS(clock, func(elapsed time.Duration) map[string]FileStat {
		files := map[string]FileStat{
			"old.txt": fileAt(10, base),
		}
		if elapsed >= 2*time.Second {
			files["model.zip"] = fileAt(4096, base.Add(2*time.Second))
		}
		return files
	})
	watcher := newTestWatcher(testWatcherConfig(), clock, fs)

	baseline := NewSnapshot([]string{"old.txt"})
	result := watcher.WaitForCompletion("/downloads", baseline, 60*time.Second)

	require.Equal(t, OutcomeCompleted, result.Outcome)
	assert.True(t, result.Completed())
	assert.Equal(t, filepath.Join("/downloads", "model.zip"), result.Path)
}

func TestWaitForCompletionIgnoresBaselineFiles(t *testing.T) {
	clock := newFakeClock()
	base := clock.now
	fs := newScriptedFS(clock, func(time.Duration) map[string]FileStat {
		return map[string]FileStat{
			"stale.zip": fileAt(1000, base),
		}
	})
	watcher := newTestWatcher(testWatcherConfig(), clock, fs)

	baseline := NewSnapshot([]string{"stale.zip"})
	result := watcher.WaitForCompletion("/downloads", baseline, 6*time.Second)

	assert.Equal(t, OutcomeTimedOut, result.Outcome)
}

func TestWaitForCompletionNeverSelectsPartialFiles(t *testing.T) {
	clock := newFakeClock()
	base := clock.now
	fs := newScriptedFS(clock, func(time.Duration) map[string]FileStat {
		return map[string]FileStat{
			"model.zip.crdownload": fileAt(4096, base),
			"UPPER.PART":           fileAt(4096, base),
		}
	})
	watcher := newTestWatcher(testWatcherConfig(), clock, fs)

	result := watcher.WaitForCompletion("/downloads", Snapshot{}, 6*time.Second)

	assert.Equal(t, OutcomeTimedOut, result.Outcome)
	assert.Empty(t, result.Path)
}

func TestWaitForCompletionGrowingFileNeverStabilizes(t *testing.T) {
	clock := newFakeClock()
	base := clock.now
	fs := newScriptedFS(clock, func(elapsed time.Duration) map[string]FileStat {
		// Size grows on every tick so no two consecutive reads agree.
		return map[string]FileStat{
			"huge.zip": fileAt(int64(elapsed/time.Millisecond)+1, base),
		}
	})
	clockStart := clock.now
	watcher := newTestWatcher(testWatcherConfig(), clock, fs)

	result := watcher.WaitForCompletion("/downloads", Snapshot{}, 10*time.Minute)

	assert.Equal(t, OutcomeTimedOut, result.Outcome)
	// An unstable candidate is terminal: the wait gives up after its tick
	// budget instead of burning the rest of the timeout rescanning.
	assert.Less(t, clock.elapsed(clockStart), time.Minute)
}

func TestWaitForCompletionZeroSizeFileNeverCompletes(t *testing.T) {
	clock := newFakeClock()
	base := clock.now
	fs := newScriptedFS(clock, func(time.Duration) map[string]FileStat {
		return map[string]FileStat{"empty.zip": fileAt(0, base)}
	})
	watcher := newTestWatcher(testWatcherConfig(), clock, fs)

	result := watcher.WaitForCompletion("/downloads", Snapshot{}, 10*time.Minute)

	assert.Equal(t, OutcomeTimedOut, result.Outcome)
}

func TestWaitForCompletionStatErrorResetsStability(t *testing.T) {
	clock := newFakeClock()
	base := clock.now
	cfg := testWatcherConfig()
	cfg.StabilityThreshold = 3
	cfg.StabilityTicks = 12

	// The file's metadata blinks out between the 2nd and 3rd second, which
	// must restart the consecutive-read count rather than abort the wait.
	fs := newScriptedFS(clock, func(elapsed time.Duration) map[string]FileStat {
		if elapsed >= 2*time.Second && elapsed < 3*time.Second {
			return map[string]FileStat{}
		}
		return map[string]FileStat{"model.zip": fileAt(500, base)}
	})
	watcher := newTestWatcher(cfg, clock, fs)

	result := watcher.WaitForCompletion("/downloads", Snapshot{}, time.Minute)

	require.Equal(t, OutcomeCompleted, result.Outcome)
	assert.Equal(t, filepath.Join("/downloads", "model.zip"), result.Path)
}

func TestTakeSnapshotMissingDirectoryIsEmpty(t *testing.T) {
	watcher := NewWatcher(testWatcherConfig(), zerolog.Nop())

	snapshot := watcher.TakeSnapshot(filepath.Join(t.TempDir(), "does-not-exist"))

	assert.Empty(t, snapshot)
}

func TestSelectNewest(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{Path: "/d/a.zip", ModTime: base},
		{Path: "/d/b.zip", ModTime: base.Add(5 * time.Second)},
		{Path: "/d/c.zip", ModTime: base.Add(2 * time.Second)},
	}

	assert.Equal(t, "/d/b.zip", SelectNewest(candidates).Path)
}

func TestSelectNewestWithExtension(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{Path: "/d/readme.txt", ModTime: base.Add(10 * time.Second)},
		{Path: "/d/model.ZIP", ModTime: base},
	}

	// Extension match wins over recency, case-insensitively.
	assert.Equal(t, "/d/model.ZIP", SelectNewestWithExtension(".zip")(candidates).Path)

	// Without a match it degrades to plain newest.
	assert.Equal(t, "/d/readme.txt", SelectNewestWithExtension(".stl")(candidates).Path)
}
