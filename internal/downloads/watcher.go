package downloads

import (
	"path/filepath"
	"strings"
	"time"

	"printgrab/internal/config"

	"github.com/rs/zerolog"
)

// Outcome is the terminal state of a completion wait. Timeouts are expected
// conditions for this subsystem and are reported as values, not errors, so
// the caller can move on to the next unit of work.
type Outcome int

const (
	// OutcomeCompleted means a new file appeared and its size held stable.
	OutcomeCompleted Outcome = iota
	// OutcomeTimedOut means no candidate appeared in time, or the selected
	// candidate never stabilized within its tick budget.
	OutcomeTimedOut
)

// Result is the outcome of WaitForCompletion. Path is set only when the
// outcome is OutcomeCompleted.
type Result struct {
	Path    string
	Outcome Outcome
}

// Completed reports whether a verified download path is available.
func (r Result) Completed() bool {
	return r.Outcome == OutcomeCompleted
}

// Candidate is a file present after the triggering action but absent from the
// baseline, excluding in-progress download names.
type Candidate struct {
	Path    string
	ModTime time.Time
}

// Selector picks "the" triggered download among several candidates. More than
// one candidate can appear when other processes write to the watched
// directory; the choice is a heuristic, not a guarantee.
type Selector func(candidates []Candidate) Candidate

// SelectNewest picks the candidate with the largest modification time, ties
// broken by iteration order. This is the default selection strategy.
func SelectNewest(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.ModTime.After(best.ModTime) {
			best = candidate
		}
	}
	return best
}

// SelectNewestWithExtension prefers the newest candidate carrying the given
// extension, falling back to the overall newest when none matches. Useful
// when the caller knows what kind of file it just triggered (e.g. a ZIP from
// a bulk download button).
func SelectNewestWithExtension(ext string) Selector {
	return func(candidates []Candidate) Candidate {
		var matching []Candidate
		for _, candidate := range candidates {
			if strings.EqualFold(filepath.Ext(candidate.Path), ext) {
				matching = append(matching, candidate)
			}
		}
		if len(matching) == 0 {
			return SelectNewest(candidates)
		}
		return SelectNewest(matching)
	}
}

// WatcherConfig holds the polling parameters for download verification.
type WatcherConfig struct {
	// PollInterval is the scan-phase tick while waiting for a candidate.
	PollInterval time.Duration
	// StabilityInterval is the tick while polling a candidate's size.
	StabilityInterval time.Duration
	// StabilityTicks bounds how many size polls one candidate gets.
	StabilityTicks int
	// StabilityThreshold is the number of consecutive unchanged non-zero
	// size readings required to declare the download complete.
	StabilityThreshold int
	// PartialExtensions are filename suffixes of in-progress downloads.
	PartialExtensions []string
	// Selector resolves ambiguity between candidates; nil means SelectNewest.
	Selector Selector
}

// DefaultWatcherConfig returns the polling parameters used in production.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval:       time.Duration(config.DefaultPollIntervalSecs) * time.Second,
		StabilityInterval:  time.Duration(config.DefaultStabilityIntervalSecs) * time.Second,
		StabilityTicks:     config.DefaultStabilityTicks,
		StabilityThreshold: config.DefaultStabilityThreshold,
		PartialExtensions:  config.DefaultPartialExtensions(),
	}
}

// WatcherConfigFrom converts the file-configuration section into polling
// parameters.
func WatcherConfigFrom(cfg config.DownloadsConfig) WatcherConfig {
	return WatcherConfig{
		PollInterval:       time.Duration(cfg.PollIntervalSecs) * time.Second,
		StabilityInterval:  time.Duration(cfg.StabilityIntervalSecs) * time.Second,
		StabilityTicks:     cfg.StabilityTicks,
		StabilityThreshold: cfg.StabilityThreshold,
		PartialExtensions:  cfg.PartialExtensions,
	}
}

// Watcher detects completion of browser-initiated downloads by diffing
// directory snapshots and polling candidate file sizes for stability.
// Browsers write downloads incrementally and only sometimes finalize with an
// atomic rename; size stability is the portable signal that does not depend
// on any browser-internal progress API.
type Watcher struct {
	config WatcherConfig
	fs     DirFS
	clock  Clock
	logger zerolog.Logger
}

// NewWatcher creates a watcher against the real filesystem and clock.
func NewWatcher(cfg WatcherConfig, logger zerolog.Logger) *Watcher {
	return &Watcher{
		config: cfg,
		fs:     OSDirFS(),
		clock:  SystemClock(),
		logger: logger.With().Str("component", "DownloadWatcher").Logger(),
	}
}

// WithFS replaces the filesystem backend. Used by tests.
func (w *Watcher) WithFS(fs DirFS) *Watcher {
	w.fs = fs
	return w
}

// WithClock replaces the clock. Used by tests.
func (w *Watcher) WithClock(clock Clock) *Watcher {
	w.clock = clock
	return w
}

// TakeSnapshot captures the current set of filenames in dir. A missing or
// unreadable directory yields an empty snapshot.
func (w *Watcher) TakeSnapshot(dir string) Snapshot {
	names, err := w.fs.List(dir)
	if err != nil {
		return Snapshot{}
	}
	return NewSnapshot(names)
}

// WaitForCompletion blocks until a new, completed file appears in dir, or the
// timeout elapses. Multiple sequential invocations against the same directory
// require the caller to clean the directory or re-take the baseline between
// invocations, otherwise a stale file from an earlier download is
// misattributed to the current one.
func (w *Watcher) WaitForCompletion(dir string, baseline Snapshot, timeout time.Duration) Result {
	deadline := w.clock.Now().Add(timeout)

	w.logger.Debug().
		Str("dir", dir).
		Int("baseline_entries", len(baseline)).
		Dur("timeout", timeout).
		Msg("Waiting for download completion")

	for w.clock.Now().Before(deadline) {
		candidate, found := w.scanForCandidate(dir, baseline)
		if !found {
			w.clock.Sleep(w.config.PollInterval)
			continue
		}

		w.logger.Debug().Str("candidate", candidate).Msg("Selected download candidate")

		if w.waitForStableSize(candidate) {
			w.logger.Info().Str("path", candidate).Msg("Download completed and stable")
			return Result{Path: candidate, Outcome: OutcomeCompleted}
		}

		// A candidate that never stabilizes within its tick budget is
		// terminal for this invocation; we do not go back and pick another.
		w.logger.Warn().Str("candidate", candidate).Msg("Candidate size never stabilized")
		return Result{Outcome: OutcomeTimedOut}
	}

	w.logger.Warn().Str("dir", dir).Msg("No completed download appeared before timeout")
	return Result{Outcome: OutcomeTimedOut}
}

// scanForCandidate diffs the directory against the baseline and selects one
// candidate. Entries still carrying an in-progress suffix are excluded, and
// entries whose metadata cannot be read are skipped for this tick: a download
// manager finalizing by rename can make a file vanish between listing and
// stat.
func (w *Watcher) scanForCandidate(dir string, baseline Snapshot) (string, bool) {
	names, err := w.fs.List(dir)
	if err != nil {
		return "", false
	}

	var candidates []Candidate
	for _, name := range names {
		if baseline.Contains(name) || w.isPartialName(name) {
			continue
		}

		path := filepath.Join(dir, name)
		stat, err := w.fs.Stat(path)
		if err != nil {
			w.logger.Debug().Str("name", name).Msg("Candidate metadata unreadable, skipping this tick")
			continue
		}
		candidates = append(candidates, Candidate{Path: path, ModTime: stat.ModTime})
	}

	if len(candidates) == 0 {
		return "", false
	}

	selector := w.config.Selector
	if selector == nil {
		selector = SelectNewest
	}
	return selector(candidates).Path, true
}

func (w *Watcher) isPartialName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range w.config.PartialExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// waitForStableSize polls the candidate's size once per stability tick and
// reports whether it reached the required number of consecutive unchanged
// non-zero readings before exhausting the tick budget.
func (w *Watcher) waitForStableSize(path string) bool {
	stableReads := 0
	lastSize := int64(-1)

	for tick := 0; tick < w.config.StabilityTicks; tick++ {
		stat, err := w.fs.Stat(path)
		switch {
		case err != nil:
			// Transient metadata race; start counting over.
			stableReads = 0
		case stat.Size > 0 && stat.Size == lastSize:
			stableReads++
			w.logger.Debug().
				Str("path", path).
				Int64("size", stat.Size).
				Int("stable_reads", stableReads).
				Msg("Candidate size unchanged")
			if stableReads >= w.config.StabilityThreshold {
				return true
			}
		default:
			if stat.Size > 0 {
				stableReads = 1
			} else {
				stableReads = 0
			}
			lastSize = stat.Size
			w.logger.Debug().Str("path", path).Int64("size", stat.Size).Msg("Candidate size changed")
		}

		w.clock.Sleep(w.config.StabilityInterval)
	}

	return false
}
