package hierarchy

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker tracks and reports progress of a summarization run.
// It is level-aware: Level resets the per-level counters while the run
// totals keep accumulating.
type ProgressTracker struct {
	writer       io.Writer
	level        int
	levelTotal   int
	levelCurrent int
	runTotal     int
	startTime    time.Time
	started      bool
	mu           sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
func NewProgressTracker(writer io.Writer) *ProgressTracker {
	return &ProgressTracker{writer: writer}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.runTotal = 0
	p.level = 0
	p.levelTotal = 0
	p.levelCurrent = 0
}

// Level announces that processing moved to a new hierarchy level with the
// given number of batches.
func (p *ProgressTracker) Level(level, batches int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.level = level
	p.levelTotal = batches
	p.levelCurrent = 0
	fmt.Fprintf(p.writer, "\nLevel %d: %d batches\n", level, batches)
}

// Increment records completed batches at the current level.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.levelCurrent += delta
	if p.levelCurrent > p.levelTotal {
		p.levelCurrent = p.levelTotal
	}
	p.runTotal += delta
	p.report()
}

// Finish prints final progress.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	fmt.Fprintln(p.writer)
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.runTotal) / elapsed.Seconds()

	percentage := 0.0
	if p.levelTotal > 0 {
		percentage = float64(p.levelCurrent) / float64(p.levelTotal) * 100.0
	}

	fmt.Fprintf(p.writer, "\rLevel %d: %d/%d (%.1f%%) - %.1f batches/s",
		p.level, p.levelCurrent, p.levelTotal, percentage, rate)
}
