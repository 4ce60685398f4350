package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// MinRefreshInterval is the minimum gap between two refreshes.
	MinRefreshInterval = 30 * time.Second
	// staggerStep delays each source's request by its position in the
	// active list, so a refresh doesn't hit the relay all at once.
	staggerStep = 200 * time.Millisecond
	// loadBudget is advisory: sources slower than this are flagged in
	// their outcome, nothing is cancelled.
	loadBudget = 10 * time.Second
)

// ErrAlreadyInProgress rejects a refresh while a previous one is still
// outstanding. Callers are expected to ignore it.
var ErrAlreadyInProgress = errors.New("refresh already in progress")

// RateLimitedError rejects a refresh requested before MinRefreshInterval has
// passed. Wait is how long the caller has to hold off.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("refresh rate limited, retry in %s", e.Wait.Round(time.Second))
}

// Fetcher retrieves one raw feed document.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// Outcome records how a single source fared during a refresh.
type Outcome struct {
	Source     string
	Category   string
	Count      int
	Elapsed    time.Duration
	OverBudget bool
	Err        error
}

// Scheduler runs refresh cycles: it fans out one fetch-and-parse task per
// active source, isolates per-source failures, and joins all tasks before
// returning. It owns the refresh session state (in-flight flag, last-refresh
// time, progress), so concurrent refresh attempts are decided here rather
// than by ambient globals.
type Scheduler struct {
	// OnProgress, when set, is called after each source settles. Set it
	// before the first Refresh.
	OnProgress func(completed, total int)

	fetcher     Fetcher
	parser      *Parser
	minInterval time.Duration
	stagger     time.Duration
	now         func() time.Time

	// settleMu serializes task completion so progress callbacks observe
	// strictly increasing counts.
	settleMu sync.Mutex

	mu          sync.Mutex
	inFlight    bool
	lastRefresh time.Time
	completed   int
	total       int
	outcomes    []Outcome
}

// NewScheduler builds a scheduler that admits at most one refresh per
// minInterval; a non-positive interval falls back to MinRefreshInterval.
func NewScheduler(fetcher Fetcher, minInterval time.Duration) *Scheduler {
	if minInterval <= 0 {
		minInterval = MinRefreshInterval
	}
	return &Scheduler{
		fetcher:     fetcher,
		parser:      NewParser(),
		minInterval: minInterval,
		stagger:     staggerStep,
		now:         time.Now,
	}
}

// Refresh fetches every active source concurrently and returns the
// concatenation of all successful per-source article lists, in completion
// order. A failing source contributes nothing and never affects its
// siblings. Refresh waits for every task to settle; once admitted, a cycle
// always runs to completion.
//
// The only failure modes are the two admission rejections: a
// *RateLimitedError when called again within the minimum interval, and
// ErrAlreadyInProgress while a previous cycle is outstanding.
func (s *Scheduler) Refresh(ctx context.Context, active []ActiveSource) ([]Article, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrAlreadyInProgress
	}
	now := s.now()
	if !s.lastRefresh.IsZero() {
		if elapsed := now.Sub(s.lastRefresh); elapsed < s.minInterval {
			s.mu.Unlock()
			return nil, &RateLimitedError{Wait: s.minInterval - elapsed}
		}
	}
	s.inFlight = true
	s.lastRefresh = now
	s.completed = 0
	s.total = len(active)
	s.outcomes = s.outcomes[:0]
	s.mu.Unlock()

	var (
		wg       sync.WaitGroup
		articles []Article
	)

	for i, src := range active {
		wg.Add(1)
		go func(idx int, src ActiveSource) {
			defer wg.Done()
			if d := time.Duration(idx) * s.stagger; d > 0 {
				time.Sleep(d)
			}

			start := time.Now()
			arts, err := s.fetchOne(ctx, src)
			elapsed := time.Since(start)

			s.settleMu.Lock()
			s.mu.Lock()
			s.completed++
			completed, total := s.completed, s.total
			s.outcomes = append(s.outcomes, Outcome{
				Source:     src.Source.Name,
				Category:   src.Category,
				Count:      len(arts),
				Elapsed:    elapsed,
				OverBudget: elapsed > loadBudget,
				Err:        err,
			})
			articles = append(articles, arts...)
			cb := s.OnProgress
			s.mu.Unlock()
			if cb != nil {
				cb(completed, total)
			}
			s.settleMu.Unlock()
		}(i, src)
	}
	wg.Wait()

	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
	return articles, nil
}

// fetchOne retrieves and parses a single source. Fetch errors surface in the
// source's outcome only; parse problems already yield an empty list.
func (s *Scheduler) fetchOne(ctx context.Context, src ActiveSource) ([]Article, error) {
	raw, err := s.fetcher.Fetch(ctx, src.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Source.Name, err)
	}
	return s.parser.Parse(raw, src), nil
}

// Progress reports the fraction of sources settled in the current or most
// recent refresh.
func (s *Scheduler) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 {
		return 0
	}
	return float64(s.completed) / float64(s.total)
}

// Outcomes returns a copy of the per-source diagnostics from the most recent
// refresh.
func (s *Scheduler) Outcomes() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}
