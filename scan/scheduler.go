// Package scan fans the per-tick evaluation out across the tracked
// symbols on a bounded worker pool and repeats it on a fixed interval.
package scan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Evaluator is the per-symbol work unit; in production it is
// engine.Engine.Tick.
type Evaluator interface {
	Tick(ctx context.Context, symbol string) error
}

// Outcome is one symbol's result from a pass. Err is nil on success.
type Outcome struct {
	Symbol string
	Err    error
}

type Scheduler struct {
	eval     Evaluator
	symbols  []string
	workers  int
	interval time.Duration

	inFlight int32
	passWG   sync.WaitGroup
}

func NewScheduler(eval Evaluator, symbols []string, workers int, interval time.Duration) *Scheduler {
	if workers <= 0 {
		workers = 4
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		eval:     eval,
		symbols:  symbols,
		workers:  workers,
		interval: interval,
	}
}

// RunOnce evaluates every symbol exactly once on the worker pool and
// returns one Outcome per symbol. A cancelled context stops dispatching
// new symbols; a symbol already being evaluated finishes so the ledger
// is never left mid-mutation.
func (s *Scheduler) RunOnce(ctx context.Context, symbols []string) []Outcome {
	jobs := make(chan string)
	results := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				results <- Outcome{Symbol: sym, Err: s.eval.Tick(ctx, sym)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, sym := range symbols {
			select {
			case jobs <- sym:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Outcome, 0, len(symbols))
	for r := range results {
		if r.Err != nil {
			log.Warn().Str("symbol", r.Symbol).Err(r.Err).Msg("tick failed")
		}
		out = append(out, r)
	}
	return out
}

// RunForever repeats RunOnce at the configured interval until the
// context is cancelled. If a pass is still running when the next tick
// fires, that tick is skipped rather than queued, bounding worst-case
// concurrency and memory.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().
		Int("symbols", len(s.symbols)).
		Int("workers", s.workers).
		Dur("interval", s.interval).
		Msg("scheduler started")

	// Immediate first pass; subsequent passes ride the ticker.
	s.startPass(ctx)

	for {
		select {
		case <-ctx.Done():
			// Let a pass in flight finish its ledger mutations before
			// reporting a clean stop.
			s.passWG.Wait()
			log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.startPass(ctx)
		}
	}
}

// startPass launches one pass unless the previous one is still running,
// in which case this tick is dropped.
func (s *Scheduler) startPass(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.inFlight, 0, 1) {
		log.Warn().Msg("previous pass still running, skipping")
		return
	}

	s.passWG.Add(1)
	go func() {
		defer s.passWG.Done()
		defer atomic.StoreInt32(&s.inFlight, 0)
		s.pass(ctx)
	}()
}

func (s *Scheduler) pass(ctx context.Context) {

	start := time.Now()
	outcomes := s.RunOnce(ctx, s.symbols)

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	log.Info().
		Int("evaluated", len(outcomes)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("pass complete")
}
