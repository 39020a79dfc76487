package node

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/domain/tracing"
)

// RecurringFunction is something to run over and over, e.g. committing blocks
type RecurringFunction struct {
	name string
	// How often to run it
	interval time.Duration
	// What to run
	f func(ctx context.Context) error
}

// NewRecurringFunction returns a new recurring function (but doesn't run it)
// Also assumes f is non-nil.
func NewRecurringFunction(name string, interval time.Duration, f func(ctx context.Context) error) RecurringFunction {
	return RecurringFunction{name: name, interval: interval, f: f}
}

// BlockCommitter commits a block per iteration using the given Sequencer
func BlockCommitter(sequencer *Sequencer, interval time.Duration) RecurringFunction {
	return NewRecurringFunction("commit-block", interval, func(ctx context.Context) error {
		_, err := sequencer.CommitBlock(ctx)
		return err
	})
}

// Runner runs RecurringFunctions, each in its own goroutine
type Runner struct {
	functions []RecurringFunction
	stopped   uint32
	tracer    tracing.Tracer
	wg        sync.WaitGroup
}

func NewRunner(functions []RecurringFunction, tracer tracing.Tracer) *Runner {
	return &Runner{
		functions: functions,
		stopped:   1,
		tracer:    tracer,
	}
}

// Start begins the Runner loop
func (r *Runner) Start() {
	atomic.StoreUint32(&r.stopped, 0)
	for _, f := range r.functions {
		r.wg.Add(1)
		go func(function RecurringFunction) {
			defer r.wg.Done()
			for r.shouldRun() {
				startIterationTime := time.Now().UTC()
				tx := r.tracer.BackgroundTx(function.name)
				if err := function.f(tx.Context()); err != nil {
					tx.SetResult("error")
					log.Error().Err(err).Msgf("Failed when running recurring function [%s]", function.name)
				} else {
					tx.SetResult("success")
				}
				tx.End()
				waitTime := function.interval - time.Since(startIterationTime)
				if waitTime > 0 {
					time.Sleep(waitTime)
				}
			}
			log.Info().Msgf("Recurring function ended [%s]", function.name)
		}(f)
	}
}

// Stop stops the Runner loop and waits for in-flight iterations to finish
func (r *Runner) Stop() {
	log.Info().Msg("Stopping recurring functions")
	atomic.StoreUint32(&r.stopped, 1)
	r.wg.Wait()
}

func (r *Runner) shouldRun() bool {
	return atomic.LoadUint32(&r.stopped) == 0
}
