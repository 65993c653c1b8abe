package generate

import (
	"context"

	"github.com/handiism/jimeng-imagegen/internal/config"
	"golang.org/x/sync/errgroup"
)

// streamBuffer is how many events Stream queues before the worker waits for
// the consumer.
const streamBuffer = 64

// Executor runs workflows on a background worker, one worker per run.
//
// Executor does not guard against overlapping runs. Front ends disable their
// trigger while a Handle is not done.
type Executor struct {
	opts Options
}

// NewExecutor creates an Executor whose runs use opts.
func NewExecutor(opts Options) *Executor {
	return &Executor{opts: opts}
}

// Handle tracks one background run.
type Handle struct {
	RunID string

	g       errgroup.Group
	done    chan struct{}
	outcome Outcome
}

// Done is closed once the run reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the run finishes and returns its outcome.
func (h *Handle) Wait() Outcome {
	_ = h.g.Wait() // the failure is carried in outcome.Err
	return h.outcome
}

// Start launches a run and returns immediately. sink receives every event on
// the worker goroutine, in order; it must not block for long.
func (e *Executor) Start(ctx context.Context, settings config.Settings, prompt string, sink func(Event)) *Handle {
	return e.start(ctx, settings, prompt, sink, nil)
}

// Stream launches a run and delivers its events on the returned channel,
// which is closed after the last event. The caller must drain the channel.
func (e *Executor) Stream(ctx context.Context, settings config.Settings, prompt string) (<-chan Event, *Handle) {
	events := make(chan Event, streamBuffer)
	h := e.start(ctx, settings, prompt, func(ev Event) { events <- ev }, func() { close(events) })
	return events, h
}

func (e *Executor) start(ctx context.Context, settings config.Settings, prompt string, sink func(Event), after func()) *Handle {
	w := NewWorkflow(e.opts, sink)
	h := &Handle{
		RunID: w.RunID(),
		done:  make(chan struct{}),
	}

	h.g.Go(func() error {
		defer close(h.done)
		if after != nil {
			defer after()
		}
		h.outcome = w.Run(ctx, settings, prompt)
		return h.outcome.Err
	})
	return h
}
