// Package job models the engine's batch work: a submitted Job reports
// progress while it runs and delivers a single terminal error (or nil) when
// it finishes. Two Runner strategies exist with identical semantics: a
// background runner that executes on its own goroutine and an inline runner
// for hosts without a background execution context.
package job

import (
	"context"
	"log/slog"
)

// Progress reports how far a job has advanced. Percent is monotonically
// non-decreasing for well-behaved jobs.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// Job is a unit of cancellable batch work. Implementations call report after
// each batch; report never blocks.
type Job func(ctx context.Context, report func(Progress)) error

// Handle gives the submitter access to a running job's progress stream and
// terminal result. Both channels are closed once the job finishes.
type Handle struct {
	progress chan Progress
	done     chan error
}

// Progress returns the job's progress event stream.
func (h *Handle) Progress() <-chan Progress {
	return h.progress
}

// Done delivers the job's terminal error (nil on success) and is closed
// afterwards.
func (h *Handle) Done() <-chan error {
	return h.done
}

// Wait drains progress and blocks until the job finishes.
func (h *Handle) Wait() error {
	for range h.progress {
	}
	return <-h.done
}

// Runner executes submitted jobs.
type Runner interface {
	Submit(ctx context.Context, name string, job Job) *Handle
}

// progressBuffer is sized so a job reporting once per batch never blocks on
// a slow consumer before dropping events.
const progressBuffer = 64

// BackgroundRunner executes each job on a dedicated goroutine and streams
// progress back over the handle.
type BackgroundRunner struct {
	logger *slog.Logger
}

func NewBackgroundRunner() *BackgroundRunner {
	return &BackgroundRunner{
		logger: slog.Default().With("component", "job-runner", "mode", "background"),
	}
}

func (r *BackgroundRunner) Submit(ctx context.Context, name string, job Job) *Handle {
	h := &Handle{
		progress: make(chan Progress, progressBuffer),
		done:     make(chan error, 1),
	}
	go func() {
		defer close(h.done)
		defer close(h.progress)
		r.logger.Debug("job started", "job", name)
		err := job(ctx, func(p Progress) {
			select {
			case h.progress <- p:
			default:
				// Slow consumer; progress events are advisory and droppable.
			}
		})
		if err != nil {
			r.logger.Error("job failed", "job", name, "error", err)
		} else {
			r.logger.Debug("job finished", "job", name)
		}
		h.done <- err
	}()
	return h
}

// InlineRunner executes the job synchronously inside Submit. Progress events
// are buffered on the handle so callers observe the same stream a background
// run would produce.
type InlineRunner struct {
	logger *slog.Logger
}

func NewInlineRunner() *InlineRunner {
	return &InlineRunner{
		logger: slog.Default().With("component", "job-runner", "mode", "inline"),
	}
}

func (r *InlineRunner) Submit(ctx context.Context, name string, job Job) *Handle {
	h := &Handle{
		progress: make(chan Progress, progressBuffer),
		done:     make(chan error, 1),
	}
	r.logger.Debug("job started", "job", name)
	err := job(ctx, func(p Progress) {
		select {
		case h.progress <- p:
		default:
		}
	})
	if err != nil {
		r.logger.Error("job failed", "job", name, "error", err)
	}
	h.done <- err
	close(h.progress)
	close(h.done)
	return h
}
