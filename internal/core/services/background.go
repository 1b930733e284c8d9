package services

import (
	"context"
	"log/slog"

	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// AsyncRunner runs side effects on goroutines detached from request cancellation.
type AsyncRunner struct {
	wg conc.WaitGroup
}

var (
	_ portssvc.BackgroundRunner = (*AsyncRunner)(nil)
	_ portssvc.BackgroundRunner = InlineRunner{}
)

// NewAsyncRunner creates a runner. Call Wait during shutdown.
func NewAsyncRunner() *AsyncRunner {
	return &AsyncRunner{}
}

func (r *AsyncRunner) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	r.wg.Go(func() {
		runRecovered(detached, name, fn)
	})
}

// Wait blocks until running tasks finish or ctx is done.
func (r *AsyncRunner) Wait(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		if rec := r.wg.WaitAndRecover(); rec != nil {
			done <- rec.AsError()
			return
		}
		done <- nil
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InlineRunner runs side effects synchronously. Used by CLI jobs and tests.
type InlineRunner struct{}

func (InlineRunner) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	runRecovered(context.WithoutCancel(ctx), name, fn)
}

// runRecovered logs a panicking task instead of letting it take down the caller.
// Side effects run after commit, so a failure here must not surface as a failed operation.
func runRecovered(ctx context.Context, name string, fn func(ctx context.Context)) {
	rec := panics.Try(func() { fn(ctx) })
	if rec == nil {
		return
	}
	middleware.GetLoggerFromCtx(ctx).Error("Background task panicked",
		slog.String("task", name),
		slog.Any("panic", rec.Value),
		slog.String("stack", string(rec.Stack)))
}
