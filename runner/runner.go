package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/partwire/partwire"
	"golang.org/x/sync/errgroup"
)

type (
	// Runnable represents a component that can be run with a context.
	Runnable interface {
		Run(ctx context.Context) error
	}

	// RunnableFunc adapts a plain function to the Runnable interface.
	RunnableFunc func(ctx context.Context) error
)

func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// WithSignalContext derives a context cancelled on SIGINT or SIGTERM, so
// runnables can shut down cleanly when the process is asked to stop.
func WithSignalContext(parent context.Context) context.Context {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}

// RunAll runs all the provided runnables concurrently and waits for all of them to finish.
//
// This method is blocking and will return an error if any of the runnables returns an error.
func RunAll(parentCtx context.Context, runnables ...Runnable) error {
	group, ctx := errgroup.WithContext(parentCtx)

	for _, runnable := range runnables {
		innerRunnable := runnable // capture loop variable
		group.Go(func() error {
			return innerRunnable.Run(ctx)
		})
	}

	return group.Wait()
}

// Run resolves every Runnable exported in the scope and runs them all. The
// context is resolved from the scope too when one is exported, so an
// application can wire a signal-aware context into its container.
func Run(scope partwire.ResolutionScope) error {
	ctx, found, err := partwire.TryResolve[context.Context](scope)
	if err != nil {
		return err
	}
	if !found {
		ctx = context.Background()
	}

	runnables, err := partwire.ResolveAll[Runnable](scope)
	if err != nil {
		return err
	}

	return RunAll(ctx, runnables...)
}
