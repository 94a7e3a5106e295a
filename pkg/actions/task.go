package actions

import (
	"context"
)

// Task is an operation running on its own goroutine.
type Task[T any] struct {
	done   chan struct{}
	result Result[T]
	cancel context.CancelFunc
}

// Go starts op in the background. The operation does not inherit ctx's
// cancellation or deadline: like a request fired from a view that has since
// gone away, it runs to completion and applies its transition. Values carried
// by ctx are kept. Use Cancel to abort it explicitly.
func Go[T any](ctx context.Context, op func(context.Context) Result[T]) *Task[T] {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	t := &Task[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(t.done)
		defer cancel()
		t.result = op(runCtx)
	}()
	return t
}

// Done is closed once the operation has finished.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Wait blocks until the operation finishes or ctx ends. On ctx expiry the
// operation keeps running and the zero Result is returned.
func (t *Task[T]) Wait(ctx context.Context) (Result[T], error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}

// Cancel aborts the round trip. The operation then finishes as a failure and
// records it in the store like any other.
func (t *Task[T]) Cancel() { t.cancel() }
