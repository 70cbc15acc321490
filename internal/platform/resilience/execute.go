package resilience

import "context"

// Execute runs fn through b. Errors for which isFailure returns true count
// against the breaker; other errors count as success since the dependency
// answered. A nil breaker runs fn directly.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (isFailure == nil || isFailure(err)) {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return err
}

// ExecuteContext is Execute bound to the caller's ctx. A ctx that is already
// done short-circuits without touching the breaker, and a call that fails
// after ctx ended releases its slot instead of recording an outcome.
func (b *CircuitBreaker) ExecuteContext(ctx context.Context, fn func(context.Context) error, isFailure func(error) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b == nil {
		return fn(ctx)
	}
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		b.Release()
	case err != nil && (isFailure == nil || isFailure(err)):
		b.RecordFailure()
	default:
		b.RecordSuccess()
	}
	return err
}
