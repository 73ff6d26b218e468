package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/ultrapong/pkg/sequence"
)

// Concurrent runs action for each element of the iterator in its own
// goroutine, at most limit at a time (no limit when limit <= 0). The context
// passed to action is cancelled on the first error, which is returned after
// every started goroutine finishes.
func Concurrent[T any](ctx context.Context, i *sequence.Iterator[T], limit int, action func(context.Context, T) error) error {
	errGroup, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		errGroup.SetLimit(limit)
	}

	for value := range i.Seq() {
		if ctx.Err() != nil {
			break
		}
		errGroup.Go(func() error {
			return action(ctx, value)
		})
	}

	return errGroup.Wait()
}
