package nav

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrCancelled is returned by Execute when the user dismisses the wait
// before the lookup completes. A cancelled request produces no dispatch.
var ErrCancelled = errors.New("lookup cancelled")

// Execute runs strategy for req under a cancellable wait scope. The scope is
// opened for the duration of the call and released on every exit path.
//
// The returned outcome is nil when there is nothing left to route: the
// strategy was None, or the synchronous finder handled the request itself
// (navigating as its own side effect). handled reports whether the request
// was acted upon at all.
func Execute(ctx context.Context, strategy Strategy, req Request, scope Scope) (outcome *Outcome, handled bool, err error) {
	if strategy.Kind == StrategyNone {
		return nil, false, nil
	}

	title := "Implementations"
	ctx, err = scope.Open(ctx, title)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open wait scope: %v", err)
	}
	defer scope.Close()

	switch strategy.Kind {
	case StrategySync:
		handled, message, err := strategy.Sync.TryGoToImplementation(ctx, req)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil, false, ErrCancelled
			}
			return nil, false, err
		}
		if message != "" {
			return &Outcome{Message: message}, true, nil
		}
		return nil, handled, nil
	case StrategyStreaming:
		c := NewCollector(title)
		g, gctx := errgroup.WithContext(ctx)
		for _, src := range strategy.Sources {
			src := src
			g.Go(func() error {
				return src.FindImplementations(gctx, req, c)
			})
		}

		// The single join point: we proceed only once every source has
		// completed, or unwind promptly on cancellation. Partial results
		// accumulated in the collector are not surfaced before the join.
		done := make(chan error, 1)
		go func() {
			done <- g.Wait()
		}()
		select {
		case <-ctx.Done():
			return nil, false, ErrCancelled
		case err := <-done:
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil, false, ErrCancelled
				}
				return nil, false, err
			}
		}
		o := c.Outcome()
		return &o, true, nil
	}
	return nil, false, nil
}
