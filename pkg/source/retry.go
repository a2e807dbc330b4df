package source

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Retry wraps f so that transport failures are retried for the same pair
// with a linear backoff (interval, 2*interval, ...). Not-found results are
// returned immediately. The total number of calls is at most attempts.
//
// Example:
//
//	src := source.Retry(httpSource, 3, 200*time.Millisecond)
func Retry(f Fetcher, attempts int, interval time.Duration) Fetcher {
	attempts = max(attempts, 1)

	return Func(func(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
		var lastErr error
		for i := range attempts {
			b, err := f.Fetch(ctx, lang, namespace)
			if err == nil || errors.Is(err, ErrNotFound) {
				return b, err
			}
			lastErr = err

			if i == attempts-1 {
				break
			}
			if waitErr := wait(ctx, time.Duration(i+1)*interval); waitErr != nil {
				return nil, Transport(lang, namespace, errors.Join(lastErr, waitErr))
			}
		}
		return nil, lastErr
	})
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
