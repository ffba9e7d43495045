// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"time"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

var (
	// ErrRetryable marks an error after which the function may be tried again.
	ErrRetryable = errors.New("retry")
	// ErrTimeout is returned when no attempt succeeded before the timeout.
	ErrTimeout = errors.New("retry timeout")
)

// RetryWithTimeout calls do until it succeeds, returns an error that does not
// wrap ErrRetryable, or timeout elapses. The first attempt is immediate and
// later attempts are spaced by interval. A zero timeout retries until ctx is
// done.
func RetryWithTimeout(ctx context.Context, interval time.Duration, timeout time.Duration, do func() error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := do()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrRetryable) {
			return err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && timeout > 0 {
				return errors.WithMessagef(ErrTimeout, "last error: %v", err)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
