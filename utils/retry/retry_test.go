// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

func TestRetryWithTimeout(t *testing.T) {
	c := 0
	err := RetryWithTimeout(context.Background(), time.Millisecond, time.Second, func() error {
		c++
		if c < 3 {
			return errors.WithMessage(ErrRetryable, "error")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestRetryWithTimeout_NotRetryable(t *testing.T) {
	c := 0
	err := RetryWithTimeout(context.Background(), time.Millisecond, time.Second, func() error {
		c++
		return errors.New("fatal")
	})
	assert.EqualError(t, err, "fatal")
	assert.Equal(t, 1, c)
}

func TestRetryWithTimeout_Timeout(t *testing.T) {
	err := RetryWithTimeout(context.Background(), 5*time.Millisecond, 20*time.Millisecond, func() error {
		return ErrRetryable
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRetryWithTimeout_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithTimeout(ctx, time.Millisecond, 0, func() error {
		return ErrRetryable
	})
	assert.ErrorIs(t, err, context.Canceled)
}
