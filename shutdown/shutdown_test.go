// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package shutdown

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

type fakeTrigger struct {
	after int
}

var _ Trigger = (*fakeTrigger)(nil)

func (f *fakeTrigger) GetName() string {
	return "fake"
}

func (f *fakeTrigger) Start(executor Executor) error {
	executor.Execute(f)

	return nil
}

func (f *fakeTrigger) After() {
	f.after++
}

func TestShutdown_CallbacksRunInOrder(t *testing.T) {
	var order []int
	trigger := &fakeTrigger{}
	gs := New(trigger)
	for i := 0; i < 10; i++ {
		i := i
		gs.AddCallback(CallbackFunc(func(name string) error {
			assert.Equal(t, "fake", name)
			order = append(order, i)

			return nil
		}))
	}

	require.NoError(t, gs.Start())

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
	assert.Equal(t, 1, trigger.after)
}

func TestShutdown_HandleError(t *testing.T) {
	var got error
	gs := New(&fakeTrigger{})
	gs.SetErrorHandler(ErrorFunc(func(err error) {
		got = err
	}))
	gs.AddCallback(CallbackFunc(func(name string) error {
		return fmt.Errorf("first")
	}))
	gs.AddCallback(CallbackFunc(func(name string) error {
		return nil
	}))
	gs.AddCallback(CallbackFunc(func(name string) error {
		return fmt.Errorf("second")
	}))

	require.NoError(t, gs.Start())

	var agg errors.Aggregate
	require.True(t, errors.As(got, &agg))
	assert.Len(t, agg.Errors(), 2)
}

func TestShutdown_RunsOnce(t *testing.T) {
	calls := 0
	first, second := &fakeTrigger{}, &fakeTrigger{}
	gs := New(first, second)
	gs.AddCallback(CallbackFunc(func(name string) error {
		calls++

		return nil
	}))

	require.NoError(t, gs.Start())

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, first.after)
	assert.Equal(t, 0, second.after)
}
