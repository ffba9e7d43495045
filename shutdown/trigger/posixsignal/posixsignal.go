// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package posixsignal provides a shutdown trigger fired by posix signals.
package posixsignal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wangtaoking1/soundboard-remote/shutdown"
)

// Name is the name of the trigger.
const Name = "PosixSignalTrigger"

type trigger struct {
	signals []os.Signal
	after   func()
}

// Option configures the trigger.
type Option func(*trigger)

// WithSignals sets the signals to listen to. SIGINT and SIGTERM are used by
// default.
func WithSignals(sig ...os.Signal) Option {
	return func(t *trigger) {
		t.signals = sig
	}
}

// WithAfter sets the function called once the callbacks returned. The process
// exits with status 0 by default.
func WithAfter(after func()) Option {
	return func(t *trigger) {
		t.after = after
	}
}

// New returns a trigger fired by the first of its signals.
func New(opts ...Option) shutdown.Trigger {
	t := &trigger{
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		after: func() {
			os.Exit(0)
		},
	}
	for _, o := range opts {
		o(t)
	}

	return t
}

func (t *trigger) GetName() string {
	return Name
}

func (t *trigger) Start(executor shutdown.Executor) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, t.signals...)

	go func() {
		<-c
		signal.Stop(c)

		executor.Execute(t)
	}()

	return nil
}

func (t *trigger) After() {
	t.after()
}
