// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package shutdown runs cleanup callbacks when a trigger, such as a posix
// signal, fires.
package shutdown

import (
	"sync"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

// Callback is called when shutdown is triggered, with the name of the trigger.
type Callback interface {
	OnShutdown(string) error
}

// CallbackFunc adapts a function to a Callback.
type CallbackFunc func(string) error

// OnShutdown implements Callback.
func (f CallbackFunc) OnShutdown(trigger string) error {
	return f(trigger)
}

// ErrorHandler receives the errors of the callbacks of one shutdown.
type ErrorHandler interface {
	OnError(error)
}

// ErrorFunc adapts a function to an ErrorHandler.
type ErrorFunc func(err error)

// OnError implements ErrorHandler.
func (f ErrorFunc) OnError(err error) {
	f(err)
}

// Executor runs the shutdown for a trigger.
type Executor interface {
	Execute(Trigger)
}

// ExecuteFunc adapts a function to an Executor.
type ExecuteFunc func(Trigger)

// Execute implements Executor.
func (f ExecuteFunc) Execute(trigger Trigger) {
	f(trigger)
}

// Trigger starts a shutdown. Start must not block. After is called once the
// callbacks have returned.
type Trigger interface {
	GetName() string
	Start(Executor) error
	After()
}

// Shutdown runs callbacks when one of its triggers fires.
type Shutdown interface {
	Start() error
	AddCallback(Callback)
	SetErrorHandler(ErrorHandler)
}

type shutdownController struct {
	mu           sync.Mutex
	once         sync.Once
	triggers     []Trigger
	callbacks    []Callback
	errorHandler ErrorHandler
}

// New returns a Shutdown fired by triggers.
func New(triggers ...Trigger) Shutdown {
	return &shutdownController{
		triggers:  triggers,
		callbacks: make([]Callback, 0, 1),
	}
}

// AddCallback appends cb. Callbacks run one after another in the order they
// were added, so a component can be stopped before the ones it depends on.
func (g *shutdownController) AddCallback(cb Callback) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.callbacks = append(g.callbacks, cb)
}

func (g *shutdownController) SetErrorHandler(h ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.errorHandler = h
}

func (g *shutdownController) Start() error {
	for _, t := range g.triggers {
		if err := t.Start(g.executeFunc()); err != nil {
			return errors.WithMessagef(err, "start shutdown trigger %s error", t.GetName())
		}
	}

	return nil
}

// executeFunc runs the callbacks for the first trigger only.
func (g *shutdownController) executeFunc() Executor {
	return ExecuteFunc(func(trigger Trigger) {
		g.once.Do(func() {
			g.mu.Lock()
			callbacks := append([]Callback(nil), g.callbacks...)
			handler := g.errorHandler
			g.mu.Unlock()

			var errs []error
			for _, cb := range callbacks {
				if err := cb.OnShutdown(trigger.GetName()); err != nil {
					errs = append(errs, err)
				}
			}
			if err := errors.NewAggregate(errs); err != nil && handler != nil {
				handler.OnError(err)
			}

			trigger.After()
		})
	})
}
