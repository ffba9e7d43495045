// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"

	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

// Writer is the end of a connection frames can be written to.
type Writer interface {
	soundboard.Conn
	ID() string
}

// Dispatcher receives every inbound text frame of a connection.
type Dispatcher interface {
	Dispatch(ctx context.Context, writer Writer, frame []byte)
}

// DispatcherFunc adapts a function to a Dispatcher.
type DispatcherFunc func(ctx context.Context, writer Writer, frame []byte)

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, writer Writer, frame []byte) {
	f(ctx, writer, frame)
}

// LogDispatcher logs inbound frames and otherwise ignores them.
var LogDispatcher = DispatcherFunc(func(ctx context.Context, writer Writer, frame []byte) {
	log.From(ctx).Debugw("Received frame", "frame", string(frame))
})

// Handler handles a decoded soundboard command.
type Handler interface {
	Handle(ctx context.Context, peerID string, msg soundboard.Message)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, peerID string, msg soundboard.Message)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, peerID string, msg soundboard.Message) {
	f(ctx, peerID, msg)
}

// NewCommandDispatcher returns a dispatcher decoding frames into commands for
// handler. Frames that are not commands are logged and dropped.
func NewCommandDispatcher(handler Handler) Dispatcher {
	return DispatcherFunc(func(ctx context.Context, writer Writer, frame []byte) {
		msg, err := soundboard.Decode(frame)
		if err != nil {
			log.From(ctx).Warnw("Drop invalid frame", "error", err)
			return
		}
		handler.Handle(ctx, writer.ID(), msg)
	})
}

// Handlers hands every command to each of its handlers in order.
type Handlers []Handler

// Handle implements Handler.
func (hs Handlers) Handle(ctx context.Context, peerID string, msg soundboard.Message) {
	for _, h := range hs {
		h.Handle(ctx, peerID, msg)
	}
}
