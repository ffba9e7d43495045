// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package soundboard

import (
	"context"
	"sync/atomic"
)

// Conn is a live channel to the soundboard accepting serialized commands.
// Delivery, ordering and retries are owned by the implementation.
type Conn interface {
	Send(ctx context.Context, text []byte) error
}

type connHolder struct {
	conn Conn
}

// Handle holds the current connection, if any. The transport sets and clears
// it; senders only read it. The zero value is an empty handle.
type Handle struct {
	current atomic.Pointer[connHolder]
}

// NewHandle returns an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Set makes conn the current connection. A nil conn empties the handle.
func (h *Handle) Set(conn Conn) {
	if conn == nil {
		h.Clear()
		return
	}
	h.current.Store(&connHolder{conn: conn})
}

// Clear empties the handle.
func (h *Handle) Clear() {
	h.current.Store(nil)
}

// Release empties the handle only if conn is still the current connection, so
// a closing transport does not drop a connection that replaced it.
func (h *Handle) Release(conn Conn) bool {
	holder := h.current.Load()
	if holder == nil || holder.conn != conn {
		return false
	}

	return h.current.CompareAndSwap(holder, nil)
}

// Get returns the current connection and whether there is one.
func (h *Handle) Get() (Conn, bool) {
	holder := h.current.Load()
	if holder == nil {
		return nil, false
	}

	return holder.conn, true
}
