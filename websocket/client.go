// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
	"github.com/wangtaoking1/soundboard-remote/utils/retry"
)

// ErrNotConnected is returned by Run and Send before a successful Dial.
var ErrNotConnected = errors.New("websocket client not connected")

// Client is the outbound connection to a soundboard. It owns the handle:
// the handle holds the client's connection from Dial until Run returns.
type Client struct {
	opts       *Options
	handle     *soundboard.Handle
	dispatcher Dispatcher

	mu   sync.Mutex
	peer *peer
}

// NewClient returns a client publishing its connection in handle. A nil
// dispatcher logs inbound frames.
func NewClient(opts *Options, handle *soundboard.Handle, dispatcher Dispatcher) *Client {
	if dispatcher == nil {
		dispatcher = LogDispatcher
	}

	return &Client{
		opts:       opts,
		handle:     handle,
		dispatcher: dispatcher,
	}
}

// Dial connects to the soundboard, retrying until the dial retry timeout.
func (c *Client) Dial(ctx context.Context) error {
	dialer := &websocket.Dialer{
		Proxy:             http.ProxyFromEnvironment,
		HandshakeTimeout:  c.opts.DialTimeout,
		ReadBufferSize:    c.opts.ReadBufferSize,
		WriteBufferSize:   c.opts.WriteBufferSize,
		EnableCompression: c.opts.Compression,
	}

	var conn *websocket.Conn
	dial := func() error {
		var (
			resp *http.Response
			err  error
		)
		conn, resp, err = dialer.DialContext(ctx, c.opts.URL, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			if c.opts.DialRetryTimeout <= 0 {
				return errors.Wrapf(err, "dial %s", c.opts.URL)
			}
			log.Debug("Dial soundboard failed, retrying", "url", c.opts.URL, "error", err)
			return errors.WithMessagef(retry.ErrRetryable, "dial %s: %v", c.opts.URL, err)
		}
		return nil
	}
	if err := retry.RetryWithTimeout(ctx, c.opts.DialRetryInterval, c.opts.DialRetryTimeout, dial); err != nil {
		return err
	}

	p := newPeer(uuid.New().String(), c.opts, c.dispatcher, conn)
	c.mu.Lock()
	c.peer = p
	c.mu.Unlock()
	c.handle.Set(p)
	log.Info("Connected to soundboard", "url", c.opts.URL, "id", p.ID())

	return nil
}

// Run serves the connection established by Dial until ctx is done or the
// connection fails. The handle is released when it returns.
func (c *Client) Run(ctx context.Context) error {
	c.mu.Lock()
	p := c.peer
	c.mu.Unlock()
	if p == nil {
		return ErrNotConnected
	}
	defer func() {
		c.handle.Release(p)
		c.mu.Lock()
		if c.peer == p {
			c.peer = nil
		}
		c.mu.Unlock()
	}()

	return p.Run(ctx)
}

// Send queues a text frame on the current connection.
func (c *Client) Send(ctx context.Context, text []byte) error {
	c.mu.Lock()
	p := c.peer
	c.mu.Unlock()
	if p == nil {
		return ErrNotConnected
	}

	return p.Send(ctx, text)
}
