// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
)

// ErrClosed is returned when writing to a connection that has been closed.
var ErrClosed = errors.New("websocket connection closed")

var errClosedByPeer = errors.New("closed by peer")

// peer runs one websocket connection. Writes go through a single write loop
// because gorilla connections allow one concurrent writer.
type peer struct {
	id         string
	opts       *Options
	conn       *websocket.Conn
	dispatcher Dispatcher
	writeCh    chan []byte

	// sendMu is held for reading by Send while it enqueues, and taken for
	// writing once stopCh is closed, so no frame enters writeCh after the
	// final flush.
	sendMu   sync.RWMutex
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newPeer(id string, opts *Options, dispatcher Dispatcher, conn *websocket.Conn) *peer {
	return &peer{
		id:         id,
		opts:       opts,
		conn:       conn,
		dispatcher: dispatcher,
		writeCh:    make(chan []byte, opts.SendBufferSize),
		stopCh:     make(chan struct{}),
	}
}

// ID returns the peer id.
func (p *peer) ID() string {
	return p.id
}

// Send queues a text frame for writing. A frame queued with a nil error is
// flushed before the close handshake when the peer stops.
func (p *peer) Send(ctx context.Context, text []byte) error {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	select {
	case <-p.stopCh:
		return ErrClosed
	default:
	}

	select {
	case <-p.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.writeCh <- text:
		return nil
	}
}

// Run serves the connection until ctx is done or the connection fails. Frames
// queued before ctx is done are flushed before the close handshake. It returns
// nil on a clean shutdown from either side.
func (p *peer) Run(ctx context.Context) error {
	defer p.stop()

	ctx = log.WithContext(ctx, "peer", p.id)
	logger := log.From(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.readLoop(ctx) })
	g.Go(func() error { return p.writeLoop(ctx) })
	g.Go(func() error { return p.pingLoop(ctx) })

	err := g.Wait()
	logger.Infow("Websocket peer closed")
	if errors.Is(err, context.Canceled) || errors.Is(err, errClosedByPeer) {
		return nil
	}

	return err
}

func (p *peer) stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

func (p *peer) readLoop(ctx context.Context) error {
	if p.opts.MaxMessageSize > 0 {
		p.conn.SetReadLimit(p.opts.MaxMessageSize)
	}
	_ = p.conn.SetReadDeadline(time.Now().Add(p.opts.PongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(p.opts.PongWait))
	})

	for {
		messageType, message, err := p.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errClosedByPeer
			}
			return errors.Wrap(err, "read message")
		}
		if messageType != websocket.TextMessage {
			continue
		}
		p.handleMessage(ctx, message)
	}
}

func (p *peer) handleMessage(ctx context.Context, frame []byte) {
	defer func() {
		if err := recover(); err != nil {
			log.From(ctx).Errorw("Handle message panic", "panic", err)
		}
	}()

	p.dispatcher.Dispatch(ctx, p, frame)
}

func (p *peer) writeLoop(ctx context.Context) error {
	defer p.conn.Close()

	for {
		select {
		case <-ctx.Done():
			p.stop()
			// wait for in-flight sends, later ones see stopCh closed
			p.sendMu.Lock()
			p.sendMu.Unlock() //nolint:staticcheck
			p.flush(ctx)
			p.closeHandshake()
			return ctx.Err()
		case text := <-p.writeCh:
			if err := p.write(text); err != nil {
				return errors.Wrap(err, "write message")
			}
		}
	}
}

// flush writes the frames still queued, best effort.
func (p *peer) flush(ctx context.Context) {
	for {
		select {
		case text := <-p.writeCh:
			if err := p.write(text); err != nil {
				log.From(ctx).Warnw("Drop queued frames on close", "error", err)
				return
			}
		default:
			return
		}
	}
}

func (p *peer) write(text []byte) error {
	_ = p.conn.SetWriteDeadline(time.Now().Add(p.opts.WriteWait))

	return p.conn.WriteMessage(websocket.TextMessage, text)
}

func (p *peer) closeHandshake() {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(p.opts.WriteWait))
}

func (p *peer) pingLoop(ctx context.Context) error {
	ticker := time.NewTicker(p.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(p.opts.WriteWait)); err != nil {
				return errors.Wrap(err, "write ping")
			}
		}
	}
}
