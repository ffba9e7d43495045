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

	"github.com/wangtaoking1/soundboard-remote/log"
)

// Server accepts websocket connections and dispatches their frames. It is an
// http.Handler meant to be mounted on an API server.
type Server struct {
	opts       *Options
	dispatcher Dispatcher
	upgrader   websocket.Upgrader

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	peers  map[string]*peer
	wg     sync.WaitGroup
}

// NewServer returns a server handing inbound frames to dispatcher.
func NewServer(opts *Options, dispatcher Dispatcher) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		opts:       opts,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			EnableCompression: opts.Compression,
		},
		ctx:    ctx,
		cancel: cancel,
		peers:  make(map[string]*peer),
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	id := request.URL.Query().Get("uuid")
	if len(id) == 0 {
		id = uuid.New().String()
	}
	ip := request.Header.Get("True-Client-IP")
	if len(ip) == 0 {
		ip = request.RemoteAddr
	}
	log.Info("Websocket request",
		"client_id", id,
		"url", request.URL.Path,
		"real_ip", ip,
	)

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		http.Error(writer, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		log.Info("Upgrade websocket request failed", "client_id", id, "error", err)
		return
	}

	p := newPeer(id, s.opts, s.dispatcher, conn)
	s.mu.Lock()
	s.peers[id] = p
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if s.peers[id] == p {
			delete(s.peers, id)
		}
		s.mu.Unlock()
	}()

	if err := p.Run(log.WithContext(s.ctx, "real_ip", ip)); err != nil {
		log.Warn("Websocket peer failed", "client_id", id, "error", err)
	}
}

// Peers returns the number of connected peers.
func (s *Server) Peers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.peers)
}

// Close closes every connection and waits for them to finish.
func (s *Server) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}
