// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package server is the gin API server receiving soundboard clients.
package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/server/middleware"
)

// APIServer is the interface of the api server.
type APIServer interface {
	http.Handler
	// Setup setups the server engine, like custom routers or middlewares.
	// Setup should be called before Run.
	Setup(SetupFunc) error
	// Run serves until ctx is done or Close is called.
	Run(ctx context.Context) error
	// Addr returns the listening address once Run has started listening.
	Addr() net.Addr
	// Close shutdowns the api server engine.
	Close()
}

// SetupFunc is the func used to set up the engine.
type SetupFunc func(g *gin.Engine) error

type apiServer struct {
	*gin.Engine

	options *Options

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	ready      chan struct{}
}

// New returns a new api server instance.
func New(options *Options) APIServer {
	if options == nil {
		return nil
	}

	// use release mode derectly
	gin.SetMode(gin.ReleaseMode)

	s := &apiServer{
		options: options,
		Engine:  gin.New(),
		ready:   make(chan struct{}),
	}

	s.initServer()

	return s
}

func (s *apiServer) initServer() {
	s.Use(gin.Recovery())
	s.setupGlobalMiddlewares()
	s.setupGlobalRouters()
}

func (s *apiServer) setupGlobalMiddlewares() {
	installed := make([]string, 0, len(s.options.Middlewares))
	for _, m := range s.options.Middlewares {
		mw := middleware.Get(m)
		if mw == nil {
			log.Warnf("Middleware %s can not found", m)

			continue
		}
		installed = append(installed, m)
		s.Use(mw)
	}
	if len(installed) != 0 {
		log.Infof("Installed middlewares: %s", strings.Join(installed, ","))
	}
}

func (s *apiServer) setupGlobalRouters() {
	if s.options.Healthz {
		s.addHealthzRouter()
	}

	if s.options.Metrics {
		prometheus := ginprometheus.NewPrometheus("gin")
		prometheus.Use(s.Engine)
	}

	if s.options.Profiling {
		pprof.Register(s.Engine)
	}
}

func (s *apiServer) Setup(setupFunc SetupFunc) error {
	if setupFunc == nil {
		return nil
	}
	if err := setupFunc(s.Engine); err != nil {
		return errors.WithMessage(err, "setup api server")
	}

	return nil
}

func (s *apiServer) Addr() net.Addr {
	select {
	case <-s.ready:
		return s.listener.Addr()
	default:
		return nil
	}
}

//nolint:gosec
func (s *apiServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.options.HTTP.Address())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.options.HTTP.Address())
	}

	// For scalability, use custom HTTP Server mode here
	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{Handler: s}
	close(s.ready)
	s.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Infof("Start to listening on http server: %s", ln.Addr())

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve http")
		}
		log.Infof("Server on %s stopped", ln.Addr())

		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		s.Close()

		return nil
	})

	if s.options.Healthz {
		if err := s.healthCheck(ctx); err != nil && ctx.Err() == nil {
			s.Close()
			_ = eg.Wait()

			return err
		}
	}

	return eg.Wait()
}

func (s *apiServer) Close() {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return
	}

	// The context is used to conform the server it has a limited time to
	// finish the requests handling currently
	ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Failed to shutdown http server: %s", err.Error())
	}
}
