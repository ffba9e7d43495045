// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package grpc serves the standard grpc health service, so that the monitor
// can be probed by orchestrators speaking grpc.
package grpc

import (
	"context"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
)

// Server is the interface of grpc server.
type Server interface {
	// Setup setups the grpc server. Setup should be called before Run.
	Setup(SetupFunc) error
	// SetServingStatus sets the health of service, "" being the whole server.
	SetServingStatus(service string, serving bool)
	// Run serves until ctx is done or Close is called.
	Run(ctx context.Context) error
	// Addr returns the listening address once Run has started listening.
	Addr() net.Addr
	// Close shutdowns the grpc server.
	Close()
}

// SetupFunc is the func used to set up the engine.
type SetupFunc func(s *grpc.Server) error

type server struct {
	*grpc.Server

	options *Options
	health  *health.Server

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// New returns a new grpc server with the health and reflection services
// registered.
func New(opts *Options) (Server, error) {
	var grpcOptions []grpc.ServerOption
	if opts.TLS.Enabled {
		creds, err := credentials.NewServerTLSFromFile(opts.TLS.CertFile, opts.TLS.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "load grpc tls credentials")
		}
		grpcOptions = append(grpcOptions, grpc.Creds(creds))
	}
	grpcOptions = append(grpcOptions, grpc.MaxRecvMsgSize(opts.MaxMsgSize))

	grpcServer := grpc.NewServer(grpcOptions...)
	hs := health.NewServer()
	healthgrpc.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	return &server{
		Server:  grpcServer,
		options: opts,
		health:  hs,
		ready:   make(chan struct{}),
	}, nil
}

func (s *server) Setup(setupFunc SetupFunc) error {
	if setupFunc == nil {
		return nil
	}
	if err := setupFunc(s.Server); err != nil {
		return errors.WithMessage(err, "setup grpc server")
	}

	return nil
}

func (s *server) SetServingStatus(service string, serving bool) {
	status := healthgrpc.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthgrpc.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

func (s *server) Addr() net.Addr {
	select {
	case <-s.ready:
		return s.listener.Addr()
	default:
		return nil
	}
}

func (s *server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.options.Address())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.options.Address())
	}

	s.mu.Lock()
	s.listener = listen
	close(s.ready)
	s.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Infof("Start to listening on grpc server: %s", listen.Addr())

		if err := s.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return errors.Wrap(err, "serve grpc")
		}
		log.Infof("GRPC server on %s stopped", listen.Addr())

		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		s.Close()

		return nil
	})

	return eg.Wait()
}

func (s *server) Close() {
	// lets probes observe the shutdown before connections are drained
	s.health.Shutdown()
	s.GracefulStop()
}
