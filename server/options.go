// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package server

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/wangtaoking1/soundboard-remote/server/middleware"
)

// Options contains configuration options for api server.
type Options struct {
	Healthz         bool          `json:"healthz"          mapstructure:"healthz"`
	Middlewares     []string      `json:"middlewares"      mapstructure:"middlewares"`
	Profiling       bool          `json:"profiling"        mapstructure:"profiling"`
	Metrics         bool          `json:"metrics"          mapstructure:"metrics"`
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`

	HTTP *HTTPOptions `json:"http" mapstructure:"http"`
}

// NewOptions return a new options for server.
func NewOptions() *Options {
	return &Options{
		Healthz:         true,
		Middlewares:     []string{middleware.RequestIDName, middleware.LoggerName},
		Profiling:       false,
		Metrics:         false,
		ShutdownTimeout: 10 * time.Second,

		HTTP: &HTTPOptions{
			BindAddress: "127.0.0.1",
			BindPort:    8765,
		},
	}
}

func (o *Options) Validate() []error {
	var errs []error
	for _, m := range o.Middlewares {
		if middleware.Get(m) == nil {
			errs = append(errs, fmt.Errorf("--server.middlewares %q is not a known middleware, known: %v",
				m, middleware.Names()))
		}
	}
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("--server.shutdown-timeout %v must be positive", o.ShutdownTimeout))
	}
	errs = append(errs, o.HTTP.Validate()...)

	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Healthz, "server.healthz", o.Healthz, ""+
		"Enable self readiness check and install /healthz router.")
	fs.StringSliceVar(&o.Middlewares, "server.middlewares", o.Middlewares, ""+
		"List of middlewares installed on the server, comma separated. "+
		"Known middlewares: requestid, cors, logger.")
	fs.BoolVar(&o.Profiling, "server.profiling", o.Profiling, "Enable profiling for server. "+
		"If enabled, you can debug profiling on /debug/pprof/xxx path")
	fs.BoolVar(&o.Metrics, "server.metrics", o.Metrics, "Enable prometheus metrics for server. "+
		"If enabled, you can download metrics on /metrics path")
	fs.DurationVar(&o.ShutdownTimeout, "server.shutdown-timeout", o.ShutdownTimeout, ""+
		"Time given to in-flight requests to finish on shutdown.")

	o.HTTP.AddFlags(fs)
}

// HTTPOptions contains configuration for http server.
type HTTPOptions struct {
	BindAddress string `json:"bind-address" mapstructure:"bind-address"`
	BindPort    int    `json:"bind-port"    mapstructure:"bind-port"`
}

func (o *HTTPOptions) Validate() []error {
	var errs []error
	if o.BindPort < 0 || o.BindPort > 65535 {
		errs = append(
			errs,
			fmt.Errorf("--server.http.bind-port %v must be between 0 and 65535", o.BindPort),
		)
	}

	return errs
}

func (o *HTTPOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BindAddress, "server.http.bind-address", o.BindAddress, ""+
		"The IP address on which to serve the --server.http.bind-port "+
		"(set to 0.0.0.0 for all IPv4 interfaces and :: for all IPv6 interfaces).")
	fs.IntVar(&o.BindPort, "server.http.bind-port", o.BindPort, ""+
		"The port on which soundboard clients connect, 0 picks a free port.")
}

// Address join host IP address and host port number into an address string, like: 0.0.0.0:8765.
func (o *HTTPOptions) Address() string {
	return net.JoinHostPort(o.BindAddress, strconv.Itoa(o.BindPort))
}
