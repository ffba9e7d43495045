// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"net/url"

	"github.com/wangtaoking1/soundboard-remote/flag"
	"github.com/wangtaoking1/soundboard-remote/grpc"
	"github.com/wangtaoking1/soundboard-remote/kafka"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/monitor"
	"github.com/wangtaoking1/soundboard-remote/server"
	"github.com/wangtaoking1/soundboard-remote/storage/redis"
	"github.com/wangtaoking1/soundboard-remote/websocket"
)

// Options are shared by every soundctl command.
type Options struct {
	Log       *log.Options       `json:"log"       mapstructure:"log"`
	WebSocket *websocket.Options `json:"websocket" mapstructure:"websocket"`
	Server    *server.Options    `json:"server"    mapstructure:"server"`
	Monitor   *monitor.Options   `json:"monitor"   mapstructure:"monitor"`
	Redis     *redis.Options     `json:"redis"     mapstructure:"redis"`
	Kafka     *kafka.Options     `json:"kafka"     mapstructure:"kafka"`
	GRPC      *grpc.Options      `json:"grpc"      mapstructure:"grpc"`
}

// NewOptions returns the default options.
func NewOptions() *Options {
	return &Options{
		Log:       log.NewOptions(),
		WebSocket: websocket.NewOptions(),
		Server:    server.NewOptions(),
		Monitor:   monitor.NewOptions(),
		Redis:     redis.NewOptions(),
		Kafka:     kafka.NewOptions(),
		GRPC:      grpc.NewOptions(),
	}
}

// Flags returns the flags grouped by section.
func (o *Options) Flags() (fss flag.NamedFlagSets) {
	o.Log.AddFlags(fss.FlagSet("log"))
	o.WebSocket.AddFlags(fss.FlagSet("websocket"))
	o.Server.AddFlags(fss.FlagSet("server"))
	o.Monitor.AddFlags(fss.FlagSet("monitor"))
	o.Redis.AddFlags(fss.FlagSet("redis"))
	o.Kafka.AddFlags(fss.FlagSet("kafka"))
	o.GRPC.AddFlags(fss.FlagSet("grpc"))

	return fss
}

// Validate validates every section.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.WebSocket.Validate()...)
	errs = append(errs, o.Server.Validate()...)
	errs = append(errs, o.Monitor.Validate()...)
	if o.Monitor.Store == monitor.StoreRedis {
		errs = append(errs, o.Redis.Validate()...)
	}
	errs = append(errs, o.Kafka.Validate()...)
	errs = append(errs, o.GRPC.Validate()...)

	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}

// websocketPath is the path the monitor serves clients on, taken from the
// websocket URL so that send commands reach a local monitor by default.
func (o *Options) websocketPath() string {
	u, err := url.Parse(o.WebSocket.URL)
	if err != nil || u.Path == "" {
		return "/ws"
	}

	return u.Path
}
