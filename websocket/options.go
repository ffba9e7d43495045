// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// Options contains configuration options.
type Options struct {
	URL               string        `json:"url"                 mapstructure:"url"`
	DialTimeout       time.Duration `json:"dial-timeout"        mapstructure:"dial-timeout"`
	DialRetryInterval time.Duration `json:"dial-retry-interval" mapstructure:"dial-retry-interval"`
	DialRetryTimeout  time.Duration `json:"dial-retry-timeout"  mapstructure:"dial-retry-timeout"`
	WriteWait         time.Duration `json:"write-wait"          mapstructure:"write-wait"`
	PongWait          time.Duration `json:"pong-wait"           mapstructure:"pong-wait"`
	PingPeriod        time.Duration `json:"ping-period"         mapstructure:"ping-period"`
	SendBufferSize    int           `json:"send-buffer-size"    mapstructure:"send-buffer-size"`
	ReadBufferSize    int           `json:"read-buffer-size"    mapstructure:"read-buffer-size"`
	WriteBufferSize   int           `json:"write-buffer-size"   mapstructure:"write-buffer-size"`
	MaxMessageSize    int64         `json:"max-message-size"    mapstructure:"max-message-size"`
	Compression       bool          `json:"compression"         mapstructure:"compression"`
}

// NewOptions return a new options for the websocket transport.
func NewOptions() *Options {
	return &Options{
		URL:               "ws://127.0.0.1:8765/ws",
		DialTimeout:       5 * time.Second,
		DialRetryInterval: 500 * time.Millisecond,
		DialRetryTimeout:  3 * time.Second,
		WriteWait:         10 * time.Second,
		PongWait:          30 * time.Second,
		PingPeriod:        10 * time.Second,
		SendBufferSize:    100,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		MaxMessageSize:    64 * 1024,
		Compression:       false,
	}
}

// Validate checks the options.
func (o *Options) Validate() []error {
	var errs []error
	u, err := url.Parse(o.URL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("--websocket.url %q is invalid: %w", o.URL, err))
	case u.Scheme != "ws" && u.Scheme != "wss":
		errs = append(errs, fmt.Errorf("--websocket.url %q must use the ws or wss scheme", o.URL))
	}
	if o.WriteWait <= 0 {
		errs = append(errs, fmt.Errorf("--websocket.write-wait %v must be positive", o.WriteWait))
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		errs = append(errs, fmt.Errorf("--websocket.ping-period %v must be positive and less than --websocket.pong-wait %v",
			o.PingPeriod, o.PongWait))
	}
	if o.DialRetryInterval <= 0 {
		errs = append(errs, fmt.Errorf("--websocket.dial-retry-interval %v must be positive", o.DialRetryInterval))
	}
	if o.SendBufferSize < 0 {
		errs = append(errs, fmt.Errorf("--websocket.send-buffer-size %v must not be negative", o.SendBufferSize))
	}
	return errs
}

// AddFlags adds flags related to the websocket transport to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.URL, "websocket.url", o.URL, "The websocket endpoint of the soundboard")
	fs.DurationVar(&o.DialTimeout, "websocket.dial-timeout", o.DialTimeout, "Timeout of a single websocket handshake")
	fs.DurationVar(&o.DialRetryInterval, "websocket.dial-retry-interval", o.DialRetryInterval,
		"Interval between two connection attempts")
	fs.DurationVar(&o.DialRetryTimeout, "websocket.dial-retry-timeout", o.DialRetryTimeout,
		"How long to keep trying to connect, 0 means a single attempt")
	fs.DurationVar(&o.WriteWait, "websocket.write-wait", o.WriteWait, "Time allowed to write a frame to the peer")
	fs.DurationVar(&o.PongWait, "websocket.pong-wait", o.PongWait, "Time allowed to read the next pong from the peer")
	fs.DurationVar(&o.PingPeriod, "websocket.ping-period", o.PingPeriod,
		"Send pings to the peer with this period, must be less than pong wait")
	fs.IntVar(&o.SendBufferSize, "websocket.send-buffer-size", o.SendBufferSize, "Number of frames queued for writing")
	fs.IntVar(&o.ReadBufferSize, "websocket.read-buffer-size", o.ReadBufferSize, "The byte size of websocket read buffer")
	fs.IntVar(&o.WriteBufferSize, "websocket.write-buffer-size", o.WriteBufferSize, "The byte size of websocket write buffer")
	fs.Int64Var(&o.MaxMessageSize, "websocket.max-message-size", o.MaxMessageSize,
		"Maximum size in bytes of an inbound frame, 0 means no limit")
	fs.BoolVar(&o.Compression, "websocket.compression", o.Compression, "Enable compression for websocket message")
}
