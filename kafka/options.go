// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"
	"golang.org/x/exp/slices"

	"github.com/wangtaoking1/soundboard-remote/kafka/auth"
)

// Options defines options for forwarding commands to kafka.
type Options struct {
	Enabled      bool          `json:"enabled"       mapstructure:"enabled"`
	Brokers      []string      `json:"brokers"       mapstructure:"brokers"`
	Topic        string        `json:"topic"         mapstructure:"topic"`
	AuthType     string        `json:"auth-type"     mapstructure:"auth-type"`
	Username     string        `json:"username"      mapstructure:"username"`
	Password     string        `json:"-"             mapstructure:"password"`
	RequiredAcks string        `json:"required-acks" mapstructure:"required-acks"`
	Compression  string        `json:"compression"   mapstructure:"compression"`
	Async        bool          `json:"async"         mapstructure:"async"`
	DialTimeout  time.Duration `json:"dial-timeout"  mapstructure:"dial-timeout"`
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
	BatchTimeout time.Duration `json:"batch-timeout" mapstructure:"batch-timeout"`
}

// NewOptions creates an Options with default parameters.
func NewOptions() *Options {
	return &Options{
		Enabled:      false,
		Brokers:      []string{"127.0.0.1:9092"},
		Topic:        "soundboard-commands",
		AuthType:     string(auth.AuthTypeRaw),
		RequiredAcks: "one",
		Compression:  "gzip",
		DialTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Validate verifies flags passed to Options. Nothing is checked while
// forwarding is disabled.
func (o *Options) Validate() []error {
	if !o.Enabled {
		return nil
	}

	var errs []error
	if len(o.Brokers) == 0 {
		errs = append(errs, fmt.Errorf("--kafka.brokers can not be empty"))
	}
	if o.Topic == "" {
		errs = append(errs, fmt.Errorf("--kafka.topic can not be empty"))
	}
	if !slices.Contains(auth.Types(), auth.AuthType(o.AuthType)) {
		errs = append(errs, fmt.Errorf("--kafka.auth-type %q is not supported", o.AuthType))
	}
	if auth.AuthType(o.AuthType) == auth.AuthTypeSASL && o.Username == "" {
		errs = append(errs, fmt.Errorf("--kafka.username must be specified for sasl auth"))
	}
	if _, err := o.requiredAcks(); err != nil {
		errs = append(errs, fmt.Errorf("--kafka.required-acks: %w", err))
	}
	if _, err := o.compression(); err != nil {
		errs = append(errs, fmt.Errorf("--kafka.compression: %w", err))
	}
	if o.DialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("--kafka.dial-timeout %v must be positive", o.DialTimeout))
	}

	return errs
}

// AddFlags adds flags related to kafka forwarding to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "kafka.enabled", o.Enabled, "Forward every received command to a kafka topic.")
	fs.StringSliceVar(&o.Brokers, "kafka.brokers", o.Brokers, "A set of kafka broker addresses.")
	fs.StringVar(&o.Topic, "kafka.topic", o.Topic, "The topic commands are forwarded to.")
	fs.StringVar(&o.AuthType, "kafka.auth-type", o.AuthType, ""+
		"Authentication with the brokers, one of: raw, sasl.")
	fs.StringVar(&o.Username, "kafka.username", o.Username, "Username for sasl authentication.")
	fs.StringVar(&o.Password, "kafka.password", o.Password, "Password for sasl authentication.")
	fs.StringVar(&o.RequiredAcks, "kafka.required-acks", o.RequiredAcks, ""+
		"Acknowledges required before a write succeeds, one of: none, one, all.")
	fs.StringVar(&o.Compression, "kafka.compression", o.Compression, ""+
		"Message compression, one of: none, gzip, snappy, lz4, zstd.")
	fs.BoolVar(&o.Async, "kafka.async", o.Async, ""+
		"Write messages in the background, errors are then only logged by the writer.")
	fs.DurationVar(&o.DialTimeout, "kafka.dial-timeout", o.DialTimeout, "Timeout of connecting to a broker.")
	fs.DurationVar(&o.WriteTimeout, "kafka.write-timeout", o.WriteTimeout, "Timeout of a write to the brokers.")
	fs.DurationVar(&o.BatchTimeout, "kafka.batch-timeout", o.BatchTimeout, ""+
		"How long incomplete batches are held before being sent.")
}

func (o *Options) requiredAcks() (kafka.RequiredAcks, error) {
	var acks kafka.RequiredAcks
	err := acks.UnmarshalText([]byte(strings.ToLower(o.RequiredAcks)))

	return acks, err
}

func (o *Options) compression() (kafka.Compression, error) {
	var c kafka.Compression
	err := c.UnmarshalText([]byte(strings.ToLower(o.Compression)))

	return c, err
}
