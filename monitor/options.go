// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package monitor

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Stores the monitor can keep its counters in.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Options defines options for the command monitor.
type Options struct {
	Store       string `json:"store"        mapstructure:"store"`
	HistorySize int    `json:"history-size" mapstructure:"history-size"`
}

// NewOptions creates an Options with default parameters.
func NewOptions() *Options {
	return &Options{
		Store:       StoreMemory,
		HistorySize: defaultHistorySize,
	}
}

// Validate verifies flags passed to Options.
func (o *Options) Validate() []error {
	var errs []error

	if o.Store != StoreMemory && o.Store != StoreRedis {
		errs = append(errs, fmt.Errorf("--monitor.store %q must be one of: %s, %s", o.Store, StoreMemory, StoreRedis))
	}
	if o.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("--monitor.history-size %d can not be negative", o.HistorySize))
	}

	return errs
}

// AddFlags adds flags related to the monitor to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Store, "monitor.store", o.Store, ""+
		"Where command counters are kept, one of: memory, redis. Monitors sharing a redis share their counters.")
	fs.IntVar(&o.HistorySize, "monitor.history-size", o.HistorySize, "Number of recent commands kept.")
}
