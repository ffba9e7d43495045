// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package redis keeps monitor counters in redis, so that several monitors
// can share them and they survive restarts.
package redis

import (
	"github.com/go-redis/redis/v7"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
)

// NewClient creates a redis client: a sentinel-backed failover client when a
// master name is set, a cluster client when cluster mode is enabled, and a
// single-node client otherwise.
func NewClient(opts *Options) (redis.UniversalClient, error) {
	if opts == nil {
		return nil, errors.New("Options can not be nil")
	}
	tlsConfig, err := opts.loadTLSConfig()
	if err != nil {
		return nil, errors.WithMessage(err, "load redis tls config")
	}

	universalOpts := &redis.UniversalOptions{
		Addrs:      opts.Addrs,
		MasterName: opts.MasterName,
		Username:   opts.Username,
		Password:   opts.Password,
		DB:         opts.Database,

		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.RequestTimeout,
		WriteTimeout: opts.RequestTimeout,
		TLSConfig:    tlsConfig,
	}

	var client redis.UniversalClient
	switch {
	case opts.MasterName != "":
		log.Debug("--> [REDIS] Creating sentinel-backed failover client")
		client = redis.NewFailoverClient(universalOpts.Failover())
	case opts.EnableCluster:
		log.Debug("--> [REDIS] Creating cluster client")
		client = redis.NewClusterClient(universalOpts.Cluster())
	default:
		log.Debug("--> [REDIS] Creating single-node client")
		client = redis.NewClient(universalOpts.Simple())
	}

	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, errors.WithMessagef(err, "ping redis %v", opts.Addrs)
	}

	return client, nil
}
