// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package redis

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-redis/redis/v7"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/monitor"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

const (
	totalKey  = "total"
	countsKey = "counts"
	recentKey = "recent"
)

// CommandStore is a monitor.Store kept in redis. The history is a list with
// the newest record at the head.
type CommandStore struct {
	client redis.UniversalClient
	prefix string
}

var _ monitor.Store = (*CommandStore)(nil)

// NewCommandStore returns a store whose keys start with prefix.
func NewCommandStore(client redis.UniversalClient, prefix string) *CommandStore {
	return &CommandStore{
		client: client,
		prefix: prefix,
	}
}

func (s *CommandStore) key(name string) string {
	return s.prefix + name
}

// Add implements monitor.Store.
func (s *CommandStore) Add(_ context.Context, rec monitor.Record, historySize int) error {
	var data []byte
	if historySize > 0 {
		var err error
		if data, err = json.Marshal(rec); err != nil {
			return errors.Wrap(err, "encode record")
		}
	}

	_, err := s.client.TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.Incr(s.key(totalKey))
		pipe.HIncrBy(s.key(countsKey), string(rec.Action), 1)
		if historySize > 0 {
			pipe.LPush(s.key(recentKey), data)
			pipe.LTrim(s.key(recentKey), 0, int64(historySize-1))
		}

		return nil
	})

	return errors.WithMessage(err, "store record")
}

// Stats implements monitor.Store.
func (s *CommandStore) Stats(_ context.Context) (monitor.Stats, error) {
	var stats monitor.Stats

	total, err := s.client.Get(s.key(totalKey)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return stats, errors.WithMessage(err, "read total")
	}
	stats.Total = total

	raw, err := s.client.HGetAll(s.key(countsKey)).Result()
	if err != nil {
		return stats, errors.WithMessage(err, "read counters")
	}
	counts := make(map[soundboard.Action]uint64, len(raw))
	for action, v := range raw {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return stats, errors.Wrapf(err, "counter of %s", action)
		}
		counts[soundboard.Action(action)] = n
	}
	stats.Actions = monitor.SortCounts(counts)

	items, err := s.client.LRange(s.key(recentKey), 0, -1).Result()
	if err != nil {
		return stats, errors.WithMessage(err, "read history")
	}
	for i := len(items) - 1; i >= 0; i-- {
		var rec monitor.Record
		if err := json.Unmarshal([]byte(items[i]), &rec); err != nil {
			return stats, errors.Wrap(err, "decode record")
		}
		stats.Recent = append(stats.Recent, rec)
	}

	return stats, nil
}

// Reset implements monitor.Store.
func (s *CommandStore) Reset(_ context.Context) error {
	err := s.client.Del(s.key(totalKey), s.key(countsKey), s.key(recentKey)).Err()

	return errors.WithMessage(err, "reset counters")
}
