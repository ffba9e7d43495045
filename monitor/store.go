// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package monitor

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

// Store keeps the counters and the recent commands of a Recorder.
type Store interface {
	// Add counts rec and appends it to the history, keeping at most
	// historySize records.
	Add(ctx context.Context, rec Record, historySize int) error
	// Stats returns the counters sorted by action, oldest record first.
	Stats(ctx context.Context) (Stats, error)
	// Reset clears the counters and the history.
	Reset(ctx context.Context) error
}

// SortCounts turns per action counters into a slice sorted by action.
func SortCounts(counts map[soundboard.Action]uint64) []ActionCount {
	actions := maps.Keys(counts)
	slices.Sort(actions)
	out := make([]ActionCount, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionCount{Action: a, Count: counts[a]})
	}

	return out
}

type memoryStore struct {
	mu     sync.Mutex
	total  uint64
	counts map[soundboard.Action]uint64
	recent []Record
}

// NewMemoryStore returns a Store living in the process memory.
func NewMemoryStore() Store {
	return &memoryStore{
		counts: make(map[soundboard.Action]uint64),
	}
}

func (s *memoryStore) Add(_ context.Context, rec Record, historySize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.counts[rec.Action]++
	if historySize <= 0 {
		return nil
	}
	s.recent = append(s.recent, rec)
	if len(s.recent) > historySize {
		s.recent = slices.Clone(s.recent[len(s.recent)-historySize:])
	}

	return nil
}

func (s *memoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Total:   s.total,
		Actions: SortCounts(s.counts),
		Recent:  slices.Clone(s.recent),
	}, nil
}

func (s *memoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = 0
	s.counts = make(map[soundboard.Action]uint64)
	s.recent = nil

	return nil
}
