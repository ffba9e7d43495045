// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package monitor records the commands a soundboard endpoint receives.
package monitor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

const defaultHistorySize = 50

// Record is a received command.
type Record struct {
	Time    time.Time         `json:"time"`
	PeerID  string            `json:"peer"`
	Action  soundboard.Action `json:"action"`
	Payload json.RawMessage   `json:"payload,omitempty"`
}

// ActionCount is the number of commands received for an action.
type ActionCount struct {
	Action soundboard.Action `json:"action"`
	Count  uint64            `json:"count"`
}

// Stats is a snapshot of a Recorder.
type Stats struct {
	Total   uint64        `json:"total"`
	Actions []ActionCount `json:"actions"`
	Recent  []Record      `json:"recent"`
}

// Recorder logs every command and counts it in a Store. It is safe for
// concurrent use.
type Recorder struct {
	logger      *zap.SugaredLogger
	store       Store
	historySize int
	commands    *prometheus.CounterVec
	now         func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger receiving one line per command.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithHistorySize sets how many recent commands are kept.
func WithHistorySize(n int) Option {
	return func(r *Recorder) {
		r.historySize = n
	}
}

// WithStore sets where counters and history are kept, in memory by default.
func WithStore(store Store) Option {
	return func(r *Recorder) {
		r.store = store
	}
}

// NewRecorder returns a recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		historySize: defaultHistorySize,
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soundboard",
			Name:      "commands_total",
			Help:      "Number of soundboard commands received, by action.",
		}, []string{"action"}),
		now: time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	if r.logger == nil {
		r.logger = log.With("component", "monitor")
	}
	if r.store == nil {
		r.store = NewMemoryStore()
	}

	return r
}

// Register registers the command counter with reg. Registering twice on the
// same registry is not an error.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	if err := reg.Register(r.commands); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				r.commands = existing
				return nil
			}
		}
		return errors.WithMessage(err, "register command counter")
	}

	return nil
}

// Handle records msg received from peerID.
func (r *Recorder) Handle(ctx context.Context, peerID string, msg soundboard.Message) {
	action := msg.Action()
	text, err := soundboard.Encode(msg)
	if err != nil {
		r.logger.Warnw("Received command can not be encoded", "peer", peerID, "action", action, "error", err)
	}
	r.logger.Infow("Received command", "peer", peerID, "action", action, "payload", string(text))

	r.commands.WithLabelValues(string(action)).Inc()

	rec := Record{Time: r.now(), PeerID: peerID, Action: action, Payload: text}
	if err := r.store.Add(ctx, rec, r.historySize); err != nil {
		r.logger.Errorw("Failed to store command", "peer", peerID, "action", action, "error", err)
	}
}

// Stats returns the counters sorted by action, with the most recent command
// last.
func (r *Recorder) Stats(ctx context.Context) (Stats, error) {
	return r.store.Stats(ctx)
}

// Reset clears the counters and the history.
func (r *Recorder) Reset(ctx context.Context) error {
	return r.store.Reset(ctx)
}
