// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package kafka forwards soundboard commands to a kafka topic.
package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

// PeerHeader is the message header holding the id of the sending peer.
const PeerHeader = "peer-id"

// Forwarder writes every command it handles to a producer, keyed by action
// so that commands of one action stay ordered within a partition.
type Forwarder struct {
	producer Producer
	logger   *zap.SugaredLogger
}

// ForwarderOption configures a Forwarder.
type ForwarderOption func(*Forwarder)

// WithLogger sets the logger receiving forwarding failures.
func WithLogger(logger *zap.SugaredLogger) ForwarderOption {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

// NewForwarder returns a forwarder writing to p.
func NewForwarder(p Producer, opts ...ForwarderOption) *Forwarder {
	f := &Forwarder{producer: p}
	for _, o := range opts {
		o(f)
	}
	if f.logger == nil {
		f.logger = log.With("component", "kafka")
	}

	return f
}

// Handle forwards msg received from peerID. Failures are logged.
func (f *Forwarder) Handle(ctx context.Context, peerID string, msg soundboard.Message) {
	text, err := soundboard.Encode(msg)
	if err != nil {
		f.logger.Errorw("Failed to encode command", "peer", peerID, "action", msg.Action(), "error", err)
		return
	}

	err = f.producer.SendMessage(ctx, Message{
		Key:     string(msg.Action()),
		Value:   text,
		Headers: []kafka.Header{{Key: PeerHeader, Value: []byte(peerID)}},
	})
	if err != nil {
		f.logger.Errorw("Failed to forward command", "peer", peerID, "action", msg.Action(), "error", err)
		return
	}
	f.logger.Debugw("Forwarded command", "peer", peerID, "action", msg.Action())
}
