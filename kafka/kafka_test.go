// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)

	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestForwarder_Handle(t *testing.T) {
	w := &fakeWriter{}
	f := NewForwarder(newProducer("commands", w))

	f.Handle(context.Background(), "peer-1", soundboard.PlaySound{GroupIndex: 2, SoundIndex: 5})
	f.Handle(context.Background(), "peer-2", soundboard.StopMusic{})

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "playSound", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"action":"playSound","groupIndex":2,"soundIndex":5}`, string(w.msgs[0].Value))
	assert.Equal(t, []kafka.Header{{Key: PeerHeader, Value: []byte("peer-1")}}, w.msgs[0].Headers)
	assert.Equal(t, "stopMusic", string(w.msgs[1].Key))
}

func TestForwarder_HandleFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := &fakeWriter{err: errors.New("broker down")}
	f := NewForwarder(newProducer("commands", w), WithLogger(zap.New(core).Sugar()))

	f.Handle(context.Background(), "peer-1", soundboard.StopMusic{})

	entries := logs.FilterMessage("Failed to forward command").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestProducer(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer("", w)
	assert.Error(t, p.SendMessage(context.Background(), Message{Key: "k"}))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewProducer(t *testing.T) {
	opts := NewOptions()
	opts.Compression = "snappy"
	p, err := NewProducer(opts)
	require.NoError(t, err)

	w, ok := p.(*producer).writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "soundboard-commands", w.Topic)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.Equal(t, kafka.Snappy, w.Compression)
	require.NoError(t, p.Close())

	opts.AuthType = "aws"
	_, err = NewProducer(opts)
	assert.Error(t, err)
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	opts.Topic = ""
	assert.Empty(t, opts.Validate(), "disabled forwarding is not validated")

	opts.Enabled = true
	opts.AuthType = "sasl"
	opts.RequiredAcks = "some"
	opts.Compression = "brotli"
	assert.Len(t, opts.Validate(), 4, "empty topic, missing username, acks, compression")

	opts = NewOptions()
	opts.Enabled = true
	assert.Empty(t, opts.Validate())
}
