// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/kafka/auth"
	"github.com/wangtaoking1/soundboard-remote/log"
)

type Message struct {
	Key     string
	Value   []byte
	Headers []kafka.Header
}

type Producer interface {
	SendMessage(ctx context.Context, msgs ...Message) error
	Close() error
}

// messageWriter is the part of kafka.Writer used by the producer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type producer struct {
	topic  string
	writer messageWriter
}

// NewProducer creates a producer writing to opts.Topic.
func NewProducer(opts *Options) (Producer, error) {
	if opts == nil {
		return nil, errors.New("Options can not be nil")
	}
	author, err := auth.New(auth.AuthType(opts.AuthType), opts.Username, opts.Password)
	if err != nil {
		return nil, err
	}
	acks, err := opts.requiredAcks()
	if err != nil {
		return nil, errors.WithMessage(err, "required acks")
	}
	compression, err := opts.compression()
	if err != nil {
		return nil, errors.WithMessage(err, "compression")
	}

	log.Debug("--> [KAFKA] Creating producer", "brokers", opts.Brokers, "topic", opts.Topic)
	w := &kafka.Writer{
		Transport:    author.GetTransport(opts.DialTimeout),
		Addr:         kafka.TCP(opts.Brokers...),
		Topic:        opts.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: acks,
		Async:        opts.Async,
		Compression:  compression,
		WriteTimeout: opts.WriteTimeout,
		BatchTimeout: opts.BatchTimeout,
	}

	return newProducer(opts.Topic, w), nil
}

func newProducer(topic string, w messageWriter) *producer {
	return &producer{
		topic:  topic,
		writer: w,
	}
}

func (p *producer) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		log.Error("Error close kafka producer", "error", err)
		return err
	}

	return nil
}

func (p *producer) SendMessage(ctx context.Context, msgs ...Message) error {
	if p.topic == "" {
		return errors.New("no specified topic in Producer")
	}
	kafkaMsgs := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		kafkaMsgs = append(kafkaMsgs, kafka.Message{
			Key:     []byte(msg.Key),
			Value:   msg.Value,
			Headers: msg.Headers,
		})
	}

	return errors.WithMessagef(p.writer.WriteMessages(ctx, kafkaMsgs...), "write to topic %s", p.topic)
}
