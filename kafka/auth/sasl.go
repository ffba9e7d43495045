// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package auth

import (
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type saslAuthenticator struct {
	username string
	password string
}

// NewSaslAuthenticator returns an authenticator using SASL/PLAIN.
func NewSaslAuthenticator(username string, password string) Authenticator {
	return &saslAuthenticator{
		username: username,
		password: password,
	}
}

func (a *saslAuthenticator) GetTransport(dialTimeout time.Duration) kafka.RoundTripper {
	return &kafka.Transport{
		Dial: (&net.Dialer{
			Timeout: dialTimeout,
		}).DialContext,
		SASL: plain.Mechanism{
			Username: a.username,
			Password: a.password,
		},
	}
}
