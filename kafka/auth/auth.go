// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package auth builds kafka transports for the supported authentication
// types.
package auth

import (
	"net"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

type AuthType string

const (
	AuthTypeRaw  AuthType = "raw"
	AuthTypeSASL AuthType = "sasl"
)

// Types lists the supported authentication types.
func Types() []AuthType {
	return []AuthType{AuthTypeRaw, AuthTypeSASL}
}

type Authenticator interface {
	// GetTransport returns a kafka transport carrying the credentials.
	GetTransport(dialTimeout time.Duration) kafka.RoundTripper
}

// New returns the authenticator of authType.
func New(authType AuthType, username, password string) (Authenticator, error) {
	switch authType {
	case AuthTypeRaw, "":
		return NewRawAuthenticator(), nil
	case AuthTypeSASL:
		return NewSaslAuthenticator(username, password), nil
	default:
		return nil, errors.Errorf("unsupported kafka auth type %q", authType)
	}
}

type rawAuthenticator struct{}

func NewRawAuthenticator() Authenticator {
	return &rawAuthenticator{}
}

func (a *rawAuthenticator) GetTransport(dialTimeout time.Duration) kafka.RoundTripper {
	return &kafka.Transport{
		Dial: (&net.Dialer{
			Timeout: dialTimeout,
		}).DialContext,
	}
}
