// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package soundboard

import "github.com/wangtaoking1/soundboard-remote/errors"

var (
	// ErrNoConnection is returned when a command is issued while the handle
	// holds no connection. Nothing is transmitted in that case.
	ErrNoConnection = errors.New("no connection to the soundboard")
	// ErrUnknownAction is returned when decoding a frame whose action tag is
	// not a known command.
	ErrUnknownAction = errors.New("unknown action")
	// ErrMalformedMessage is returned when a frame is not a well formed command.
	ErrMalformedMessage = errors.New("malformed message")
)
