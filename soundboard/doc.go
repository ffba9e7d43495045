// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package soundboard defines the commands a remote control sends to a
// soundboard, the JSON codec for them, and the Sender that writes them to the
// current connection.
//
// Every command is encoded as a flat object whose first key is "action":
//
//	{"action":"playSound","groupIndex":2,"soundIndex":5}
//	{"action":"setSoundVolume","volume":"75"}
package soundboard
