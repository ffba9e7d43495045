// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// soundctl drives a soundboard from the command line.
package main

import (
	"github.com/wangtaoking1/soundboard-remote/app"
)

const description = `soundctl sends commands to a soundboard over a websocket.

Every send command connects to --websocket.url, writes exactly one command
and disconnects. "soundctl monitor" runs a local endpoint that logs and counts
the commands it receives, which is handy when no soundboard is around.

Options are read from flags, from SOUNDCTL_* environment variables and from
an optional soundctl.yaml config file.`

func main() {
	options := NewOptions()
	application := app.NewApp("soundctl",
		"soundboard remote control",
		app.WithDescription(description),
		app.WithOptions(options),
		app.WithSilence(),
		app.WithCommands(newCommands(options)...),
	)

	application.Run()
}
