// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wangtaoking1/soundboard-remote/app"
	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/flag"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/panel"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
	"github.com/wangtaoking1/soundboard-remote/websocket"
)

// valueOptions are the options of commands taking a volume value.
type valueOptions struct {
	AsNumber bool
}

func (o *valueOptions) Flags() (fss flag.NamedFlagSets) {
	fs := fss.FlagSet("value")
	fs.BoolVar(&o.AsNumber, "as-number", o.AsNumber, "Send the value as a JSON number instead of a string.")

	return fss
}

func (o *valueOptions) Validate() []error {
	return nil
}

// control returns the panel control holding raw.
func (o *valueOptions) control(raw string) (soundboard.Control, error) {
	if !o.AsNumber {
		return soundboard.FixedControl(soundboard.StringValue(raw)), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Errorf("volume %q is not a number", raw)
	}

	return soundboard.FixedControl(soundboard.NumberValue(f)), nil
}

// sendFunc issues one command through the panel.
type sendFunc func(ctx context.Context, p *panel.Panel) error

// withPanel connects to the soundboard, runs send and disconnects, flushing
// the command.
func withPanel(ctx context.Context, opts *Options, controls panel.Controls, send sendFunc) error {
	log.Init(opts.Log)
	defer log.Flush()

	handle := soundboard.NewHandle()
	client := websocket.NewClient(opts.WebSocket, handle, nil)
	if err := client.Dial(ctx); err != nil {
		return errors.WithMessage(err, "connect to soundboard")
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- client.Run(runCtx)
	}()

	err := send(ctx, panel.New(soundboard.NewSender(handle), controls))
	cancel()
	if runErr := <-done; runErr != nil && err == nil {
		err = errors.WithMessage(runErr, "close connection")
	}

	return err
}

func parseIndexes(args []string, names ...string) ([]int, error) {
	indexes := make([]int, len(names))
	for i, name := range names {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("%s %q is not an integer", name, args[i])
		}
		indexes[i] = n
	}

	return indexes, nil
}

func playCommand(opts *Options) app.Command {
	return app.NewCommand("play <group> <sound>",
		"Play a sound",
		app.WithCmdArgs(cobra.ExactArgs(2)),
		app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
			idx, err := parseIndexes(args, "group", "sound")
			if err != nil {
				return err
			}
			return withPanel(ctx, opts, nil, func(ctx context.Context, p *panel.Panel) error {
				return p.OnPlaySound(ctx, idx[0], idx[1])
			})
		}),
	)
}

func stopCommand(opts *Options) app.Command {
	return app.NewCommand("stop <group> <sound>",
		"Stop a sound",
		app.WithCmdArgs(cobra.ExactArgs(2)),
		app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
			idx, err := parseIndexes(args, "group", "sound")
			if err != nil {
				return err
			}
			return withPanel(ctx, opts, nil, func(ctx context.Context, p *panel.Panel) error {
				return p.OnStopSound(ctx, idx[0], idx[1])
			})
		}),
	)
}

func loopCommand(opts *Options) app.Command {
	return app.NewCommand("loop <group> <sound> <true|false>",
		"Turn looping of a sound on or off",
		app.WithCmdArgs(cobra.ExactArgs(3)),
		app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
			idx, err := parseIndexes(args, "group", "sound")
			if err != nil {
				return err
			}
			loop, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("loop %q is not a boolean", args[2])
			}
			return withPanel(ctx, opts, nil, func(ctx context.Context, p *panel.Panel) error {
				return p.OnLoopToggle(ctx, idx[0], idx[1], loop)
			})
		}),
	)
}

// volumeCommand builds a command reading the control name from its argument
// and firing event.
func volumeCommand(
	opts *Options,
	use, short, name string,
	event sendFunc,
) app.Command {
	vopts := &valueOptions{}

	return app.NewCommand(use,
		short,
		app.WithCmdArgs(cobra.ExactArgs(1)),
		app.WithCmdOptions(vopts),
		app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
			control, err := vopts.control(args[0])
			if err != nil {
				return err
			}
			return withPanel(ctx, opts, panel.Controls{name: control}, event)
		}),
	)
}

func musicCommand(opts *Options) app.Command {
	music := app.NewCommand("music", "Control the music track lists")
	music.AddCommands(
		app.NewCommand("play <group> <tracklist>",
			"Play a track list",
			app.WithCmdArgs(cobra.ExactArgs(2)),
			app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
				idx, err := parseIndexes(args, "group", "tracklist")
				if err != nil {
					return err
				}
				return withPanel(ctx, opts, nil, func(ctx context.Context, p *panel.Panel) error {
					return p.OnPlayTrackList(ctx, idx[0], idx[1])
				})
			}),
		),
		app.NewCommand("stop",
			"Stop the music",
			app.WithCmdArgs(cobra.NoArgs),
			app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
				return withPanel(ctx, opts, nil, func(ctx context.Context, p *panel.Panel) error {
					return p.OnStopMusic(ctx)
				})
			}),
		),
		volumeCommand(opts, "volume <value>", "Set the music volume",
			panel.MusicVolumeControl, func(ctx context.Context, p *panel.Panel) error {
				return p.OnMusicVolumeChange(ctx)
			}),
	)

	return music
}

func newCommands(opts *Options) []app.Command {
	return []app.Command{
		playCommand(opts),
		stopCommand(opts),
		loopCommand(opts),
		volumeCommand(opts, "volume <value>", "Set the sound volume",
			panel.VolumeControl, func(ctx context.Context, p *panel.Panel) error {
				return p.OnVolumeChange(ctx)
			}),
		volumeCommand(opts, "master-volume <value>", "Set the master volume",
			panel.MasterVolumeControl, func(ctx context.Context, p *panel.Panel) error {
				return p.OnMasterVolumeChange(ctx)
			}),
		musicCommand(opts),
		monitorCommand(opts),
		commandsCommand(opts),
	}
}
