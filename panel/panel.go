// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package panel binds user events of a soundboard control panel to commands.
package panel

import (
	"context"

	"go.uber.org/zap"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

// Names of the controls read by the panel.
const (
	VolumeControl       = "volume"
	MasterVolumeControl = "masterVolume"
	MusicVolumeControl  = "musicVolume"
)

// ErrControlNotFound is returned when an event needs a control that is not
// part of the panel.
var ErrControlNotFound = errors.New("control not found")

// ControlSet looks up panel controls by name.
type ControlSet interface {
	Control(name string) (soundboard.Control, bool)
}

// Controls is a ControlSet backed by a map.
type Controls map[string]soundboard.Control

// Control implements ControlSet.
func (c Controls) Control(name string) (soundboard.Control, bool) {
	control, ok := c[name]
	return control, ok
}

// Panel turns events into commands. A command issued while disconnected is
// dropped with a single diagnostic line; the error is also returned so the
// caller can surface it.
type Panel struct {
	sender   *soundboard.Sender
	controls ControlSet
	logger   *zap.SugaredLogger
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the logger receiving diagnostics.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(p *Panel) {
		p.logger = logger
	}
}

// New returns a panel issuing commands through sender.
func New(sender *soundboard.Sender, controls ControlSet, opts ...Option) *Panel {
	p := &Panel{
		sender:   sender,
		controls: controls,
	}
	for _, o := range opts {
		o(p)
	}
	if p.logger == nil {
		p.logger = log.With("component", "panel")
	}
	if p.controls == nil {
		p.controls = Controls{}
	}

	return p
}

// OnPlaySound handles a click on a sound button.
func (p *Panel) OnPlaySound(ctx context.Context, groupIndex, soundIndex int) error {
	return p.report(soundboard.ActionPlaySound, p.sender.PlaySound(ctx, groupIndex, soundIndex))
}

// OnVolumeChange handles a change of the volume control.
func (p *Panel) OnVolumeChange(ctx context.Context) error {
	return p.report(soundboard.ActionSetSoundVolume, p.sender.SetSoundVolume(ctx, p.lookup(VolumeControl)))
}

// OnStopSound handles a click on the stop button of a sound.
func (p *Panel) OnStopSound(ctx context.Context, groupIndex, soundIndex int) error {
	return p.report(soundboard.ActionStopSound, p.sender.StopSound(ctx, groupIndex, soundIndex))
}

// OnLoopToggle handles a change of the loop checkbox of a sound.
func (p *Panel) OnLoopToggle(ctx context.Context, groupIndex, soundIndex int, loop bool) error {
	return p.report(soundboard.ActionSetSoundLoop, p.sender.SetSoundLoop(ctx, groupIndex, soundIndex, loop))
}

// OnMasterVolumeChange handles a change of the master volume control.
func (p *Panel) OnMasterVolumeChange(ctx context.Context) error {
	return p.report(soundboard.ActionSetMasterVolume, p.sender.SetMasterVolume(ctx, p.lookup(MasterVolumeControl)))
}

// OnPlayTrackList handles a click on a track list button.
func (p *Panel) OnPlayTrackList(ctx context.Context, groupIndex, trackListIndex int) error {
	return p.report(soundboard.ActionPlayTrackList, p.sender.PlayTrackList(ctx, groupIndex, trackListIndex))
}

// OnStopMusic handles a click on the stop music button.
func (p *Panel) OnStopMusic(ctx context.Context) error {
	return p.report(soundboard.ActionStopMusic, p.sender.StopMusic(ctx))
}

// OnMusicVolumeChange handles a change of the music volume control.
func (p *Panel) OnMusicVolumeChange(ctx context.Context) error {
	return p.report(soundboard.ActionSetMusicVolume, p.sender.SetMusicVolume(ctx, p.lookup(MusicVolumeControl)))
}

// lookup resolves the control when the sender reads it, which only happens
// once a connection is known to be present.
func (p *Panel) lookup(name string) soundboard.Control {
	return soundboard.ControlFunc(func() (soundboard.Value, error) {
		control, ok := p.controls.Control(name)
		if !ok || control == nil {
			return soundboard.Value{}, errors.WithMessagef(ErrControlNotFound, "%q", name)
		}
		return control.Value()
	})
}

func (p *Panel) report(action soundboard.Action, err error) error {
	switch {
	case err == nil:
		p.logger.Debugw("Command sent", "action", action)
	case errors.Is(err, soundboard.ErrNoConnection):
		p.logger.Warnw("No connection to the soundboard, command dropped", "action", action)
	default:
		p.logger.Errorw("Failed to send command", "action", action, "error", err)
	}

	return err
}
