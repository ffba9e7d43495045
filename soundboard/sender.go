// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package soundboard

import (
	"context"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

// Control is a UI input whose current value is read each time it is needed.
type Control interface {
	Value() (Value, error)
}

// ControlFunc adapts a function to a Control.
type ControlFunc func() (Value, error)

// Value implements Control.
func (f ControlFunc) Value() (Value, error) {
	return f()
}

// FixedControl returns a Control that always reports v.
func FixedControl(v Value) Control {
	return ControlFunc(func() (Value, error) {
		return v, nil
	})
}

// Sender builds commands and writes each one, once, to the connection held by
// its handle. Every method returns ErrNoConnection without side effects when
// the handle is empty. Indexes and volumes are not range checked; the
// soundboard is the authority on what exists.
type Sender struct {
	handle *Handle
}

// NewSender returns a Sender reading the connection from handle.
func NewSender(handle *Handle) *Sender {
	if handle == nil {
		handle = NewHandle()
	}

	return &Sender{handle: handle}
}

// Handle returns the handle the sender reads from.
func (s *Sender) Handle() *Handle {
	return s.handle
}

// Send encodes m and writes it to the current connection.
func (s *Sender) Send(ctx context.Context, m Message) error {
	conn, ok := s.handle.Get()
	if !ok {
		return ErrNoConnection
	}

	return send(ctx, conn, m)
}

// PlaySound asks the soundboard to play a sound of a group.
func (s *Sender) PlaySound(ctx context.Context, groupIndex, soundIndex int) error {
	return s.Send(ctx, PlaySound{GroupIndex: groupIndex, SoundIndex: soundIndex})
}

// SetSoundVolume reads control and sends its value as the new sound volume.
// The control is not read when there is no connection.
func (s *Sender) SetSoundVolume(ctx context.Context, control Control) error {
	return s.sendVolume(ctx, control, func(v Value) Message {
		return SetSoundVolume{Volume: v}
	})
}

// StopSound asks the soundboard to cancel a sound.
func (s *Sender) StopSound(ctx context.Context, groupIndex, soundIndex int) error {
	return s.Send(ctx, StopSound{GroupIndex: groupIndex, SoundIndex: soundIndex})
}

// SetSoundLoop sets whether a sound repeats.
func (s *Sender) SetSoundLoop(ctx context.Context, groupIndex, soundIndex int, loop bool) error {
	return s.Send(ctx, SetSoundLoop{GroupIndex: groupIndex, SoundIndex: soundIndex, Loop: loop})
}

// SetMasterVolume reads control and sends its value as the master volume.
func (s *Sender) SetMasterVolume(ctx context.Context, control Control) error {
	return s.sendVolume(ctx, control, func(v Value) Message {
		return SetMasterVolume{Volume: v}
	})
}

// PlayTrackList asks the soundboard to play a track list of a music group.
func (s *Sender) PlayTrackList(ctx context.Context, groupIndex, trackListIndex int) error {
	return s.Send(ctx, PlayTrackList{GroupIndex: groupIndex, TrackListIndex: trackListIndex})
}

// StopMusic asks the soundboard to stop the music.
func (s *Sender) StopMusic(ctx context.Context) error {
	return s.Send(ctx, StopMusic{})
}

// SetMusicVolume reads control and sends its value as the music volume.
func (s *Sender) SetMusicVolume(ctx context.Context, control Control) error {
	return s.sendVolume(ctx, control, func(v Value) Message {
		return SetMusicVolume{Volume: v}
	})
}

func (s *Sender) sendVolume(ctx context.Context, control Control, build func(Value) Message) error {
	conn, ok := s.handle.Get()
	if !ok {
		return ErrNoConnection
	}
	if control == nil {
		return errors.New("no volume control")
	}
	v, err := control.Value()
	if err != nil {
		return errors.WithMessage(err, "read volume control")
	}
	if v.IsZero() {
		return errors.WithMessage(ErrMalformedMessage, "empty volume")
	}

	return send(ctx, conn, build(v))
}

func send(ctx context.Context, conn Conn, m Message) error {
	text, err := Encode(m)
	if err != nil {
		return errors.WithMessagef(err, "encode %s", m.Action())
	}
	if err := conn.Send(ctx, text); err != nil {
		return errors.WithMessagef(err, "send %s", m.Action())
	}

	return nil
}
