// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package soundboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "play sound",
			msg:  PlaySound{GroupIndex: 2, SoundIndex: 5},
			want: `{"action":"playSound","groupIndex":2,"soundIndex":5}`,
		},
		{
			name: "sound volume from text control",
			msg:  SetSoundVolume{Volume: StringValue("75")},
			want: `{"action":"setSoundVolume","volume":"75"}`,
		},
		{
			name: "sound volume from numeric control",
			msg:  SetSoundVolume{Volume: NumberValue(0.5)},
			want: `{"action":"setSoundVolume","volume":0.5}`,
		},
		{
			name: "stop sound",
			msg:  StopSound{GroupIndex: 0, SoundIndex: 1},
			want: `{"action":"stopSound","groupIndex":0,"soundIndex":1}`,
		},
		{
			name: "sound loop",
			msg:  SetSoundLoop{GroupIndex: 1, SoundIndex: 3, Loop: true},
			want: `{"action":"setSoundLoop","groupIndex":1,"soundIndex":3,"loop":true}`,
		},
		{
			name: "master volume",
			msg:  SetMasterVolume{Volume: NumberValue(1)},
			want: `{"action":"setMasterVolume","volume":1}`,
		},
		{
			name: "play track list",
			msg:  PlayTrackList{GroupIndex: 0, TrackListIndex: 4},
			want: `{"action":"playTrackList","groupIndex":0,"trackListIndex":4}`,
		},
		{
			name: "stop music",
			msg:  StopMusic{},
			want: `{"action":"stopMusic"}`,
		},
		{
			name: "music volume",
			msg:  SetMusicVolume{Volume: StringValue("40")},
			want: `{"action":"setMusicVolume","volume":"40"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			decoded, err := Decode(got)
			require.NoError(t, err)
			assert.Equal(t, tt.msg, decoded)
		})
	}
}

func TestEncode_Nil(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{name: "unknown action", frame: `{"action":"explode"}`, want: ErrUnknownAction},
		{name: "missing action", frame: `{"groupIndex":1,"soundIndex":2}`, want: ErrMalformedMessage},
		{name: "not an object", frame: `[1,2]`, want: ErrMalformedMessage},
		{name: "missing field", frame: `{"action":"playSound","groupIndex":1}`, want: ErrMalformedMessage},
		{name: "extra field", frame: `{"action":"playSound","groupIndex":1,"soundIndex":2,"volume":3}`, want: ErrMalformedMessage},
		{name: "duplicate field", frame: `{"action":"stopSound","groupIndex":1,"groupIndex":1,"soundIndex":2}`, want: ErrMalformedMessage},
		{name: "fractional index", frame: `{"action":"playSound","groupIndex":1.5,"soundIndex":2}`, want: ErrMalformedMessage},
		{name: "boolean volume", frame: `{"action":"setSoundVolume","volume":true}`, want: ErrMalformedMessage},
		{name: "null volume", frame: `{"action":"setSoundVolume","volume":null}`, want: ErrMalformedMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.frame))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestActions(t *testing.T) {
	actions := Actions()
	assert.Len(t, actions, 8)
	assert.Contains(t, actions, ActionPlaySound)
	assert.Contains(t, actions, ActionSetSoundVolume)
}
