// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package soundboard

import "encoding/json"

// Action is the tag identifying which command a message requests.
type Action string

const (
	ActionPlaySound       Action = "playSound"
	ActionSetSoundVolume  Action = "setSoundVolume"
	ActionStopSound       Action = "stopSound"
	ActionSetSoundLoop    Action = "setSoundLoop"
	ActionSetMasterVolume Action = "setMasterVolume"
	ActionPlayTrackList   Action = "playTrackList"
	ActionStopMusic       Action = "stopMusic"
	ActionSetMusicVolume  Action = "setMusicVolume"
)

// Message is one command sent to the soundboard. The set of implementations is
// closed: each carries exactly the payload fields of its action.
type Message interface {
	json.Marshaler
	// Action returns the tag of the message.
	Action() Action

	isMessage()
}

var (
	_ Message = PlaySound{}
	_ Message = SetSoundVolume{}
	_ Message = StopSound{}
	_ Message = SetSoundLoop{}
	_ Message = SetMasterVolume{}
	_ Message = PlayTrackList{}
	_ Message = StopMusic{}
	_ Message = SetMusicVolume{}
)

// PlaySound starts the sound at SoundIndex in the group at GroupIndex.
type PlaySound struct {
	GroupIndex int `json:"groupIndex"`
	SoundIndex int `json:"soundIndex"`
}

func (PlaySound) Action() Action { return ActionPlaySound }
func (PlaySound) isMessage()     {}

func (m PlaySound) MarshalJSON() ([]byte, error) {
	type payload PlaySound
	return json.Marshal(struct {
		Action Action `json:"action"`
		payload
	}{m.Action(), payload(m)})
}

// SetSoundVolume sets the sound volume to the value read from the volume control.
type SetSoundVolume struct {
	Volume Value `json:"volume"`
}

func (SetSoundVolume) Action() Action { return ActionSetSoundVolume }
func (SetSoundVolume) isMessage()     {}

func (m SetSoundVolume) MarshalJSON() ([]byte, error) {
	type payload SetSoundVolume
	return json.Marshal(struct {
		Action Action `json:"action"`
		payload
	}{m.Action(), payload(m)})
}

// StopSound cancels the sound if it is being played.
type StopSound struct {
	GroupIndex int `json:"groupIndex"`
	SoundIndex int `json:"soundIndex"`
}

func (StopSound) Action() Action { return ActionStopSound }
func (StopSound) isMessage()     {}

func (m StopSound) MarshalJSON() ([]byte, error) {
	type payload StopSound
	return json.Marshal(struct {
		Action Action `json:"action"`
		payload
	}{m.Action(), payload(m)})
}

// SetSoundLoop toggles whether a sound repeats after it finishes.
type SetSoundLoop struct {
	GroupIndex int  `json:"groupIndex"`
	SoundIndex int  `json:"soundIndex"`
	Loop       bool `json:"loop"`
}

func (SetSoundLoop) Action() Action { return ActionSetSoundLoop }
func (SetSoundLoop) isMessage()     {}

func (m SetSoundLoop) MarshalJSON() ([]byte, error) {
	type payload SetSoundLoop
	return json.Marshal(struct {
		Action Action `json:"action"`
		payload
	}{m.Action(), payload(m)})
}

// SetMasterVolume sets the volume applied on top of every sound.
type SetMasterVolume struct {
	Volume Value `json:"volume"`
}

func (SetMasterVolume) Action() Action { return ActionSetMasterVolume }
func (SetMasterVolume) isMessage()     {}

func (m SetMasterVolume) MarshalJSON() ([]byte, error) {
	type payload SetMasterVolume
	return json.Marshal(struct {
		Action Action `json:"action"`
		payload
	}{m.Action(), payload(m)})
}

// PlayTrackList replaces the music currently playing with a track list.
type PlayTrackList struct {
	GroupIndex     int `json:"groupIndex"`
	TrackListIndex int `json:"trackListIndex"`
}

func (PlayTrackList) Action() Action { return ActionPlayTrackList }
func (PlayTrackList) isMessage()     {}

func (m PlayTrackList) MarshalJSON() ([]byte, error) {
	type payload PlayTrackList
	return json.Marshal(struct {
		Action Action `json:"action"`
		payload
	}{m.Action(), payload(m)})
}

// StopMusic cancels the track list currently playing.
type StopMusic struct{}

func (StopMusic) Action() Action { return ActionStopMusic }
func (StopMusic) isMessage()     {}

func (m StopMusic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Action Action `json:"action"`
	}{m.Action()})
}

// SetMusicVolume sets the music volume.
type SetMusicVolume struct {
	Volume Value `json:"volume"`
}

func (SetMusicVolume) Action() Action { return ActionSetMusicVolume }
func (SetMusicVolume) isMessage()     {}

func (m SetMusicVolume) MarshalJSON() ([]byte, error) {
	type payload SetMusicVolume
	return json.Marshal(struct {
		Action Action `json:"action"`
		payload
	}{m.Action(), payload(m)})
}
