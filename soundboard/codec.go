// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package soundboard

import (
	"encoding/json"

	"github.com/buger/jsonparser"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

const actionKey = "action"

type variant struct {
	fields []string
	decode func(data []byte) (Message, error)
}

var variants = map[Action]variant{
	ActionPlaySound:       {fields: []string{"groupIndex", "soundIndex"}, decode: decodeInto[PlaySound]},
	ActionSetSoundVolume:  {fields: []string{"volume"}, decode: decodeInto[SetSoundVolume]},
	ActionStopSound:       {fields: []string{"groupIndex", "soundIndex"}, decode: decodeInto[StopSound]},
	ActionSetSoundLoop:    {fields: []string{"groupIndex", "soundIndex", "loop"}, decode: decodeInto[SetSoundLoop]},
	ActionSetMasterVolume: {fields: []string{"volume"}, decode: decodeInto[SetMasterVolume]},
	ActionPlayTrackList:   {fields: []string{"groupIndex", "trackListIndex"}, decode: decodeInto[PlayTrackList]},
	ActionStopMusic:       {fields: nil, decode: decodeInto[StopMusic]},
	ActionSetMusicVolume:  {fields: []string{"volume"}, decode: decodeInto[SetMusicVolume]},
}

// Actions returns every known action tag.
func Actions() []Action {
	actions := make([]Action, 0, len(variants))
	for action := range variants {
		actions = append(actions, action)
	}

	return actions
}

// Encode serializes m into the text sent over the connection.
func Encode(m Message) ([]byte, error) {
	if m == nil {
		return nil, errors.New("encode nil message")
	}

	return json.Marshal(m)
}

// Decode parses a frame produced by Encode. The frame must carry a known
// action and exactly the payload fields of that action.
func Decode(data []byte) (Message, error) {
	tag, err := jsonparser.GetString(data, actionKey)
	if err != nil {
		return nil, errors.WithMessagef(ErrMalformedMessage, "read action: %v", err)
	}
	v, ok := variants[Action(tag)]
	if !ok {
		return nil, errors.WithMessagef(ErrUnknownAction, "%q", tag)
	}
	if err := checkFields(data, v.fields); err != nil {
		return nil, errors.WithMessagef(err, "action %s", tag)
	}

	m, err := v.decode(data)
	if err != nil {
		return nil, errors.WithMessagef(ErrMalformedMessage, "action %s: %v", tag, err)
	}

	return m, nil
}

func checkFields(data []byte, fields []string) error {
	allowed := make(map[string]bool, len(fields)+1)
	allowed[actionKey] = false
	for _, f := range fields {
		allowed[f] = false
	}

	err := jsonparser.ObjectEach(data, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		seen, ok := allowed[string(key)]
		if !ok {
			return errors.WithMessagef(ErrMalformedMessage, "unexpected field %q", key)
		}
		if seen {
			return errors.WithMessagef(ErrMalformedMessage, "duplicate field %q", key)
		}
		allowed[string(key)] = true

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMalformedMessage) {
			return err
		}
		return errors.WithMessage(ErrMalformedMessage, err.Error())
	}

	for _, f := range fields {
		if !allowed[f] {
			return errors.WithMessagef(ErrMalformedMessage, "missing field %q", f)
		}
	}

	return nil
}

func decodeInto[T Message](data []byte) (Message, error) {
	var m T
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return m, nil
}
