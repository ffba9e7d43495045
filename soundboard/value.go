// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package soundboard

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

// Value is a control value carried verbatim on the wire. It is either a JSON
// string or a JSON number, and keeps the kind it was read with: a slider that
// reports "75" is sent as "75", not 75.
type Value struct {
	raw json.RawMessage
}

// StringValue returns a Value encoded as a JSON string.
func StringValue(s string) Value {
	raw, _ := json.Marshal(s)
	return Value{raw: raw}
}

// NumberValue returns a Value encoded as a JSON number.
func NumberValue(f float64) Value {
	return Value{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

// IsZero reports whether v was never set. A zero Value encodes as null.
func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

// IsString reports whether v is a JSON string.
func (v Value) IsString() bool {
	return len(v.raw) > 0 && v.raw[0] == '"'
}

// Float returns the numeric value of v. String values are parsed, so "75"
// yields 75.
func (v Value) Float() (float64, error) {
	if v.IsZero() {
		return 0, errors.New("empty value")
	}
	if v.IsString() {
		var s string
		if err := json.Unmarshal(v.raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}

	return strconv.ParseFloat(string(v.raw), 64)
}

// String returns the text of v without JSON quoting.
func (v Value) String() string {
	if v.IsString() {
		var s string
		if err := json.Unmarshal(v.raw, &s); err == nil {
			return s
		}
	}

	return string(v.raw)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}

	return v.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only strings and numbers are
// accepted.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.WithMessage(ErrMalformedMessage, "empty value")
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
	default:
		return errors.WithMessagef(ErrMalformedMessage, "value must be a string or a number, got %s", data)
	}
	v.raw = append(json.RawMessage(nil), data...)

	return nil
}
