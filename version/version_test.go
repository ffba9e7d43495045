// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, GitVersion, info.String())
	assert.NotEmpty(t, info.GoVersion)

	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(info.ToJSON()), &decoded))
	assert.Equal(t, info, decoded)
}

func TestInfo_Text(t *testing.T) {
	text, err := Get().Text()
	require.NoError(t, err)
	assert.Contains(t, string(text), "gitVersion:")
	assert.Contains(t, string(text), "platform:")
}
