// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package flag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedFlagSets_Order(t *testing.T) {
	var fss NamedFlagSets
	fss.FlagSet("websocket").String("websocket.url", "", "url")
	fss.FlagSet("log").String("log.level", "info", "level")
	fss.FlagSet("websocket").Bool("websocket.compression", false, "compression")

	assert.Equal(t, []string{"websocket", "log"}, fss.Order)
	require.NotNil(t, fss.FlagSets["websocket"].Lookup("websocket.compression"))
}

func TestPrintSections(t *testing.T) {
	var fss NamedFlagSets
	fss.FlagSet("websocket").String("websocket.url", "ws://127.0.0.1:6060/ws", "The soundboard endpoint")
	fss.FlagSet("empty")

	var buf bytes.Buffer
	PrintSections(&buf, fss, 0)

	out := buf.String()
	assert.Contains(t, out, "Websocket flags:")
	assert.Contains(t, out, "--websocket.url")
	assert.NotContains(t, out, "Empty flags:")
}
