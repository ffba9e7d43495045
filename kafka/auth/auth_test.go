// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package auth

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New(AuthTypeRaw, "", "")
	require.NoError(t, err)
	tr, ok := a.GetTransport(time.Second).(*kafka.Transport)
	require.True(t, ok)
	assert.Nil(t, tr.SASL)

	a, err = New(AuthTypeSASL, "user", "secret")
	require.NoError(t, err)
	tr, ok = a.GetTransport(time.Second).(*kafka.Transport)
	require.True(t, ok)
	assert.Equal(t, plain.Mechanism{Username: "user", Password: "secret"}, tr.SASL)

	_, err = New("aws", "", "")
	assert.Error(t, err)
}
