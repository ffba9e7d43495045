// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

func newRecorder(t *testing.T, opts ...Option) (*Recorder, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.InfoLevel)
	r := NewRecorder(append([]Option{WithLogger(zap.New(core).Sugar())}, opts...)...)
	r.now = func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	return r, logs
}

func TestRecorder_Handle(t *testing.T) {
	r, logs := newRecorder(t)
	ctx := context.Background()

	r.Handle(ctx, "a", soundboard.PlaySound{GroupIndex: 2, SoundIndex: 5})
	r.Handle(ctx, "a", soundboard.PlaySound{GroupIndex: 2, SoundIndex: 5})
	r.Handle(ctx, "b", soundboard.SetSoundVolume{Volume: soundboard.StringValue("75")})

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stats.Total)
	assert.Equal(t, []ActionCount{
		{Action: soundboard.ActionPlaySound, Count: 2},
		{Action: soundboard.ActionSetSoundVolume, Count: 1},
	}, stats.Actions)
	require.Len(t, stats.Recent, 3)
	assert.Equal(t, "b", stats.Recent[2].PeerID)
	assert.JSONEq(t, `{"action":"setSoundVolume","volume":"75"}`, string(stats.Recent[2].Payload))

	require.Equal(t, 3, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Received command", entry.Message)
	assert.Equal(t, `{"action":"playSound","groupIndex":2,"soundIndex":5}`, entry.ContextMap()["payload"])
}

func TestRecorder_HistorySize(t *testing.T) {
	r, _ := newRecorder(t, WithHistorySize(2))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r.Handle(ctx, "a", soundboard.StopSound{GroupIndex: 0, SoundIndex: i})
	}

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), stats.Total)
	require.Len(t, stats.Recent, 2)
	assert.JSONEq(t, `{"action":"stopSound","groupIndex":0,"soundIndex":4}`, string(stats.Recent[1].Payload))

	require.NoError(t, r.Reset(ctx))
	stats, err = r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Actions: []ActionCount{}}, stats)
}

func TestRecorder_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, _ := newRecorder(t)
	require.NoError(t, r.Register(reg))

	other, _ := newRecorder(t)
	require.NoError(t, other.Register(reg))

	r.Handle(context.Background(), "a", soundboard.StopMusic{})
	other.Handle(context.Background(), "a", soundboard.StopMusic{})
	assert.Equal(t, float64(2), testutil.ToFloat64(r.commands.WithLabelValues("stopMusic")))
}

func TestInstallRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, _ := newRecorder(t)
	g := gin.New()
	InstallRoutes(g, r)

	r.Handle(context.Background(), "a", soundboard.PlaySound{GroupIndex: 1, SoundIndex: 1})

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, CommandsPath, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint64(1), got.Total)
	assert.Equal(t, []ActionCount{{Action: soundboard.ActionPlaySound, Count: 1}}, got.Actions)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, CommandsPath, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	stats, err := r.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.Total)
}

type failingStore struct{}

func (failingStore) Add(context.Context, Record, int) error {
	return errors.New("store down")
}

func (failingStore) Stats(context.Context) (Stats, error) {
	return Stats{}, errors.New("store down")
}

func (failingStore) Reset(context.Context) error {
	return errors.New("store down")
}

func TestRecorder_StoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, logs := newRecorder(t, WithStore(failingStore{}))

	r.Handle(context.Background(), "a", soundboard.StopMusic{})
	assert.Equal(t, 1, logs.FilterMessage("Failed to store command").Len())

	g := gin.New()
	InstallRoutes(g, r)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, CommandsPath, nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	opts.Store = "etcd"
	opts.HistorySize = -1
	assert.Len(t, opts.Validate(), 2)
}
