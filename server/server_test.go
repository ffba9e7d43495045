// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

func testOptions() *Options {
	opts := NewOptions()
	opts.HTTP.BindPort = 0

	return opts
}

func TestServer_Routes(t *testing.T) {
	opts := testOptions()
	opts.Metrics = true
	opts.Profiling = true
	s := New(opts)
	require.NoError(t, s.Setup(func(g *gin.Engine) error {
		g.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
		return nil
	}))

	for _, path := range []string{"/healthz", "/ping", "/metrics", "/debug/pprof/"} {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestServer_SetupError(t *testing.T) {
	s := New(testOptions())
	err := s.Setup(func(g *gin.Engine) error {
		return errors.New("boom")
	})
	assert.EqualError(t, err, "setup api server: boom")
	assert.NoError(t, s.Setup(nil))
}

func TestServer_Run(t *testing.T) {
	s := New(testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return s.Addr() != nil
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", s.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	opts := testOptions()
	opts.HTTP.BindPort = ln.Addr().(*net.TCPAddr).Port
	assert.Error(t, New(opts).Run(context.Background()))
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	opts.Middlewares = []string{"unknown"}
	opts.HTTP.BindPort = 70000
	assert.Len(t, opts.Validate(), 2)
}

func TestHealthzAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:80", healthzAddr(&net.TCPAddr{IP: net.IPv4zero, Port: 80}))
	assert.Equal(t, "[::1]:80", healthzAddr(&net.TCPAddr{IP: net.IPv6unspecified, Port: 80}))
	assert.Equal(t, "10.0.0.1:80", healthzAddr(&net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 80}))
}
