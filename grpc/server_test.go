// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServer_Health(t *testing.T) {
	opts := NewOptions()
	opts.BindPort = 0
	s, err := New(opts)
	require.NoError(t, err)
	s.SetServingStatus("monitor", false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		return s.Addr() != nil
	}, 5*time.Second, 10*time.Millisecond)

	conn, err := grpc.DialContext(ctx, s.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	client := healthgrpc.NewHealthClient(conn)

	resp, err := client.Check(ctx, &healthgrpc.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthgrpc.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = client.Check(ctx, &healthgrpc.HealthCheckRequest{Service: "monitor"})
	require.NoError(t, err)
	assert.Equal(t, healthgrpc.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	s.SetServingStatus("monitor", true)
	resp, err = client.Check(ctx, &healthgrpc.HealthCheckRequest{Service: "monitor"})
	require.NoError(t, err)
	assert.Equal(t, healthgrpc.HealthCheckResponse_SERVING, resp.GetStatus())

	require.NoError(t, conn.Close())
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("grpc server did not stop")
	}
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	opts.BindPort = -1
	assert.Empty(t, opts.Validate())

	opts.Enabled = true
	opts.MaxMsgSize = 0
	opts.TLS.Enabled = true
	assert.Len(t, opts.Validate(), 3)
}
