// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/wangtaoking1/soundboard-remote/monitor"
	"github.com/wangtaoking1/soundboard-remote/panel"
	"github.com/wangtaoking1/soundboard-remote/soundboard"
)

func startMonitor(t *testing.T, opts *Options) string {
	t.Helper()

	return startMonitorServer(t, opts).api.Addr().String()
}

func startMonitorServer(t *testing.T, opts *Options) *monitorServer {
	t.Helper()

	opts.Server.HTTP.BindPort = 0
	m, err := newMonitorServer(opts, prometheus.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.run(ctx)
	}()
	t.Cleanup(func() {
		m.ws.Close()
		cancel()
		<-done
		assert.NoError(t, m.close())
	})

	require.Eventually(t, func() bool {
		return m.api.Addr() != nil
	}, 5*time.Second, 10*time.Millisecond)

	return m
}

func TestSendThroughMonitor(t *testing.T) {
	opts := NewOptions()
	addr := startMonitor(t, opts)
	opts.WebSocket.URL = fmt.Sprintf("ws://%s/ws", addr)
	ctx := context.Background()

	require.NoError(t, withPanel(ctx, opts, nil, func(ctx context.Context, p *panel.Panel) error {
		return p.OnPlaySound(ctx, 2, 5)
	}))
	control := soundboard.FixedControl(soundboard.StringValue("75"))
	require.NoError(t, withPanel(ctx, opts, panel.Controls{panel.VolumeControl: control},
		func(ctx context.Context, p *panel.Panel) error {
			return p.OnVolumeChange(ctx)
		}))

	url := fmt.Sprintf("http://%s%s", addr, monitor.CommandsPath)
	var stats monitor.Stats
	require.Eventually(t, func() bool {
		var err error
		stats, err = fetchStats(ctx, url)
		return err == nil && stats.Total == 2
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []monitor.ActionCount{
		{Action: soundboard.ActionPlaySound, Count: 1},
		{Action: soundboard.ActionSetSoundVolume, Count: 1},
	}, stats.Actions)
	require.Len(t, stats.Recent, 2)
	assert.JSONEq(t, `{"action":"playSound","groupIndex":2,"soundIndex":5}`, string(stats.Recent[0].Payload))
	assert.JSONEq(t, `{"action":"setSoundVolume","volume":"75"}`, string(stats.Recent[1].Payload))

	var buf bytes.Buffer
	printStats(&buf, stats)
	assert.Contains(t, buf.String(), "playSound")
	assert.Contains(t, buf.String(), "setSoundVolume")
}

func TestVolumeCommand(t *testing.T) {
	opts := NewOptions()
	addr := startMonitor(t, opts)
	opts.WebSocket.URL = fmt.Sprintf("ws://%s/ws", addr)

	var cmd *cobra.Command
	for _, c := range newCommands(opts) {
		if c.Command().Name() == "master-volume" {
			cmd = c.Command()
		}
	}
	require.NotNil(t, cmd)
	cmd.SetArgs([]string{"--as-number", "0.5"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	url := fmt.Sprintf("http://%s%s", addr, monitor.CommandsPath)
	var stats monitor.Stats
	require.Eventually(t, func() bool {
		var err error
		stats, err = fetchStats(context.Background(), url)
		return err == nil && stats.Total == 1
	}, 5*time.Second, 20*time.Millisecond)
	require.Len(t, stats.Recent, 1)
	assert.JSONEq(t, `{"action":"setMasterVolume","volume":0.5}`, string(stats.Recent[0].Payload))
}

func TestSendThroughMonitor_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	// two monitors on one redis share their counters
	var addrs []string
	for i := 0; i < 2; i++ {
		opts := NewOptions()
		opts.Monitor.Store = monitor.StoreRedis
		opts.Redis.Addrs = []string{mr.Addr()}
		addrs = append(addrs, startMonitor(t, opts))
	}

	for _, addr := range addrs {
		opts := NewOptions()
		opts.WebSocket.URL = fmt.Sprintf("ws://%s/ws", addr)
		require.NoError(t, withPanel(ctx, opts, nil, func(ctx context.Context, p *panel.Panel) error {
			return p.OnStopMusic(ctx)
		}))
	}

	url := fmt.Sprintf("http://%s%s", addrs[0], monitor.CommandsPath)
	require.Eventually(t, func() bool {
		stats, err := fetchStats(ctx, url)
		return err == nil && stats.Total == 2
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, mr.Exists("{soundctl:monitor}:counts"))
}

func TestMonitor_GRPCHealth(t *testing.T) {
	opts := NewOptions()
	opts.GRPC.Enabled = true
	opts.GRPC.BindPort = 0
	m := startMonitorServer(t, opts)
	require.Eventually(t, func() bool {
		return m.health.Addr() != nil
	}, 5*time.Second, 10*time.Millisecond)

	ctx := context.Background()
	conn, err := grpc.DialContext(ctx, m.health.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	resp, err := healthgrpc.NewHealthClient(conn).Check(ctx, &healthgrpc.HealthCheckRequest{Service: monitorService})
	require.NoError(t, err)
	assert.Equal(t, healthgrpc.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestNewMonitorServer_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := NewOptions()
	opts.Monitor.Store = monitor.StoreRedis
	opts.Redis.Addrs = []string{mr.Addr()}
	opts.Redis.DialTimeout = time.Second
	mr.Close()

	_, err := newMonitorServer(opts, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestWithPanel_DialFailure(t *testing.T) {
	opts := NewOptions()
	opts.WebSocket.URL = "ws://127.0.0.1:1/ws"
	opts.WebSocket.DialRetryTimeout = 0

	sent := false
	err := withPanel(context.Background(), opts, nil, func(ctx context.Context, p *panel.Panel) error {
		sent = true
		return nil
	})
	assert.ErrorContains(t, err, "connect to soundboard")
	assert.False(t, sent)
}

func TestValueOptions_Control(t *testing.T) {
	o := &valueOptions{}
	control, err := o.control("75")
	require.NoError(t, err)
	v, err := control.Value()
	require.NoError(t, err)
	assert.True(t, v.IsString())

	o.AsNumber = true
	control, err = o.control("0.5")
	require.NoError(t, err)
	v, err = control.Value()
	require.NoError(t, err)
	assert.False(t, v.IsString())

	_, err = o.control("loud")
	assert.Error(t, err)
}

func TestParseIndexes(t *testing.T) {
	idx, err := parseIndexes([]string{"2", "-5"}, "group", "sound")
	require.NoError(t, err)
	assert.Equal(t, []int{2, -5}, idx)

	_, err = parseIndexes([]string{"2", "x"}, "group", "sound")
	assert.EqualError(t, err, `sound "x" is not an integer`)
}

func TestOptions(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())
	assert.Equal(t, "/ws", opts.websocketPath())

	opts.WebSocket.URL = "ws://board.local:9000/remote"
	assert.Equal(t, "/remote", opts.websocketPath())

	fss := opts.Flags()
	assert.Equal(t, []string{"log", "websocket", "server", "monitor", "redis", "kafka", "grpc"}, fss.Order)

	// redis is only checked when it holds the counters
	opts.Redis.Addrs = nil
	assert.Empty(t, opts.Validate())
	opts.Monitor.Store = monitor.StoreRedis
	assert.Len(t, opts.Validate(), 1)

	opts.Kafka.Enabled = true
	opts.Kafka.Topic = ""
	assert.Len(t, opts.Validate(), 2)
}
