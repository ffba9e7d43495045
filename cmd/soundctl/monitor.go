// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/gosuri/uitable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/soundboard-remote/app"
	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/grpc"
	"github.com/wangtaoking1/soundboard-remote/kafka"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/monitor"
	"github.com/wangtaoking1/soundboard-remote/server"
	"github.com/wangtaoking1/soundboard-remote/shutdown"
	"github.com/wangtaoking1/soundboard-remote/shutdown/trigger/posixsignal"
	"github.com/wangtaoking1/soundboard-remote/storage/redis"
	"github.com/wangtaoking1/soundboard-remote/websocket"
)

// monitorService is the grpc health service name of the monitor.
const monitorService = "soundboard.Monitor"

func monitorCommand(opts *Options) app.Command {
	return app.NewCommand("monitor",
		"Run an endpoint logging the commands it receives",
		app.WithCmdDescription("Run an endpoint soundboard clients can connect to. Every command received is "+
			"logged and counted; the counters are served on /commands. With --monitor.store=redis the counters "+
			"are kept in redis, with --kafka.enabled every command is also forwarded to a kafka topic."),
		app.WithCmdArgs(cobra.NoArgs),
		app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
			log.Init(opts.Log)
			defer log.Flush()

			return runMonitor(ctx, opts, prometheus.DefaultRegisterer)
		}),
	)
}

// monitorServer is the receiving endpoint with everything it holds open.
type monitorServer struct {
	api     server.APIServer
	ws      *websocket.Server
	health  grpc.Server
	closers []func() error
}

// run serves the api and, when enabled, the grpc health service until ctx is
// done or one of them fails.
func (m *monitorServer) run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return m.api.Run(ctx)
	})
	if m.health != nil {
		m.health.SetServingStatus(monitorService, true)
		eg.Go(func() error {
			return m.health.Run(ctx)
		})
	}

	return eg.Wait()
}

// close releases the stores and producers once peers and listener are gone.
func (m *monitorServer) close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.NewAggregate(errs)
}

func newMonitorServer(opts *Options, reg prometheus.Registerer) (_ *monitorServer, err error) {
	m := &monitorServer{}
	defer func() {
		if err != nil {
			_ = m.close()
		}
	}()

	recorderOpts := []monitor.Option{monitor.WithHistorySize(opts.Monitor.HistorySize)}
	if opts.Monitor.Store == monitor.StoreRedis {
		client, err := redis.NewClient(opts.Redis)
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, client.Close)
		recorderOpts = append(recorderOpts, monitor.WithStore(redis.NewCommandStore(client, opts.Redis.KeyPrefix)))
	}
	recorder := monitor.NewRecorder(recorderOpts...)
	if opts.Server.Metrics {
		if err := recorder.Register(reg); err != nil {
			return nil, err
		}
	}

	handlers := websocket.Handlers{recorder}
	if opts.Kafka.Enabled {
		producer, err := kafka.NewProducer(opts.Kafka)
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, producer.Close)
		handlers = append(handlers, kafka.NewForwarder(producer))
	}
	m.ws = websocket.NewServer(opts.WebSocket, websocket.NewCommandDispatcher(handlers))

	if opts.GRPC.Enabled {
		if m.health, err = grpc.New(opts.GRPC); err != nil {
			return nil, err
		}
	}

	m.api = server.New(opts.Server)
	err = m.api.Setup(func(g *gin.Engine) error {
		g.GET(opts.websocketPath(), gin.WrapH(m.ws))
		monitor.InstallRoutes(g, recorder)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func runMonitor(ctx context.Context, opts *Options, reg prometheus.Registerer) error {
	m, err := newMonitorServer(opts, reg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gs := shutdown.New(posixsignal.New(posixsignal.WithAfter(cancel)))
	// probes and peers first, so they see the shutdown before the listener
	// goes away
	gs.AddCallback(shutdown.CallbackFunc(func(trigger string) error {
		log.Info("Shutting down monitor", "trigger", trigger)
		if m.health != nil {
			m.health.Close()
		}
		m.ws.Close()

		return nil
	}))
	gs.AddCallback(shutdown.CallbackFunc(func(string) error {
		m.api.Close()

		return nil
	}))
	gs.SetErrorHandler(shutdown.ErrorFunc(func(err error) {
		log.Error("Shutdown monitor failed", "error", err)
	}))
	if err := gs.Start(); err != nil {
		_ = m.close()
		return err
	}

	err = m.run(ctx)
	m.ws.Close()
	if cerr := m.close(); cerr != nil {
		log.Error("Release monitor resources failed", "error", cerr)
	}

	return err
}

func commandsCommand(opts *Options) app.Command {
	return app.NewCommand("commands",
		"Show the commands received by a running monitor",
		app.WithCmdArgs(cobra.NoArgs),
		app.WithCmdRunFunc(func(ctx context.Context, args []string) error {
			url := fmt.Sprintf("http://%s%s", opts.Server.HTTP.Address(), monitor.CommandsPath)
			stats, err := fetchStats(ctx, url)
			if err != nil {
				return err
			}
			printStats(color.Output, stats)

			return nil
		}),
	)
}

func fetchStats(ctx context.Context, url string) (monitor.Stats, error) {
	var stats monitor.Stats

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return stats, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return stats, errors.WithMessage(err, "query monitor")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return stats, errors.Errorf("query monitor: %s: %s", resp.Status, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return stats, errors.Wrap(err, "decode monitor stats")
	}

	return stats, nil
}

func printStats(w io.Writer, stats monitor.Stats) {
	header := color.New(color.Bold).SprintFunc()

	table := uitable.New()
	table.AddRow(header("ACTION"), header("COUNT"))
	for _, a := range stats.Actions {
		table.AddRow(a.Action, a.Count)
	}
	table.AddRow(header("TOTAL"), stats.Total)
	fmt.Fprintln(w, table)

	if len(stats.Recent) == 0 {
		return
	}

	recent := uitable.New()
	recent.MaxColWidth = 80
	recent.Wrap = true
	recent.AddRow(header("TIME"), header("PEER"), header("PAYLOAD"))
	for _, r := range stats.Recent {
		recent.AddRow(r.Time.Format(time.RFC3339), r.PeerID, string(r.Payload))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, recent)
}
