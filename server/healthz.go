// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/utils/retry"
)

const (
	healthzPath = "/healthz"

	healthzInterval = 100 * time.Millisecond
	healthzTimeout  = 10 * time.Second
)

func (s *apiServer) addHealthzRouter() {
	s.GET(healthzPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// healthCheck pings the http server to make sure the router is working.
func (s *apiServer) healthCheck(ctx context.Context) error {
	url := fmt.Sprintf("http://%s%s", healthzAddr(s.listener.Addr()), healthzPath)

	err := retry.RetryWithTimeout(ctx, healthzInterval, healthzTimeout, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Debug("Waiting for the router deploy", "error", err)
			return errors.WithMessage(retry.ErrRetryable, err.Error())
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errors.WithMessagef(retry.ErrRetryable, "status %d", resp.StatusCode)
		}

		return nil
	})
	if err != nil {
		return errors.WithMessage(err, "healthz check failed")
	}
	log.Debug("The router has been deployed successfully.")

	return nil
}

// healthzAddr maps an unspecified listening address to loopback.
func healthzAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || !tcp.IP.IsUnspecified() {
		return addr.String()
	}
	if tcp.IP.To4() != nil {
		return fmt.Sprintf("127.0.0.1:%d", tcp.Port)
	}

	return fmt.Sprintf("[::1]:%d", tcp.Port)
}
