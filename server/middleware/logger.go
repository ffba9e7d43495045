// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/soundboard-remote/log"
)

// LoggerName is the registered name of the access log middleware.
const LoggerName = "logger"

// Logger writes one access log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		kvs := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if rid := GetRequestID(c); rid != "" {
			kvs = append(kvs, "request_id", rid)
		}
		if len(c.Errors) > 0 {
			log.Error(c.Errors.String(), kvs...)
			return
		}
		log.Info("HTTP request", kvs...)
	}
}
