// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDName is the registered name of the request id middleware.
	RequestIDName = "requestid"
	// XRequestIDKey is the header and context key carrying the request id.
	XRequestIDKey = "X-Request-ID"
)

// RequestID reuses the X-Request-ID header of the request or generates one,
// and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(XRequestIDKey)
		if rid == "" {
			rid = uuid.New().String()
			c.Request.Header.Set(XRequestIDKey, rid)
		}
		c.Set(XRequestIDKey, rid)
		c.Writer.Header().Set(XRequestIDKey, rid)

		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(XRequestIDKey)
}
