// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package monitor

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CommandsPath is the path serving the recorder stats.
const CommandsPath = "/commands"

// InstallRoutes serves the stats of r on CommandsPath. DELETE resets them.
func InstallRoutes(g gin.IRouter, r *Recorder) {
	g.GET(CommandsPath, func(c *gin.Context) {
		stats, err := r.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})
	g.DELETE(CommandsPath, func(c *gin.Context) {
		if err := r.Reset(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})
}
