// Package ginserver is the HTTP surface of the exporter.
package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.RedirectTrailingSlash = false
	r.RemoveExtraSlash = true

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/", h.Index)
	r.GET("/ping", h.Ping)
	r.GET("/metrics", h.Metrics)
	r.HEAD("/metrics", h.Metrics)

	return r
}
