package ginserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the bees work directory is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler exposes the exporter's HTTP endpoints.
type Handler struct {
	svc     Pinger
	metrics http.Handler
}

// NewHandler wires the health check and the Prometheus handler into gin.
func NewHandler(svc Pinger, metrics http.Handler) *Handler {
	return &Handler{svc: svc, metrics: metrics}
}

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Bees Prometheus Exporter</title></head>
<body>
<h1>Bees Prometheus Exporter</h1>
<p><a href="/metrics">Metrics</a></p>
</body>
</html>
`

// Index handles `GET /` with a landing page linking to the metrics.
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// Metrics handles `GET /metrics`; every request runs a full collection cycle.
func (h *Handler) Metrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

// Ping handles `GET /ping`.
func (h *Handler) Ping(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusServiceUnavailable, "work dir error: %v", err)
		return
	}
	c.String(http.StatusOK, "ok")
}
