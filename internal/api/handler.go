// Package api serves the on-demand scan endpoint, the recent signal log,
// health and metrics over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"FuturesScanner/internal/model"
)

const (
	defaultSignalLimit = 50
	maxSignalLimit     = 500
)

// ScanRunner runs one scan cycle on demand.
type ScanRunner interface {
	RunNow(ctx context.Context) (*model.ScanReport, error)
}

// SignalSource lists the most recent signal log entries.
type SignalSource interface {
	Recent(ctx context.Context, limit int) ([]model.SignalLogEntry, error)
}

type Handler struct {
	router  *gin.Engine
	scans   ScanRunner
	signals SignalSource
}

// NewHandler builds the router. signals may be nil, in which case /signals
// answers 404. A nil gatherer serves the default Prometheus registry.
func NewHandler(scans ScanRunner, signals SignalSource, gatherer prometheus.Gatherer) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	h := &Handler{
		router:  router,
		scans:   scans,
		signals: signals,
	}
	h.router.GET("/scan", h.scan)
	h.router.GET("/healthz", h.healthz)
	h.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	if signals != nil {
		h.router.GET("/signals", h.recentSignals)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) scan(c *gin.Context) {
	report, err := h.scans.RunNow(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) recentSignals(c *gin.Context) {
	limit := defaultSignalLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxSignalLimit)
	}

	entries, err := h.signals.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": entries, "count": len(entries)})
}
