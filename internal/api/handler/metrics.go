package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collabdocs_requests_total",
		Help: "The total number of processed HTTP requests",
	})
	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collabdocs_websocket_connections",
		Help: "The number of currently open websocket connections",
	})
)

// CountRequests increments the request counter for every request.
func CountRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestsTotal.Inc()
		c.Next()
	}
}

// Metrics serves the prometheus registry.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
