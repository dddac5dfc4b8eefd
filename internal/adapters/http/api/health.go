package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/whalechillz/go-singsing-sub000/pkg/metrics"
)

// handleHealth handles GET /healthz by serving the metrics registry, so
// one endpoint answers both liveness probes and Prometheus scrapes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
