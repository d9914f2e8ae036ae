package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safeguide_http_requests_total",
			Help: "HTTP requests served, by route, method and status.",
		},
		[]string{"path", "method", "status"},
	)

	ChatTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safeguide_chat_turns_total",
			Help: "Chat submits handled, by outcome.",
		},
		[]string{"outcome"},
	)

	DatasetRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "safeguide_dataset_rows",
			Help: "Rows loaded per dataset at startup.",
		},
		[]string{"table"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, ChatTurns, DatasetRows)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
