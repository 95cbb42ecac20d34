// Package metrics exposes settlement counters and a standalone /metrics +
// /healthz server, kept off the public port.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoundsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamehouse_rounds_settled_total",
		Help: "Settled rounds by game and result.",
	}, []string{"game", "result"})

	StakeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamehouse_stake_total",
		Help: "Total amount staked by game.",
	}, []string{"game"})

	PayoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamehouse_payout_total",
		Help: "Total amount paid out by game.",
	}, []string{"game"})

	DebitsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamehouse_debits_rejected_total",
		Help: "Debits rejected for insufficient funds.",
	})
)

type HealthFunc func(ctx context.Context) error

// StartServer runs a small HTTP server for /metrics and /healthz in a
// goroutine and returns it for shutdown.
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
