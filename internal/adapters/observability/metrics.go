package observability

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourism", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tourism", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StorageRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourism", Name: "storage_requests_total", Help: "Object storage requests."},
		[]string{"backend", "op", "status"},
	)
	StorageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tourism", Name: "storage_request_duration_seconds",
			Help:    "Object storage request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourism", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	Reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourism", Name: "reservations_total", Help: "Reservation attempts by outcome."},
		[]string{"outcome"}, // created|conflict|invalid|error
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourism", Name: "admin_logins_total", Help: "Admin login attempts by outcome."},
		[]string{"outcome"}, // ok|bad_credentials|inactive|throttled
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tourism", Name: "uploads_total", Help: "File uploads by outcome."},
		[]string{"outcome"},
	)
)

func Serve(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StorageRequests, StorageLatency, CacheEvents,
		Reservations, Logins, Uploads)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveStorage(backend, op string, status int, dur time.Duration) {
	StorageRequests.WithLabelValues(backend, op, strconv.Itoa(status)).Inc()
	StorageLatency.WithLabelValues(backend, op).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveReservation(outcome string) { Reservations.WithLabelValues(outcome).Inc() }
func ObserveLogin(outcome string)       { Logins.WithLabelValues(outcome).Inc() }
func ObserveUpload(outcome string)      { Uploads.WithLabelValues(outcome).Inc() }

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
