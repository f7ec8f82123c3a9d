package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// lifecycle engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	solicitudes     prometheus.Counter
	dictamenes      *prometheus.CounterVec
	enviosC3        *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	solicitudes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "solicitudes_creadas_total",
		Help: "Total solicitudes created",
	})

	dictamenes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dictamenes_total",
		Help: "Total dispositions by stage and outcome",
	}, []string{"etapa", "resultado"})

	enviosC3 := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "envios_c3_total",
		Help: "Total submit-to-C3 attempts by outcome",
	}, []string{"resultado"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total catalog cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total catalog cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, solicitudes, dictamenes, enviosC3, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		solicitudes:     solicitudes,
		dictamenes:      dictamenes,
		enviosC3:        enviosC3,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one request's duration and status.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// RecordSolicitudCreada increments the created-solicitud counter.
func (m *MetricsService) RecordSolicitudCreada() {
	if m == nil {
		return
	}
	m.solicitudes.Inc()
}

// RecordDictamen tallies a disposition by stage (c5/c3) and outcome.
func (m *MetricsService) RecordDictamen(etapa string, aprobada bool) {
	if m == nil {
		return
	}
	resultado := "rechazada"
	if aprobada {
		resultado = "aprobada"
	}
	m.dictamenes.WithLabelValues(etapa, resultado).Inc()
}

// RecordEnvioC3 tallies a submit-to-C3 attempt.
func (m *MetricsService) RecordEnvioC3(avanzado bool) {
	if m == nil {
		return
	}
	resultado := "rechazado_gate"
	if avanzado {
		resultado = "enviado"
	}
	m.enviosC3.WithLabelValues(resultado).Inc()
}

// RecordCacheLookup tallies a catalog cache lookup.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}
