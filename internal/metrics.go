package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// telemetryMetrics is the process-wide Prometheus exposition state. It is
// hand-rolled text exposition rather than client_golang, matching the
// teacher's own metrics.go: counters and gauges keyed by a flattened
// label string, rendered on demand by metricsHandler.
type telemetryMetrics struct {
	enabled bool
	mu      sync.RWMutex

	emittedTotal map[string]uint64
	droppedTotal map[string]uint64
	retryTotal   map[string]uint64
	backendUp    map[string]float64
	dialSum      map[string]float64
	dialCount    map[string]uint64
}

var (
	metricsMu sync.RWMutex
	metrics   = telemetryMetrics{}
)

func EnablePrometheusMetrics() {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if metrics.enabled {
		return
	}
	metrics.emittedTotal = make(map[string]uint64)
	metrics.droppedTotal = make(map[string]uint64)
	metrics.retryTotal = make(map[string]uint64)
	metrics.backendUp = make(map[string]float64)
	metrics.dialSum = make(map[string]float64)
	metrics.dialCount = make(map[string]uint64)
	metrics.enabled = true
}

func StartMetricsServer(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("empty metrics address")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metricsHandler)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// observeEmit records one successfully dispatched record for the named
// back-end mode and event kind.
func observeEmit(mode, kind string) {
	metricsMu.RLock()
	if !metrics.enabled {
		metricsMu.RUnlock()
		return
	}
	metrics.mu.Lock()
	metricsMu.RUnlock()
	defer metrics.mu.Unlock()
	metrics.emittedTotal[fmt.Sprintf("mode=%s,type=%s", mode, kind)]++
}

// observeDrop records a record that was composed but never made it onto
// the wire (a non-fatal runtime I/O error).
func observeDrop(mode, reason string) {
	metricsMu.RLock()
	if !metrics.enabled {
		metricsMu.RUnlock()
		return
	}
	metrics.mu.Lock()
	metricsMu.RUnlock()
	defer metrics.mu.Unlock()
	metrics.droppedTotal[fmt.Sprintf("mode=%s,reason=%s", mode, reason)]++
}

// observeRetry records a transient-condition retry (e.g. broker
// queue-full).
func observeRetry(mode string) {
	metricsMu.RLock()
	if !metrics.enabled {
		metricsMu.RUnlock()
		return
	}
	metrics.mu.Lock()
	metricsMu.RUnlock()
	defer metrics.mu.Unlock()
	metrics.retryTotal[fmt.Sprintf("mode=%s", mode)]++
}

func setBackendUp(mode string, up bool) {
	metricsMu.RLock()
	if !metrics.enabled {
		metricsMu.RUnlock()
		return
	}
	metrics.mu.Lock()
	metricsMu.RUnlock()
	defer metrics.mu.Unlock()
	v := 0.0
	if up {
		v = 1
	}
	metrics.backendUp[fmt.Sprintf("mode=%s", mode)] = v
}

func observeDial(mode string, d time.Duration) {
	metricsMu.RLock()
	if !metrics.enabled {
		metricsMu.RUnlock()
		return
	}
	metrics.mu.Lock()
	metricsMu.RUnlock()
	defer metrics.mu.Unlock()
	k := fmt.Sprintf("mode=%s", mode)
	metrics.dialCount[k]++
	metrics.dialSum[k] += d.Seconds()
}

func metricsHandler(w http.ResponseWriter, _ *http.Request) {
	metricsMu.RLock()
	enabled := metrics.enabled
	metricsMu.RUnlock()
	if !enabled {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("# metrics disabled\n"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	metrics.mu.RLock()
	defer metrics.mu.RUnlock()

	writeCounterVec(w, "telemetry_emitted_total", metrics.emittedTotal)
	writeCounterVec(w, "telemetry_dropped_total", metrics.droppedTotal)
	writeCounterVec(w, "telemetry_retry_total", metrics.retryTotal)
	writeGaugeVec(w, "telemetry_backend_up", metrics.backendUp)
	writeSummaryAsCountAndSum(w, "telemetry_dial_duration_seconds", metrics.dialCount, metrics.dialSum)
}

func writeCounterVec(w http.ResponseWriter, name string, data map[string]uint64) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s{%s} %d\n", name, toPromLabels(k), data[k])
	}
}

func writeGaugeVec(w http.ResponseWriter, name string, data map[string]float64) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s{%s} %.0f\n", name, toPromLabels(k), data[k])
	}
}

func writeSummaryAsCountAndSum(w http.ResponseWriter, name string, counts map[string]uint64, sums map[string]float64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		labels := toPromLabels(k)
		fmt.Fprintf(w, "%s_count{%s} %d\n", name, labels, counts[k])
		fmt.Fprintf(w, "%s_sum{%s} %f\n", name, labels, sums[k])
	}
}

func toPromLabels(s string) string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		parts[i] = fmt.Sprintf("%s=\"%s\"", kv[0], strings.ReplaceAll(kv[1], "\"", "\\\""))
	}
	return strings.Join(parts, ",")
}
