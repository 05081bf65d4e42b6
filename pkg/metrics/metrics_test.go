package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/symbol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetHealth(t *testing.T) {
	t.Helper()
	healthChecker = newHealthChecker()
}

func TestReadinessWaitsForConfig(t *testing.T) {
	resetHealth(t)

	r := GetReadiness()
	assert.Equal(t, "not_ready", r.Status)
	assert.Equal(t, "not registered", r.Components[ComponentConfig])

	UpdateComponent(ComponentConfig, false, "unexpected-element 'foo'")
	r = GetReadiness()
	assert.Equal(t, "not_ready", r.Status)
	assert.Contains(t, r.Components[ComponentConfig], "unexpected-element")

	UpdateComponent(ComponentConfig, true, "")
	assert.Equal(t, "ready", GetReadiness().Status)
}

func TestHealthHandlers(t *testing.T) {
	resetHealth(t)
	SetVersion("1.2.0")

	tests := []struct {
		name    string
		healthy bool
		path    string
		want    int
	}{
		{name: "healthy", healthy: true, path: "/health", want: http.StatusOK},
		{name: "unhealthy", healthy: false, path: "/health", want: http.StatusServiceUnavailable},
		{name: "ready", healthy: true, path: "/ready", want: http.StatusOK},
		{name: "not ready", healthy: false, path: "/ready", want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			UpdateComponent(ComponentConfig, tt.healthy, "reload failed")

			rec := httptest.NewRecorder()
			Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body HealthStatus
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "1.2.0", body.Version)
		})
	}
}

type staticSource struct{ config *model.Tree }

func (s staticSource) Config() *model.Tree { return s.config }

func TestCollectorPublishesConfigGauges(t *testing.T) {
	metric := func(kind string) model.Value {
		return model.Object(model.NewTree().Set(symbol.Type, model.String(kind)))
	}
	config := model.NewTree().
		Set(symbol.ProxyList, model.String("10.0.0.1:6666, 10.0.0.2:6666,")).
		Set(symbol.Proxies, model.List(model.String("proxy3"))).
		Set(symbol.DynamicLoadProvider, model.Object(model.NewTree().
			Set(symbol.LoadMetric, model.List(metric("cpu"), metric("mem")))))

	NewCollector(staticSource{config: config}, time.Minute).Collect()

	assert.Equal(t, 2.0, testutil.ToFloat64(ConfiguredLoadMetrics.WithLabelValues("load-metric")))
	assert.Equal(t, 0.0, testutil.ToFloat64(ConfiguredLoadMetrics.WithLabelValues("custom-load-metric")))
	assert.Equal(t, 3.0, testutil.ToFloat64(ConfiguredProxies))

	// No configuration loaded.
	NewCollector(staticSource{}, time.Minute).Collect()
	assert.Equal(t, 0.0, testutil.ToFloat64(ConfiguredProxies))
}

func TestTimerObservesHistogram(t *testing.T) {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_duration_seconds",
		Help:    "Test duration histogram",
		Buckets: prometheus.DefBuckets,
	})

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDuration(histogram)

	assert.GreaterOrEqual(t, timer.Duration(), 10*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(histogram))
}

func TestTimerObservesHistogramVec(t *testing.T) {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_operation_seconds",
		Help:    "Test operation histogram",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	NewTimer().ObserveDurationVec(vec, "add")
	NewTimer().ObserveDurationVec(vec, "remove")

	assert.Equal(t, 2, testutil.CollectAndCount(vec))
}
