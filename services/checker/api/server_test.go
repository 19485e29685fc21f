package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/store"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/testsCommon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func createMockArgs() ArgsWebServer {
	return ArgsWebServer{
		ListenAddress:  "127.0.0.1:0",
		Store:          &testsCommon.StoreStub{},
		Reports:        &testsCommon.ReportProviderStub{},
		Stats:          &testsCommon.StatsProviderStub{},
		GeneralHandler: func(h http.Handler) http.Handler { return h },
	}
}

func doGet(serv *server, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)

	return w
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	t.Run("nil store should error", func(t *testing.T) {
		args := createMockArgs()
		args.Store = nil
		_, err := NewServer(args)

		require.Error(t, err)
		require.Contains(t, err.Error(), "store is required")
	})
	t.Run("nil report provider should error", func(t *testing.T) {
		args := createMockArgs()
		args.Reports = nil
		_, err := NewServer(args)

		require.Contains(t, err.Error(), "report provider is required")
	})
	t.Run("nil stats provider should error", func(t *testing.T) {
		args := createMockArgs()
		args.Stats = nil
		_, err := NewServer(args)

		require.Contains(t, err.Error(), "stats provider is required")
	})
	t.Run("nil general handler should error", func(t *testing.T) {
		args := createMockArgs()
		args.GeneralHandler = nil
		_, err := NewServer(args)

		require.Contains(t, err.Error(), "nil http handler")
	})
}

func TestServer_StartAndClose(t *testing.T) {
	serv, err := NewServer(createMockArgs())
	require.NoError(t, err)

	serv.Start()
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get("http://" + serv.Address() + "/api/changes")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, serv.Close())
}

func TestServer_MetricsEndpoints(t *testing.T) {
	metricStore, _ := store.NewMetricStore("myapp.worker.requests")
	_ = metricStore.Ingest(common.MetricRecord{Name: "myapp.worker.requests", Value: "10", MetricType: "c", Tags: []string{"worker:1"}})
	_ = metricStore.Ingest(common.MetricRecord{Name: "myapp.worker.avg_response_time", Value: "12", MetricType: "g"})

	args := createMockArgs()
	args.Store = metricStore
	serv, err := NewServer(args)
	require.NoError(t, err)

	w := doGet(serv, "/api/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	var metricsResp struct {
		Metrics []common.MetricRecord `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metricsResp))
	require.Len(t, metricsResp.Metrics, 2)
	require.Equal(t, "myapp.worker.avg_response_time", metricsResp.Metrics[0].Name)
	require.Equal(t, []string{"worker:1"}, metricsResp.Metrics[1].Tags)

	w = doGet(serv, "/api/metrics/myapp.worker.requests")
	require.Equal(t, http.StatusOK, w.Code)
	var record common.MetricRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	require.Equal(t, "10", record.Value)

	w = doGet(serv, "/api/metrics/missing")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(serv, "/api/changes")
	require.Equal(t, http.StatusOK, w.Code)
	var changes struct {
		Signaled bool                   `json:"signaled"`
		Changed  map[string]json.Number `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changes))
	require.True(t, changes.Signaled)
	require.Equal(t, map[string]json.Number{"myapp.worker.requests": "10", "myapp.worker.avg_response_time": "12"}, changes.Changed)
}

func TestServer_ChangesWithUnusualValues(t *testing.T) {
	metricStore, _ := store.NewMetricStore("myapp.worker.requests")
	_ = metricStore.Ingest(common.MetricRecord{Name: "myapp.worker.requests", Value: "9007199254740993", MetricType: "c"})
	_ = metricStore.Ingest(common.MetricRecord{Name: "myapp.worker.avg_response_time", Value: "12.5", MetricType: "g"})
	err := metricStore.Ingest(common.MetricRecord{Name: "myapp.worker.load", Value: "NaN", MetricType: "g"})
	require.ErrorIs(t, err, store.ErrNonNumericValue)
	err = metricStore.Ingest(common.MetricRecord{Name: "myapp.worker.queue", Value: "+Inf", MetricType: "g"})
	require.ErrorIs(t, err, store.ErrNonNumericValue)

	args := createMockArgs()
	args.Store = metricStore
	serv, err := NewServer(args)
	require.NoError(t, err)

	w := doGet(serv, "/api/changes")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, json.Valid(w.Body.Bytes()), w.Body.String())

	var changes struct {
		Changed map[string]json.Number `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changes))
	require.Equal(t, map[string]json.Number{
		"myapp.worker.requests":          "9007199254740993",
		"myapp.worker.avg_response_time": "12.5",
	}, changes.Changed)

	w = doGet(serv, "/api/metrics/myapp.worker.load")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"NaN"`)
}

func TestServer_ReportAndStatsEndpoints(t *testing.T) {
	args := createMockArgs()
	args.Reports = &testsCommon.ReportProviderStub{
		ReportHandler: func() common.Report {
			return common.Report{NumRounds: 2, Successes: 1, Failures: 1, FailedMetrics: []string{"a"}, RoundErrors: []string{}}
		},
	}
	args.Stats = &testsCommon.StatsProviderStub{
		StatsHandler: func() common.ListenerStats {
			return common.ListenerStats{DatagramsReceived: 3, ParseFailures: 1}
		},
	}
	serv, err := NewServer(args)
	require.NoError(t, err)

	w := doGet(serv, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)
	var report common.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, []string{"a"}, report.FailedMetrics)
	require.False(t, report.Passed())

	w = doGet(serv, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats common.ListenerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, uint64(3), stats.DatagramsReceived)
}

func TestServer_PrometheusEndpoint(t *testing.T) {
	t.Run("without gatherer the route is not mounted", func(t *testing.T) {
		serv, _ := NewServer(createMockArgs())

		w := doGet(serv, "/metrics")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("with gatherer should expose the registered collectors", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "test"})
		registry.MustRegister(counter)
		counter.Inc()

		args := createMockArgs()
		args.Gatherer = registry
		serv, _ := NewServer(args)

		w := doGet(serv, "/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "test_counter_total 1")
	})
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req, _ := http.NewRequest(http.MethodOptions, "/api/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, "/api/metrics", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusTeapot, w.Code)
}
