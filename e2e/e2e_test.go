package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	checkerCfg "github.com/iulianpascalau/dogstatsd-checker/services/checker/config"
	checkerFactory "github.com/iulianpascalau/dogstatsd-checker/services/checker/factory"
	appCfg "github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/config"
	appFactory "github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/require"
)

var log = logger.GetOrCreate("e2e-test")

func getFreeUDPPort(t *testing.T) int {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())

	return port
}

func getJSON(t *testing.T, url string, response interface{}) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	err = json.NewDecoder(resp.Body).Decode(response)
	require.NoError(t, err)

	return resp.StatusCode
}

func TestE2EFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("this is not a short test")
	}

	log.Info("======== 1. Reserve the DogStatsD port")
	statsdPort := getFreeUDPPort(t)

	log.Info("======== 2. Start the sample application via componentsHandler")
	appConfig := appCfg.Config{
		ListenAddress:              "127.0.0.1:0",
		WorkerID:                   1,
		PushIntervalInMilliseconds: 300,
		StatsD: appCfg.StatsDConfig{
			Address: fmt.Sprintf("127.0.0.1:%d", statsdPort),
			Prefix:  "myapp",
		},
	}
	appHandler, err := appFactory.NewComponentsHandler(appConfig)
	require.NoError(t, err)

	appHandler.Start()
	defer appHandler.Close()

	log.Info("======== 3. Create the checker via componentsHandler")
	checkerConfig := checkerCfg.DefaultConfig()
	checkerConfig.Listener.Host = "127.0.0.1"
	checkerConfig.Listener.Port = statsdPort
	checkerConfig.Listener.PollTimeoutInMilliseconds = 50
	checkerConfig.Harness.AwaitIntervalInMilliseconds = 10
	checkerConfig.Harness.AwaitTimeoutInMilliseconds = 3000
	checkerConfig.Harness.PrimaryCounter = "myapp.worker.requests"
	checkerConfig.Harness.ExactIncrementCounters = []string{"myapp.worker.requests"}
	checkerConfig.Harness.MonotonicCounters = []string{"myapp.worker.tx"}
	checkerConfig.Harness.BoundedGauges = []checkerCfg.BoundedGaugeConfig{
		{
			Name: "myapp.worker.avg_response_time",
			Min:  0,
			Max:  1000,
		},
	}
	checkerConfig.Probe.URL = "http://" + appHandler.GetServer().Address() + "/"
	checkerConfig.API.ListenAddress = "127.0.0.1:0"

	checkerHandler, err := checkerFactory.NewComponentsHandler(checkerConfig)
	require.NoError(t, err)
	defer checkerHandler.Close()

	log.Info("======== 4. Run the validation rounds")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exitCode, err := checkerHandler.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, checkerFactory.ExitCodeSuccess, exitCode)

	log.Info("======== 5. Verify the report through the diagnostics API")
	apiURL := "http://" + checkerHandler.GetServer().Address()

	var report struct {
		NumRounds     int      `json:"numRounds"`
		Successes     int      `json:"successes"`
		Failures      int      `json:"failures"`
		FailedMetrics []string `json:"failedMetrics"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, apiURL+"/api/report", &report))
	require.Equal(t, 4, report.NumRounds)
	require.Equal(t, 9, report.Successes)
	require.Zero(t, report.Failures)
	require.Empty(t, report.FailedMetrics)

	log.Info("======== 6. Verify the primary counter as seen by the listener")
	var record struct {
		Name       string   `json:"name"`
		Value      string   `json:"value"`
		MetricType string   `json:"metricType"`
		Tags       []string `json:"tags"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, apiURL+"/api/metrics/myapp.worker.requests", &record))
	require.Equal(t, "myapp.worker.requests", record.Name)
	require.Equal(t, "4", record.Value)
	require.Equal(t, "c", record.MetricType)
	require.Equal(t, []string{"worker:1"}, record.Tags)

	var stats struct {
		DatagramsReceived uint64 `json:"datagramsReceived"`
		ParseFailures     uint64 `json:"parseFailures"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, apiURL+"/api/stats", &stats))
	require.NotZero(t, stats.DatagramsReceived)
	require.Zero(t, stats.ParseFailures)
}
