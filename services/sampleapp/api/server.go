package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	shutdownTimeout = 5 * time.Second
	helloResponse   = "Hello World"
)

var log = logger.GetOrCreate("api")

// WorkerMetricNames holds the names of the metrics updated on every served request
type WorkerMetricNames struct {
	Requests        string
	DeltaRequests   string
	AvgResponseTime string
	Tx              string
}

// NewWorkerMetricNames returns the metric names of the provided worker
func NewWorkerMetricNames(workerID int) WorkerMetricNames {
	return WorkerMetricNames{
		Requests:        fmt.Sprintf("worker.%d.requests", workerID),
		DeltaRequests:   fmt.Sprintf("worker.%d.delta_requests", workerID),
		AvgResponseTime: fmt.Sprintf("worker.%d.avg_response_time", workerID),
		Tx:              fmt.Sprintf("worker.%d.tx", workerID),
	}
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress string
	Recorder      MetricsRecorder
	Names         WorkerMetricNames
}

type server struct {
	router     *gin.Engine
	httpServer *http.Server
	recorder   MetricsRecorder
	names      WorkerMetricNames
	listenAddr string
	wg         sync.WaitGroup

	mutTimings    sync.Mutex
	numRequests   int64
	totalDuration time.Duration
}

// NewServer initializes the Gin engine serving the application endpoint
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Recorder) {
		return nil, errors.New("metrics recorder is required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:     router,
		recorder:   args.Recorder,
		names:      args.Names,
		listenAddr: args.ListenAddress,
	}

	s.router.GET("/", s.handleHello)

	return s, nil
}

// Start listens and serves connections
func (s *server) Start() {
	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: s.router,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting application HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

func (s *server) handleHello(c *gin.Context) {
	start := time.Now()
	c.String(http.StatusOK, helloResponse)

	s.recordRequest(time.Since(start), len(helloResponse))
}

func (s *server) recordRequest(duration time.Duration, numBytes int) {
	s.mutTimings.Lock()
	s.numRequests++
	s.totalDuration += duration
	avgResponseTime := s.totalDuration.Milliseconds() / s.numRequests
	s.mutTimings.Unlock()

	s.logIfError(s.recorder.Inc(s.names.Requests))
	s.logIfError(s.recorder.Inc(s.names.DeltaRequests))
	s.logIfError(s.recorder.Add(s.names.Tx, int64(numBytes)))
	s.logIfError(s.recorder.Set(s.names.AvgResponseTime, avgResponseTime))
}

func (s *server) logIfError(err error) {
	if err != nil {
		log.Warn("can not record request metric", "error", err)
	}
}
