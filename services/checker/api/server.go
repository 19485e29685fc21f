package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

var log = logger.GetOrCreate("api")

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	store          MetricsReader
	reports        ReportProvider
	stats          StatsProvider
	listenAddr     string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	Store          MetricsReader
	Reports        ReportProvider
	Stats          StatsProvider
	Gatherer       prometheus.Gatherer
	GeneralHandler func(http.Handler) http.Handler
}

type changesResponse struct {
	Signaled bool                           `json:"signaled"`
	Changed  map[string]common.NumericValue `json:"changed"`
}

// NewServer initializes the Gin engine and mounts the read-only diagnostics routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Store) {
		return nil, errors.New("store is required")
	}
	if check.IfNil(args.Reports) {
		return nil, errors.New("report provider is required")
	}
	if check.IfNil(args.Stats) {
		return nil, errors.New("stats provider is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		store:          args.Store,
		reports:        args.Reports,
		stats:          args.Stats,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes(args.Gatherer)
	return s, nil
}

func (s *server) setupRoutes(gatherer prometheus.Gatherer) {
	api := s.router.Group("/api")
	{
		api.GET("/metrics", s.handleGetMetrics)
		api.GET("/metrics/:name", s.handleGetMetric)
		api.GET("/changes", s.handleGetChanges)
		api.GET("/report", s.handleGetReport)
		api.GET("/stats", s.handleGetStats)
	}

	if gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
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
		log.Info("starting diagnostics HTTP server", "address", s.listenAddr)

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

// --- Handlers ---

func (s *server) handleGetMetrics(c *gin.Context) {
	all := s.store.CurrentAll()

	out := make([]common.MetricRecord, 0, len(all))
	for _, record := range all {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	c.JSON(http.StatusOK, gin.H{"metrics": out})
}

func (s *server) handleGetMetric(c *gin.Context) {
	name := c.Param("name")
	record, found := s.store.CurrentValue(name)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "metric not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *server) handleGetChanges(c *gin.Context) {
	c.JSON(http.StatusOK, changesResponse{
		Signaled: s.store.IsSignaled(),
		Changed:  s.store.SnapshotChanged(),
	})
}

func (s *server) handleGetReport(c *gin.Context) {
	c.JSON(http.StatusOK, s.reports.Report())
}

func (s *server) handleGetStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Stats())
}
