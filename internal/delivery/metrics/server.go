package metrics_server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"editor-media-sync/internal/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsServer struct {
	server  *http.Server
	address string
	port    int
	log     *logger.Logger
}

func NewMetricsServer(address string, port int, log *logger.Logger) *MetricsServer {
	return &MetricsServer{
		address: address,
		port:    port,
		log:     log,
	}
}

func (s *MetricsServer) Run() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.Info("Starting metrics server", slog.Int("port", s.port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server error: %w", err)
	}
	return nil
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
