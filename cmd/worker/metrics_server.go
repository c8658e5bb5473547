package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weekly-ai-news/internal/pkg/config"
	"weekly-ai-news/internal/usecase/notify"
)

// ChannelHealthResponse is the /health/channels body.
type ChannelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// newMetricsMux serves Prometheus metrics and the announcement channel health.
func newMetricsMux(notifyService notify.Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/health/channels", channelHealthHandler(notifyService))
	return mux
}

// startMetricsServer listens on METRICS_PORT until ctx ends, then shuts down
// within 5 seconds.
func startMetricsServer(ctx context.Context, logger *slog.Logger, notifyService notify.Service) *http.Server {
	port := getMetricsPort()
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      newMetricsMux(notifyService),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
			return
		}
		logger.Info("metrics server stopped")
	}()

	return server
}

func getMetricsPort() int {
	result := config.LoadEnvInt("METRICS_PORT", 9090, config.IntRange(1, 65535))
	result.LogWarnings("metrics_server")
	return result.Value.(int)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// channelHealthHandler answers 503 while an enabled channel's breaker is open.
func channelHealthHandler(notifyService notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if notifyService == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "notification service not initialized",
			})
			return
		}

		resp := ChannelHealthResponse{Healthy: true, Channels: notifyService.GetChannelHealth()}
		for _, ch := range resp.Channels {
			if ch.Enabled && ch.CircuitBreakerOpen {
				resp.Healthy = false
			}
		}

		status := http.StatusOK
		if !resp.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
