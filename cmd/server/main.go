package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/skolklocka/internal/app"
	"github.com/shrimpsizemoose/skolklocka/internal/export"
	"github.com/shrimpsizemoose/skolklocka/internal/handlers"
	"github.com/shrimpsizemoose/skolklocka/internal/protocol"
	"github.com/shrimpsizemoose/skolklocka/internal/server"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error.Fatalf("Failed to load .env: %v", err)
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start: %v", err)
	}
	defer service.Close()

	loc, err := service.Config.Location()
	if err != nil {
		logger.Error.Fatalf("Failed to load timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	census, err := export.NewCensusExporter(service.Config, service.Store)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize census: %v", err)
	}
	census.Start()
	defer census.Stop()

	if addr := service.Config.Metrics.Addr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Addr: addr, Handler: mux}
		go func() {
			logger.Info.Printf("Serving metrics on %s", addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error.Printf("Metrics server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsServer.Shutdown(shutdownCtx)
		}()
	}

	parser := &protocol.Parser{
		Verifier:  service.Auth,
		OpenReads: service.Config.Auth.OpenReads,
	}
	dispatcher := handlers.NewDispatcher(service.Store, func() time.Time {
		return time.Now().In(loc)
	})
	srv := server.New(parser, dispatcher, service.Config.Server.ReadBuffer)

	ln, err := server.Listen(service.Config)
	if err != nil {
		logger.Error.Fatalf("Failed to bind: %v", err)
	}

	logger.Info.Printf("Starting skolklocka server, protocol version %d", protocol.Version)
	if err := srv.Serve(ctx, ln); err != nil {
		logger.Error.Fatalf("Skolklocka server failed: %v", err)
	}
	logger.Info.Println("Skolklocka server stopped")
}
