package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/twweather/taiwan-weather-mcp/internal/config"
	"github.com/twweather/taiwan-weather-mcp/internal/cwa"
	"github.com/twweather/taiwan-weather-mcp/internal/httpapi"
	"github.com/twweather/taiwan-weather-mcp/internal/observability"
	"github.com/twweather/taiwan-weather-mcp/internal/tools"
)

func main() {
	var transport string
	flag.StringVar(&transport, "t", "stdio", "transport type (stdio or sse)")
	flag.StringVar(&transport, "transport", "stdio", "transport type (stdio or sse)")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	client, err := cwa.New(cfg.APIKey, cfg.APIBaseURL, cfg.APITimeout, logger)
	if err != nil {
		logger.Fatal("cwa client", zap.Error(err))
	}

	handler := tools.New(client, cfg, logger)
	mcpServer := handler.NewMCPServer()

	switch transport {
	case "sse":
		runSSE(mcpServer, cfg, logger)
	case "stdio":
		logger.Info("serving MCP over stdio")
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Fatal("stdio server", zap.Error(err))
		}
	default:
		logger.Fatal("unknown transport", zap.String("transport", transport))
	}
}

func runSSE(mcpServer *server.MCPServer, cfg *config.Config, logger *zap.Logger) {
	sseServer := server.NewSSEServer(mcpServer)
	router := httpapi.NewRouter(sseServer, logger)

	srv := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No write timeout: /sse holds a long-lived event stream open.
	}

	go func() {
		logger.Info("SSE server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
