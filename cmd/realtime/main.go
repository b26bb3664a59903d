package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"blockgen"
	"blockgen/internal/realtime"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger := blockgen.NewLogger()
	cfg := realtime.LoadConfig()

	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	bridge, err := realtime.NewNATSBridge(cfg.NatsURL, cfg.TenantID, hub, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("NATS bridge")
	}
	defer bridge.Close()

	if err := bridge.Subscribe(); err != nil {
		logger.Fatal().Err(err).Msg("NATS subscribe")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, cfg.JWTSecret, w, r)
	})
	server := &http.Server{Addr: cfg.RealtimePort, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.RealtimePort).Msg("Realtime service listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server")
	}
}
