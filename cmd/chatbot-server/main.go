// cmd/chatbot-server/main.go
package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assistant-chatbot/internal/agents"
	"assistant-chatbot/internal/chatbot"
	"assistant-chatbot/internal/common/config"
	"assistant-chatbot/internal/common/database"
	"assistant-chatbot/internal/common/logger"
	"assistant-chatbot/internal/common/observability"
	"assistant-chatbot/internal/models"
	"assistant-chatbot/internal/session"
	"assistant-chatbot/internal/transport/httpapi"
	"assistant-chatbot/pkg/registry"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting chatbot server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Agent registry ---
	agentRegistry, err := registry.LoadRegistry(cfg.Agents.RegistryPath)
	if err != nil {
		zapLog.Fatal("agent registry load failed", zap.Error(err), zap.String("path", cfg.Agents.RegistryPath))
	}
	if err := agentRegistry.Validate(); err != nil {
		zapLog.Fatal("agent registry invalid", zap.Error(err))
	}
	zapLog.Info("agent registry loaded",
		zap.String("version", agentRegistry.Version),
		zap.Int("agents", len(agentRegistry.Agents)),
	)

	// --- Session store ---
	var store models.SessionStore
	var redisClient *database.RedisClient
	switch cfg.Sessions.Backend {
	case "redis":
		redisClient, err = database.NewRedis(cfg.Redis)
		if err != nil {
			zapLog.Fatal("redis connection failed", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		defer redisClient.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx); err != nil {
			cancel()
			zapLog.Fatal("redis unreachable", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		cancel()
		store = session.NewRedisStore(redisClient.GetClient(), cfg.Sessions.SessionTTLDuration())
		zapLog.Info("using redis session store", zap.String("address", cfg.Redis.Address))
	default:
		store = session.NewMemoryStore(cfg.Sessions.SessionTTLDuration())
		zapLog.Info("using in-memory session store")
	}

	sessions := session.NewManager(store, cfg.Chatbot.MaxContextTurns, log)

	invoker := agents.NewHTTPInvoker(agentRegistry, cfg.Agents.AgentTimeoutDuration(), cfg.Agents.MaxRetries, log)

	orchestrator := chatbot.New(cfg.Chatbot, invoker, sessions, obs, log)

	// --- HTTP server ---
	mux := http.NewServeMux()
	handler := httpapi.NewHandler(orchestrator, sessions, log)
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutdown signal received")

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Millisecond
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}

	zapLog.Info("chatbot server stopped")
}
