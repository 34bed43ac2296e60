package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tvanh/huiledger/internal/api"
	"github.com/tvanh/huiledger/internal/auth"
	"github.com/tvanh/huiledger/internal/config"
	"github.com/tvanh/huiledger/internal/middleware"
	"github.com/tvanh/huiledger/internal/service"
	"github.com/tvanh/huiledger/internal/storage"
	"github.com/tvanh/huiledger/internal/storage/memory"
	"github.com/tvanh/huiledger/internal/storage/sqlite"
	"github.com/tvanh/huiledger/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	store := openStore(cfg)
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	authSvc := service.NewAuthService(authenticator, jwtManager)
	groupSvc := service.NewGroupService(store)
	periodSvc := service.NewPeriodService(store)
	paymentSvc := service.NewPaymentService(store)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogging(), middleware.Metrics())

	handler := api.NewHandler(authSvc, groupSvc, periodSvc, paymentSvc)
	api.SetupRoutes(router, handler, jwtManager)

	// h2c allows HTTP/2 clients without TLS termination in front.
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	addr := cfg.Addr()
	slog.Info("Server starting", "address", addr, "backend", cfg.Storage.Backend)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// openStore picks the persistence backend. A SQLite open failure degrades
// to the in-memory backend so the server still comes up.
func openStore(cfg *config.Config) storage.Store {
	if cfg.Storage.Backend == "memory" {
		slog.Info("Using in-memory storage")
		return memory.New()
	}

	store, err := sqlite.New(cfg.Storage.SQLitePath)
	if errors.Is(err, storage.ErrBackendUnavailable) {
		slog.Warn("SQLite backend unavailable, falling back to memory", "error", err, "path", cfg.Storage.SQLitePath)
		return memory.New()
	}
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	slog.Info("Storage initialized", "database", cfg.Storage.SQLitePath)
	return store
}
