package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	grpcapi "github.com/adamanr/staff_portal/internal/api/grpc"
	api "github.com/adamanr/staff_portal/internal/api/http"
	"github.com/adamanr/staff_portal/internal/config"
	"github.com/adamanr/staff_portal/internal/controllers"
	"github.com/adamanr/staff_portal/internal/database"
	logging "github.com/adamanr/staff_portal/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, nil))

	configPath := config.DefaultPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.GetConfig(configPath, bootstrap)
	if err != nil {
		log.Fatal("Failed to load config:", err)
		return
	}

	logger, err := logging.SetupLogger(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to setup logger:", err)
		return
	}
	slog.SetDefault(logger)

	rdb, redisErr := database.NewRedisConn(ctx, cfg, logger)
	if redisErr != nil {
		log.Fatal("Failed to connect to Redis:", redisErr)
		return
	}
	defer rdb.Close()

	db, dbErr := database.NewConnect(ctx, cfg, logger)
	if dbErr != nil {
		logger.Error("Failed to connect to database", slog.Any("error", dbErr))
		return
	}
	defer db.Close()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	prometheus.MustRegister(httpRequestsTotal)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(logging.Middleware(logger))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(ww.Status())).Inc()
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	deps := &controllers.Dependens{
		DB:     db,
		Redis:  rdb,
		Logger: logger,
		Config: cfg,
	}

	server := api.NewServer(deps, prometheus.DefaultRegisterer)
	server.Routes(r)

	health := grpcapi.NewServer(logger, map[string]grpcapi.Probe{
		"postgres": db.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	health.Refresh(ctx)

	if cfg.Server.GRPCHost != "" {
		lis, lisErr := net.Listen("tcp", cfg.Server.GRPCHost)
		if lisErr != nil {
			logger.Error("Failed to listen for gRPC", slog.Any("error", lisErr))
			return
		}

		go func() {
			if serveErr := health.Serve(lis); serveErr != nil {
				logger.Error("gRPC server stopped", slog.Any("error", serveErr))
			}
		}()
		defer health.GracefulStop()
	}

	s := &http.Server{
		Handler:           r,
		Addr:              cfg.Server.Host,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if shutdownErr := s.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("Error shutting down server", slog.Any("error", shutdownErr))
		}
	}()

	logger.Info("Server is starting", slog.String("address", cfg.Server.Host))
	if err = s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server stopped", slog.Any("error", err))
	}
}
