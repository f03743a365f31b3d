package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/production-records/internal/adapter/auth"
	"github.com/rl1809/production-records/internal/adapter/handler"
	"github.com/rl1809/production-records/internal/adapter/storage"
	"github.com/rl1809/production-records/internal/core/service"
	"github.com/rl1809/production-records/internal/metrics"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Initialize store
	connectCtx, connectCancel := context.WithTimeout(ctx, connectTimeout)
	repo, err := storage.Open(connectCtx, cfg.Store, logger)
	connectCancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
		logger.Info("store closed")
	}()

	// Initialize services
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	issuer := auth.NewJWTIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(issuer)
	recordService := service.NewRecordService(repo, cfg.Store.Timeout)

	// Initialize gRPC server
	var grpcServer *grpc.Server
	if cfg.GRPC.Addr != "" {
		grpcHandler := handler.NewGRPCHandler(recordService, authService, m, logger)
		grpcServer = grpcHandler.NewServer()

		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			return err
		}

		go func() {
			logger.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(recordService, authService, m, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpHandler.Routes(cfg.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	case runErr = <-serveErr:
		logger.Error("HTTP server error", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	if grpcServer != nil {
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
	}

	return runErr
}
