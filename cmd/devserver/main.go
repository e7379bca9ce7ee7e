// Package main runs the in-memory development API server with graceful
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nosa-terra/comparsa-client/config"
	"github.com/nosa-terra/comparsa-client/internal/server"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	srv, err := server.New(server.Config{
		JWTSecret:          cfg.DevServer.JWTSecret,
		TokenTTL:           time.Duration(cfg.DevServer.TokenTTLHours) * time.Hour,
		CORSAllowedOrigins: cfg.DevServer.CORSAllowedOrigins,
		AdminEmail:         cfg.DevServer.AdminEmail,
		AdminPassword:      cfg.DevServer.AdminPassword,
		AdminName:          cfg.DevServer.AdminName,
	}, logger)
	if err != nil {
		logger.Fatal("server", zap.Error(err))
	}

	httpSrv := &http.Server{
		Addr:         ":" + cfg.DevServer.Port,
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("dev server listening", zap.String("port", cfg.DevServer.Port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
