package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warungdesk/warungdesk/internal/config"
	"github.com/warungdesk/warungdesk/internal/devserver"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: devserver.New(log)}

	go func() {
		log.WithField("addr", srv.Addr).Info("dev API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("error during shutdown")
	}
	log.Info("server stopped")
}
