package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"marketplace-console/internal/bootstrap"
	"marketplace-console/internal/core/server"
	"marketplace-console/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	_, _ = maxprocs.Set()

	d, cleanup := bootstrap.Build("")
	defer cleanup()

	if d.Cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewOwnerEngine(d)
	h := d.Cfg.App.Owner
	srv := server.BuildServer(
		server.Addr(h.Host, h.Port), engine,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	go func() {
		d.Log.Info("owner console listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			d.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		d.Log.Error("shutdown", zap.Error(err))
	}
	d.Log.Info("owner console stopped")
}
