package server

import (
	"context"
	"net/http"
	"time"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/api"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/gin-gonic/gin"
)

const readHeaderTimeout = 10 * time.Second

// ListenAndServe serves the router until ctx is cancelled, then shuts the server down
// letting in-flight build submissions finish within the graceful timeout.
func ListenAndServe(ctx context.Context, router *api.Router, cfg *config.Config, logger lumber.Logger) error {
	// set gin to release mode
	gin.SetMode(gin.ReleaseMode)

	logger.Infof("Setting up http handler")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return serve(ctx, srv, cfg.GracefulTimeout, logger)
}

func serve(ctx context.Context, srv *http.Server, gracefulTimeout time.Duration, logger lumber.Logger) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("listen: %#v", err)
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Infof("Caller has requested graceful shutdown. shutting down the server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && err != context.Canceled {
			logger.Errorf("Server Shutdown: error %v", err)
			return err
		}
		return nil
	case err := <-errChan:
		return err
	}
}
