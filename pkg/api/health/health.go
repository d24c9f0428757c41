package health

import (
	"context"
	"net/http"

	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/gin-gonic/gin"
)

// Handler for health API
func Handler(signalCtx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		// fail the readiness probe once shutdown started so no new builds are routed here
		case <-signalCtx.Done():
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting down", "version": constants.BinaryVersion})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ok", "version": constants.BinaryVersion})
		}
	}
}
