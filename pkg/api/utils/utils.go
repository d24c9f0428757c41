package utils

import (
	"errors"
	"net/http"

	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// TrackerErrResponse sets proper api err response for a tracker failure.
func TrackerErrResponse(c *gin.Context, err error, logger lumber.Logger) {
	if errors.Is(err, errs.ErrMissingProjectKey) {
		c.JSON(http.StatusBadRequest, err)
		return
	}
	var remote *errs.RemoteError
	if errors.As(err, &remote) {
		if remote.Unavailable() {
			logger.Errorf("tracker unavailable: %v", err)
			c.JSON(http.StatusBadGateway, errs.ErrRemoteUnavailable)
			return
		}
		status := http.StatusBadRequest
		if remote.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"message": errs.ErrRemoteRejected.Error(), "errors": remote.Messages})
		return
	}
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, errs.ErrNotFound)
		return
	}
	logger.Errorf("tracker request failed: %v", err)
	c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
}

// JobParam returns the job path parameter, writing a 400 when it is missing.
func JobParam(c *gin.Context) (string, bool) {
	job := c.Param("job")
	if job == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs.MissingInPathErr("job"))
		return "", false
	}
	return job, true
}
