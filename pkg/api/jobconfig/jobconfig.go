package jobconfig

import (
	"context"
	"net/http"

	apiutils "github.com/LambdaTest/jira-reporter/pkg/api/utils"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// HandleFind returns the tracker configuration of a job
func HandleFind(configStore core.JobConfigStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := apiutils.JobParam(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		cfg, err := configStore.GetConfig(ctx, job)
		if err != nil {
			logger.Errorf("error while finding configuration of job %s, %v", job, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		if cfg == nil {
			c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tracker configuration", "job"))
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

// HandleUpdate replaces the tracker configuration of a job
func HandleUpdate(configService core.JobConfigService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := apiutils.JobParam(c)
		if !ok {
			return
		}
		input := new(core.JobConfigInput)
		if err := c.ShouldBindJSON(input); err != nil {
			logger.Errorf("error while binding json %v", err)
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		cfg, err := configService.Save(ctx, job, input)
		if err != nil {
			logger.Errorf("error while saving configuration of job %s, %v", job, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}
