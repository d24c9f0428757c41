package tracker

import (
	"context"
	"net/http"

	apiutils "github.com/LambdaTest/jira-reporter/pkg/api/utils"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// fieldValidationRequest is the body of the field probe.
type fieldValidationRequest struct {
	Job    string               `json:"job" binding:"required"`
	Config *core.JobConfigInput `json:"config" binding:"required"`
}

// HandleValidate checks the tracker credentials
func HandleValidate(validationService core.TrackerValidationService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		info, err := validationService.ValidateConnection(ctx)
		if err != nil {
			apiutils.TrackerErrResponse(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

// HandleFindProject validates a project key
func HandleFindProject(validationService core.TrackerValidationService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		project, err := validationService.ValidateProject(ctx, c.Param("projectKey"))
		if err != nil {
			apiutils.TrackerErrResponse(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// HandleListIssueTypes lists the issue types of a project
func HandleListIssueTypes(validationService core.TrackerValidationService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		choices, err := validationService.ListIssueTypes(ctx, c.Param("projectKey"))
		if err != nil {
			apiutils.TrackerErrResponse(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, choices)
	}
}

// HandleValidateFields probes field templates by creating and deleting a ticket
func HandleValidateFields(validationService core.TrackerValidationService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := new(fieldValidationRequest)
		if err := c.ShouldBindJSON(req); err != nil {
			logger.Errorf("error while binding json %v", err)
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		result, err := validationService.ValidateFields(ctx, req.Job, req.Config)
		if err != nil {
			apiutils.TrackerErrResponse(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleListStatuses lists the workflow statuses and their categories
func HandleListStatuses(tracker core.IssueTracker, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		statuses, err := tracker.GetStatuses(ctx)
		if err != nil {
			apiutils.TrackerErrResponse(c, err, logger)
			return
		}
		c.JSON(http.StatusOK, statuses)
	}
}
