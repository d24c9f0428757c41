package build

import (
	"bytes"
	"net/http"

	apiutils "github.com/LambdaTest/jira-reporter/pkg/api/utils"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/gin-gonic/gin"
)

const textFormat = "text"

// HandleCreate applies raise and resolve actions to the submitted build results and
// returns the report, as json or as build log lines with ?format=text.
func HandleCreate(processor core.BuildProcessor, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := apiutils.JobParam(c)
		if !ok {
			return
		}
		build := new(core.BuildResults)
		if err := c.ShouldBindJSON(build); err != nil {
			logger.Errorf("error while binding json %v", err)
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		build.Job = job

		report := processor.Process(c.Request.Context(), build)
		if c.Query("format") != textFormat {
			c.JSON(http.StatusOK, report)
			return
		}
		var buf bytes.Buffer
		if _, err := report.WriteTo(&buf); err != nil {
			logger.Errorf("failed to render report %s, %v", report.ID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, buf.Bytes())
	}
}
