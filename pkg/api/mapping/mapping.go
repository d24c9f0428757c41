package mapping

import (
	"context"
	"net/http"
	"strings"

	apiutils "github.com/LambdaTest/jira-reporter/pkg/api/utils"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/gin-gonic/gin"
)

// HandleFind returns the ticket mapped to a test of a job. The test identity is the
// remainder of the path, so identities containing slashes need no escaping.
func HandleFind(issueStore core.TestIssueStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := apiutils.JobParam(c)
		if !ok {
			return
		}
		testID := core.TestIdentity(strings.TrimPrefix(c.Param("test"), "/"))
		if testID == "" {
			c.JSON(http.StatusBadRequest, errs.MissingInPathErr("test"))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		key, err := issueStore.GetTestIssueKey(ctx, job, testID)
		if err != nil {
			logger.Errorf("error while finding issue of test %s in job %s, %v", testID, job, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		if key == core.NoIssue {
			c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Issue", "test"))
			return
		}
		c.JSON(http.StatusOK, &core.MappingEntry{Job: job, TestID: testID, IssueKey: key})
	}
}
