package jobconfig

import (
	"strconv"
	"strings"

	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"gopkg.in/guregu/null.v4"
)

// Parse converts UI input into a JobConfig. Malformed numerics never fail the save:
// the issue type falls back to constants.DefaultIssueType and the daily cap to unlimited.
func Parse(job string, input *core.JobConfigInput, logger lumber.Logger) *core.JobConfig {
	templates := make([]core.FieldTemplate, len(input.FieldTemplates))
	copy(templates, input.FieldTemplates)
	return &core.JobConfig{
		Job:                   job,
		ProjectKey:            strings.TrimSpace(input.ProjectKey),
		IssueType:             parseIssueType(job, input.IssueType, logger),
		FieldTemplates:        templates,
		AutoRaiseIssue:        input.AutoRaiseIssue,
		AutoResolveIssue:      input.AutoResolveIssue,
		PreventDuplicateIssue: input.PreventDuplicateIssue,
		MaxBugsPerDay:         parseMaxBugs(job, input.MaxBugsPerDay, logger),
	}
}

func parseIssueType(job, raw string, logger lumber.Logger) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), constants.Base10, constants.BitSize64)
	if err != nil || v <= 0 {
		logger.Warnf("job %s: %v", job, errs.ConfigurationErr("issue type", raw))
		return constants.DefaultIssueType
	}
	return v
}

func parseMaxBugs(job, raw string, logger lumber.Logger) null.Int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return null.Int{}
	}
	v, err := strconv.ParseInt(raw, constants.Base10, constants.BitSize64)
	if err != nil || v <= 0 {
		logger.Warnf("job %s: %v", job, errs.ConfigurationErr("max bugs per day", raw))
		return null.Int{}
	}
	return null.IntFrom(v)
}

func clone(cfg *core.JobConfig) *core.JobConfig {
	out := *cfg
	out.FieldTemplates = make([]core.FieldTemplate, len(cfg.FieldTemplates))
	copy(out.FieldTemplates, cfg.FieldTemplates)
	return &out
}
