package issuebuilder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/utils"
)

// Builder turns a job's field templates into concrete create requests.
type Builder struct {
	logger lumber.Logger
}

// New returns a request builder.
func New(logger lumber.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build resolves every template of cfg against vars. schema may be nil, in which case
// fields are sent by the configured id with their declared kind.
func (b *Builder) Build(cfg *core.JobConfig, schema *core.CacheEntry, vars Vars) *core.IssueRequest {
	req := &core.IssueRequest{
		ProjectKey: cfg.ProjectKey,
		IssueType:  cfg.IssueType,
		Fields:     make(map[string]interface{}),
	}
	for _, t := range withDefaults(cfg.FieldTemplates) {
		value := Expand(t.Value, vars)
		switch t.Field {
		case core.FieldSummary:
			req.Summary = CleanSummary(value)
			continue
		case core.FieldDescription:
			req.Description = value
			continue
		}

		id, kind := t.Field, t.Kind
		if schema != nil && len(schema.Fields) > 0 {
			spec, ok := schema.Field(t.Field)
			if !ok {
				b.logger.Warnf("field %s is not on the create screen of %s/%d, skipping", t.Field, cfg.ProjectKey, cfg.IssueType)
				continue
			}
			id = spec.ID
			if kind == core.FieldKindInfer {
				kind = inferKind(spec)
			}
		}
		shaped, err := shape(kind, value)
		if err != nil {
			b.logger.Warnf("skipping field %s of job %s: %v", t.Field, cfg.Job, err)
			continue
		}
		req.Fields[id] = shaped
	}
	return req
}

// withDefaults prepends the default summary and description templates when missing.
func withDefaults(templates []core.FieldTemplate) []core.FieldTemplate {
	var hasSummary, hasDescription bool
	for _, t := range templates {
		switch t.Field {
		case core.FieldSummary:
			hasSummary = true
		case core.FieldDescription:
			hasDescription = true
		}
	}
	out := make([]core.FieldTemplate, 0, len(templates)+2)
	if !hasSummary {
		out = append(out, core.FieldTemplate{Field: core.FieldSummary, Value: "${" + VarDefaultSummary + "}"})
	}
	if !hasDescription {
		out = append(out, core.FieldTemplate{Field: core.FieldDescription, Value: "${" + VarDefaultDesc + "}"})
	}
	return append(out, templates...)
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanSummary folds the summary onto one line and cuts it to the length Jira accepts.
func CleanSummary(s string) string {
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	return utils.Truncate(s, constants.MaxSummaryLength)
}

// jqlReserved are the characters with meaning inside a JQL text search.
var jqlReserved = strings.NewReplacer(
	`"`, " ", `\`, " ", `+`, " ", `-`, " ", `&`, " ", `|`, " ", `!`, " ", `(`, " ", `)`, " ",
	`{`, " ", `}`, " ", `[`, " ", `]`, " ", `^`, " ", `~`, " ", `*`, " ", `?`, " ", `:`, " ",
	`'`, " ", `/`, " ",
)

// DuplicateJQL finds unresolved tickets of the same project and issue type whose summary
// matches the given one.
func DuplicateJQL(projectKey string, issueType int64, summary string) string {
	text := strings.TrimSpace(whitespace.ReplaceAllString(jqlReserved.Replace(summary), " "))
	return fmt.Sprintf(`project = "%s" AND issuetype = %d AND summary ~ "%s" AND resolution = Unresolved`,
		quote(projectKey), issueType, text)
}

// CreatedTodayJQL counts the tickets a reporter created in a project since midnight.
func CreatedTodayJQL(reporter, projectKey string) string {
	return fmt.Sprintf(`project = "%s" AND reporter = "%s" AND created >= startOfDay()`, quote(projectKey), quote(reporter))
}

func quote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
