package issuebuilder

import (
	"regexp"
	"strconv"

	"github.com/LambdaTest/jira-reporter/pkg/core"
)

// Templates used when a job defines no summary or description template.
const (
	DefaultSummary     = "${TEST_FULL_NAME} : ${TEST_ERROR_DETAILS}"
	DefaultDescription = "${BUILD_URL}${CRLF}${TEST_STACK_TRACE}"
)

// Placeholder names.
const (
	VarTestFullName     = "TEST_FULL_NAME"
	VarTestName         = "TEST_NAME"
	VarTestClassName    = "TEST_CLASS_NAME"
	VarTestPackageName  = "TEST_PACKAGE_NAME"
	VarTestErrorDetails = "TEST_ERROR_DETAILS"
	VarTestStackTrace   = "TEST_STACK_TRACE"
	VarBuildURL         = "BUILD_URL"
	VarBuildNumber      = "BUILD_NUMBER"
	VarJobName          = "JOB_NAME"
	VarCRLF             = "CRLF"
	VarDefaultSummary   = "DEFAULT_SUMMARY"
	VarDefaultDesc      = "DEFAULT_DESCRIPTION"
)

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Vars holds placeholder values for one test of one build.
type Vars map[string]string

// NewVars builds the placeholders of a test. Build environment variables are
// available too but never shadow the test placeholders.
func NewVars(build *core.BuildResults, test *core.TestCaseResult) Vars {
	vars := make(Vars, len(build.Env)+10)
	for k, v := range build.Env {
		vars[k] = v
	}
	vars[VarTestFullName] = test.FullName()
	vars[VarTestName] = test.Name
	vars[VarTestClassName] = test.ClassName
	vars[VarTestPackageName] = test.PackageName
	vars[VarTestErrorDetails] = test.ErrorDetails
	vars[VarTestStackTrace] = test.StackTrace
	vars[VarBuildURL] = build.BuildURL
	vars[VarBuildNumber] = strconv.FormatInt(build.BuildNumber, 10)
	vars[VarJobName] = build.Job
	vars[VarCRLF] = "\n"
	return vars
}

// Expand substitutes ${NAME} and $NAME placeholders in one pass. The
// default templates are expanded in place and unknown placeholders are left untouched.
func Expand(template string, vars Vars) string {
	return expand(template, vars, true)
}

func expand(template string, vars Vars, withDefaults bool) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		name := groups[1]
		if name == "" {
			name = groups[2]
		}
		if withDefaults {
			switch name {
			case VarDefaultSummary:
				return expand(DefaultSummary, vars, false)
			case VarDefaultDesc:
				return expand(DefaultDescription, vars, false)
			}
		}
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}
