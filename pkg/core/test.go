package core

import "strings"

// TestIdentity is the stable identity of a test case within a job: package/class/method.
type TestIdentity string

// NewTestIdentity joins the parts of a test case into its identity.
func NewTestIdentity(pkg, class, method string) TestIdentity {
	return TestIdentity(strings.Join([]string{pkg, class, method}, "/"))
}

// TestStatus represents the outcome of a single test case.
type TestStatus string

// TestStatus values
const (
	TestPassed  TestStatus = "passed"
	TestFailed  TestStatus = "failed"
	TestSkipped TestStatus = "skipped"
)

// TestCaseResult is the result of one test case in one build.
type TestCaseResult struct {
	ID             TestIdentity `json:"id"`
	PackageName    string       `json:"package_name"`
	ClassName      string       `json:"class_name"`
	Name           string       `json:"name"`
	DisplayName    string       `json:"display_name"`
	Status         TestStatus   `json:"status" binding:"required,oneof=passed failed skipped"`
	PreviousStatus TestStatus   `json:"previous_status,omitempty"`
	ErrorDetails   string       `json:"error_details,omitempty"`
	StackTrace     string       `json:"stack_trace,omitempty"`
	Duration       float64      `json:"duration,omitempty"`
}

// Identity returns the explicit id or derives it from package, class and name.
func (t *TestCaseResult) Identity() TestIdentity {
	if t.ID != "" {
		return t.ID
	}
	return NewTestIdentity(t.PackageName, t.ClassName, t.Name)
}

// FullName is package.class.method as shown in ticket summaries.
func (t *TestCaseResult) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.PackageName, t.ClassName, t.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Title is the display name, or the full name when no display name is set.
func (t *TestCaseResult) Title() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.FullName()
}

// IsFailed reports whether the test failed in this build.
func (t *TestCaseResult) IsFailed() bool {
	return t.Status == TestFailed
}

// IsFixed reports whether the test passes now after failing in the previous build.
func (t *TestCaseResult) IsFixed() bool {
	return t.Status == TestPassed && t.PreviousStatus == TestFailed
}

// ClassResult groups the cases of one test class.
type ClassResult struct {
	Name  string            `json:"name"`
	Cases []*TestCaseResult `json:"cases"`
}

// PackageResult groups the classes of one package.
type PackageResult struct {
	Name    string         `json:"name"`
	Classes []*ClassResult `json:"classes"`
}

// BuildResults is the payload submitted once all tests of a build completed.
type BuildResults struct {
	// Job is the job that ran the tests.
	Job string `json:"job"`
	// ParentJob is set for matrix children; its configuration applies.
	ParentJob   string            `json:"parent_job,omitempty"`
	BuildNumber int64             `json:"build_number"`
	BuildURL    string            `json:"build_url"`
	Env         map[string]string `json:"env,omitempty"`
	Results     []*TestCaseResult `json:"results,omitempty" binding:"omitempty,dive"`
	Packages    []*PackageResult  `json:"packages,omitempty"`
}

// ConfigJob is the job whose configuration and mapping table apply to the build.
func (b *BuildResults) ConfigJob() string {
	if b.ParentJob != "" {
		return b.ParentJob
	}
	return b.Job
}

// Flatten returns the flat results followed by the tree results in package, class, case order.
// Package and class names of tree results are filled in from their parents when missing.
func (b *BuildResults) Flatten() []*TestCaseResult {
	out := make([]*TestCaseResult, 0, len(b.Results))
	for _, r := range b.Results {
		if r != nil {
			out = append(out, r)
		}
	}
	for _, pkg := range b.Packages {
		if pkg == nil {
			continue
		}
		for _, class := range pkg.Classes {
			if class == nil {
				continue
			}
			for _, c := range class.Cases {
				if c == nil {
					continue
				}
				if c.PackageName == "" {
					c.PackageName = pkg.Name
				}
				if c.ClassName == "" {
					c.ClassName = class.Name
				}
				out = append(out, c)
			}
		}
	}
	return out
}
