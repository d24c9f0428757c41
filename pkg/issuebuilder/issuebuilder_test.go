package issuebuilder

import (
	"strings"
	"testing"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVars() Vars {
	build := &core.BuildResults{
		Job:         "nightly",
		BuildNumber: 42,
		BuildURL:    "https://ci.example.com/job/nightly/42/",
		Env:         map[string]string{"BRANCH": "main", "TEST_NAME": "shadowed"},
	}
	test := &core.TestCaseResult{
		PackageName:  "com.acme",
		ClassName:    "LoginTest",
		Name:         "testLogout",
		ErrorDetails: "expected 200\nbut was 500",
		StackTrace:   "at com.acme.LoginTest$Inner.testLogout(LoginTest.java:42)",
	}
	return NewVars(build, test)
}

func TestExpand(t *testing.T) {
	vars := testVars()
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{name: "braced", template: "${TEST_NAME} on ${BRANCH}", want: "testLogout on main"},
		{name: "bare", template: "$JOB_NAME #$BUILD_NUMBER", want: "nightly #42"},
		{name: "unknown kept", template: "${NOPE} and $NOPE", want: "${NOPE} and $NOPE"},
		{name: "lone dollar", template: "costs $ 5", want: "costs $ 5"},
		{name: "default summary", template: "${DEFAULT_SUMMARY}", want: "com.acme.LoginTest.testLogout : expected 200\nbut was 500"},
		{
			name:     "default description",
			template: "${DEFAULT_DESCRIPTION}",
			want:     "https://ci.example.com/job/nightly/42/\nat com.acme.LoginTest$Inner.testLogout(LoginTest.java:42)",
		},
		{name: "values not re-expanded", template: "${TEST_STACK_TRACE}", want: "at com.acme.LoginTest$Inner.testLogout(LoginTest.java:42)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.template, vars))
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	b := New(lumber.NewNopLogger())
	cfg := &core.JobConfig{Job: "nightly", ProjectKey: "PRJ", IssueType: 1}

	req := b.Build(cfg, nil, testVars())
	assert.Equal(t, "PRJ", req.ProjectKey)
	assert.Equal(t, int64(1), req.IssueType)
	assert.Equal(t, "com.acme.LoginTest.testLogout : expected 200 but was 500", req.Summary)
	assert.True(t, strings.HasPrefix(req.Description, "https://ci.example.com/job/nightly/42/\n"))
	assert.Empty(t, req.Fields)
}

func TestBuildTemplates(t *testing.T) {
	b := New(lumber.NewNopLogger())
	cfg := &core.JobConfig{
		Job:        "nightly",
		ProjectKey: "PRJ",
		IssueType:  1,
		FieldTemplates: []core.FieldTemplate{
			{Field: "summary", Value: "[${JOB_NAME}] ${TEST_NAME} failed"},
			{Field: "Severity", Value: "High"},
			{Field: "labels", Value: "auto $BRANCH"},
			{Field: "customfield_2", Kind: core.FieldKindMultiSelect, Value: "a, b,,c"},
			{Field: "assignee", Value: "qa-lead"},
			{Field: "Story Points", Value: "three"},
			{Field: "customfield_9", Kind: core.FieldKindString, Value: "not on screen"},
		},
	}
	schema := &core.CacheEntry{Fields: []*core.FieldSpec{
		{ID: "summary", Name: "Summary", SchemaType: "string"},
		{ID: "customfield_1", Name: "Severity", SchemaType: "option"},
		{ID: "labels", Name: "Labels", SchemaType: "array", Items: "string"},
		{ID: "customfield_2", Name: "Platforms", SchemaType: "array", Items: "option"},
		{ID: "assignee", Name: "Assignee", SchemaType: "user"},
		{ID: "customfield_3", Name: "Story Points", SchemaType: "number"},
	}}

	req := b.Build(cfg, schema, testVars())
	assert.Equal(t, "[nightly] testLogout failed", req.Summary)
	assert.NotEmpty(t, req.Description)
	require.Len(t, req.Fields, 4)
	assert.Equal(t, map[string]string{"value": "High"}, req.Fields["customfield_1"])
	assert.Equal(t, []string{"auto", "main"}, req.Fields["labels"])
	assert.Equal(t, []map[string]string{{"value": "a"}, {"value": "b"}, {"value": "c"}}, req.Fields["customfield_2"])
	assert.Equal(t, map[string]string{"name": "qa-lead"}, req.Fields["assignee"])
	assert.NotContains(t, req.Fields, "customfield_3")
	assert.NotContains(t, req.Fields, "customfield_9")
}

func TestBuildWithoutSchemaUsesDeclaredKinds(t *testing.T) {
	b := New(lumber.NewNopLogger())
	cfg := &core.JobConfig{ProjectKey: "PRJ", IssueType: 1, FieldTemplates: []core.FieldTemplate{
		{Field: "customfield_3", Kind: core.FieldKindNumber, Value: "5"},
		{Field: "customfield_4", Kind: "cascading", Value: "x"},
	}}
	req := b.Build(cfg, &core.CacheEntry{}, testVars())
	assert.Equal(t, 5.0, req.Fields["customfield_3"])
	assert.Equal(t, "x", req.Fields["customfield_4"])
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		spec core.FieldSpec
		want core.FieldKind
	}{
		{core.FieldSpec{SchemaType: "option"}, core.FieldKindSelect},
		{core.FieldSpec{SchemaType: "string", Custom: "com.atlassian.jira.plugin.system.customfieldtypes:radiobuttons"}, core.FieldKindSelect},
		{core.FieldSpec{SchemaType: "string", Custom: "com.atlassian.jira.plugin.system.customfieldtypes:textarea"}, core.FieldKindText},
		{core.FieldSpec{SchemaType: "array", Items: "option"}, core.FieldKindMultiSelect},
		{core.FieldSpec{SchemaType: "array", Items: "string"}, core.FieldKindLabels},
		{core.FieldSpec{SchemaType: "user"}, core.FieldKindUser},
		{core.FieldSpec{SchemaType: "number"}, core.FieldKindNumber},
		{core.FieldSpec{SchemaType: "date"}, core.FieldKindString},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inferKind(&tt.spec), "%+v", tt.spec)
	}
}

func TestCleanSummary(t *testing.T) {
	assert.Equal(t, "a b c", CleanSummary("  a\r\nb\tc "))
	long := strings.Repeat("x", 300)
	assert.Len(t, CleanSummary(long), 255)
}

func TestDuplicateJQL(t *testing.T) {
	jql := DuplicateJQL("PRJ", 10004, `com.acme.LoginTest.testLogout : expected "200" [but] was 500?`)
	assert.Equal(t, `project = "PRJ" AND issuetype = 10004 AND summary ~ "com.acme.LoginTest.testLogout expected 200 but was 500" AND resolution = Unresolved`, jql)
}

func TestCreatedTodayJQL(t *testing.T) {
	assert.Equal(t, `project = "PRJ" AND reporter = "ci\"bot" AND created >= startOfDay()`, CreatedTodayJQL(`ci"bot`, "PRJ"))
}
