package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestIdentity(t *testing.T) {
	assert.Equal(t, TestIdentity("com.acme/LoginTest/testLogout"), NewTestIdentity("com.acme", "LoginTest", "testLogout"))

	r := &TestCaseResult{PackageName: "com.acme", ClassName: "LoginTest", Name: "testLogout"}
	assert.Equal(t, NewTestIdentity("com.acme", "LoginTest", "testLogout"), r.Identity())
	assert.Equal(t, "com.acme.LoginTest.testLogout", r.FullName())
	assert.Equal(t, r.FullName(), r.Title())

	r.ID = "explicit"
	assert.Equal(t, TestIdentity("explicit"), r.Identity())
}

func TestIsFixed(t *testing.T) {
	tests := []struct {
		current, previous TestStatus
		want              bool
	}{
		{TestPassed, TestFailed, true},
		{TestPassed, "", false},
		{TestPassed, TestPassed, false},
		{TestFailed, TestFailed, false},
		{TestSkipped, TestFailed, false},
	}
	for _, tt := range tests {
		r := &TestCaseResult{Status: tt.current, PreviousStatus: tt.previous}
		assert.Equal(t, tt.want, r.IsFixed(), "%s after %s", tt.current, tt.previous)
	}
}

func TestFlatten(t *testing.T) {
	b := &BuildResults{
		Job:     "matrix/axis=1",
		Results: []*TestCaseResult{{ID: "flat", Status: TestFailed}, nil},
		Packages: []*PackageResult{{
			Name: "pkg",
			Classes: []*ClassResult{
				{Name: "A", Cases: []*TestCaseResult{{Name: "one"}, {Name: "two"}}},
				{Name: "B", Cases: []*TestCaseResult{{Name: "three", PackageName: "other"}}},
			},
		}},
	}
	got := b.Flatten()
	require.Len(t, got, 4)
	assert.Equal(t, TestIdentity("flat"), got[0].Identity())
	assert.Equal(t, TestIdentity("pkg/A/one"), got[1].Identity())
	assert.Equal(t, TestIdentity("pkg/A/two"), got[2].Identity())
	assert.Equal(t, TestIdentity("other/B/three"), got[3].Identity())

	assert.Equal(t, "matrix/axis=1", b.ConfigJob())
	b.ParentJob = "matrix"
	assert.Equal(t, "matrix", b.ConfigJob())
}

func TestReportWriteTo(t *testing.T) {
	r := &Report{Outcomes: []*Outcome{
		{Action: ActionRaise, Status: OutcomeCreated, DisplayName: "a", IssueKey: "PRJ-1"},
		{Action: ActionResolve, Status: OutcomeNoTransitionFound, DisplayName: "b", IssueKey: "PRJ-2"},
		{Action: ActionRaise, Status: OutcomeFailed, DisplayName: "c", Error: "boom"},
	}}
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "Created issue PRJ-1 for test a\n"+
		"No resolve transition found for issue PRJ-2 of test b\n"+
		"Could not raise issue for test c: boom\n", buf.String())
	assert.Equal(t, 1, r.Count(OutcomeCreated))
}
