package jobconfig

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/db"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

func TestParse(t *testing.T) {
	logger := lumber.NewNopLogger()
	tests := []struct {
		name          string
		issueType     string
		maxBugs       string
		wantIssueType int64
		wantMaxBugs   null.Int
	}{
		{name: "valid", issueType: "10004", maxBugs: "2", wantIssueType: 10004, wantMaxBugs: null.IntFrom(2)},
		{name: "padded", issueType: " 3 ", maxBugs: " 7 ", wantIssueType: 3, wantMaxBugs: null.IntFrom(7)},
		{name: "malformed issue type", issueType: "bug", maxBugs: "", wantIssueType: constants.DefaultIssueType},
		{name: "non positive", issueType: "-4", maxBugs: "0", wantIssueType: constants.DefaultIssueType},
		{name: "malformed cap", issueType: "", maxBugs: "ten", wantIssueType: constants.DefaultIssueType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Parse("job", &core.JobConfigInput{ProjectKey: " PRJ ", IssueType: tt.issueType, MaxBugsPerDay: tt.maxBugs}, logger)
			assert.Equal(t, "PRJ", cfg.ProjectKey)
			assert.Equal(t, tt.wantIssueType, cfg.IssueType)
			assert.Equal(t, tt.wantMaxBugs, cfg.MaxBugsPerDay)
		})
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(lumber.NewNopLogger())

	cfg, err := store.GetConfig(ctx, "job")
	require.NoError(t, err)
	assert.Nil(t, cfg)
	key, err := store.GetProjectKey(ctx, "job")
	require.NoError(t, err)
	assert.Empty(t, key)
	raise, err := store.GetAutoRaiseIssue(ctx, "job")
	require.NoError(t, err)
	assert.False(t, raise)
	maxBugs, err := store.GetMaxNoOfBugs(ctx, "job")
	require.NoError(t, err)
	assert.False(t, maxBugs.Valid)

	input := &core.JobConfigInput{
		ProjectKey:            "PRJ",
		IssueType:             "x",
		FieldTemplates:        []core.FieldTemplate{{Field: "labels", Kind: core.FieldKindLabels, Value: "flaky"}},
		AutoRaiseIssue:        true,
		PreventDuplicateIssue: true,
		MaxBugsPerDay:         "5",
	}
	_, err = store.SaveConfig(ctx, "job", input)
	require.NoError(t, err)

	cfg, err = store.GetConfig(ctx, "job")
	require.NoError(t, err)
	assert.Equal(t, "PRJ", cfg.ProjectKey)
	assert.Equal(t, int64(1), cfg.IssueType)
	assert.Equal(t, input.FieldTemplates, cfg.FieldTemplates)

	issueType, _ := store.GetIssueType(ctx, "job")
	assert.Equal(t, int64(1), issueType)
	resolve, _ := store.GetAutoResolveIssue(ctx, "job")
	assert.False(t, resolve)
	dup, _ := store.GetPreventDuplicateIssue(ctx, "job")
	assert.True(t, dup)
	maxBugs, _ = store.GetMaxNoOfBugs(ctx, "job")
	assert.Equal(t, null.IntFrom(5), maxBugs)

	cfg.FieldTemplates[0].Value = "mutated"
	again, _ := store.GetConfig(ctx, "job")
	assert.Equal(t, "flaky", again.FieldTemplates[0].Value)

	_, err = store.SaveConfig(ctx, "job", &core.JobConfigInput{ProjectKey: "NEW", IssueType: "2"})
	require.NoError(t, err)
	key, _ = store.GetProjectKey(ctx, "job")
	assert.Equal(t, "NEW", key)
	maxBugs, _ = store.GetMaxNoOfBugs(ctx, "job")
	assert.False(t, maxBugs.Valid)
}

func newMockStore(t *testing.T) (core.JobConfigStore, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	logger := lumber.NewNopLogger()
	return New(db.New(sqlx.NewDb(conn, "mysql"), logger), logger), mock
}

func TestMySQLSaveConfig(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO job_config").
		WithArgs("job", "PRJ", int64(7), []byte(`[{"field":"summary","value":"${TEST_NAME}"}]`),
			true, false, false, null.IntFrom(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cfg, err := store.SaveConfig(context.Background(), "job", &core.JobConfigInput{
		ProjectKey:     "PRJ",
		IssueType:      "7",
		FieldTemplates: []core.FieldTemplate{{Field: "summary", Value: "${TEST_NAME}"}},
		AutoRaiseIssue: true,
		MaxBugsPerDay:  "3",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.IssueType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetConfig(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	columns := []string{"job_id", "project_key", "issue_type", "field_templates", "auto_raise_issue",
		"auto_resolve_issue", "prevent_duplicate_issue", "max_bugs_per_day", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT (.+) FROM job_config").WithArgs("job").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("job", "PRJ", 7, []byte(`[{"field":"labels","kind":"labels","value":"a b"}]`),
			true, true, false, nil, now, now))
	mock.ExpectQuery("SELECT (.+) FROM job_config").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	cfg, err := store.GetConfig(context.Background(), "job")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "PRJ", cfg.ProjectKey)
	assert.Equal(t, int64(7), cfg.IssueType)
	assert.True(t, cfg.AutoResolveIssue)
	assert.False(t, cfg.MaxBugsPerDay.Valid)
	assert.Equal(t, []core.FieldTemplate{{Field: "labels", Kind: core.FieldKindLabels, Value: "a b"}}, cfg.FieldTemplates)

	key, err := store.GetProjectKey(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
