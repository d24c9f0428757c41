package testissue

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/db"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	err := store.AddTestToIssueMapping(ctx, "job", "a", "PRJ-1")
	assert.ErrorIs(t, err, errs.ErrJobNotRegistered)

	require.NoError(t, store.Register(ctx, "job"))
	key, err := store.GetTestIssueKey(ctx, "job", "a")
	require.NoError(t, err)
	assert.Equal(t, core.NoIssue, key)

	require.NoError(t, store.AddTestToIssueMapping(ctx, "job", "a", "PRJ-1"))
	require.NoError(t, store.Register(ctx, "job"))
	key, _ = store.GetTestIssueKey(ctx, "job", "a")
	assert.Equal(t, "PRJ-1", key, "registration must not drop mappings")

	require.NoError(t, store.AddTestToIssueMapping(ctx, "job", "a", "PRJ-2"))
	key, _ = store.GetTestIssueKey(ctx, "job", "a")
	assert.Equal(t, "PRJ-2", key)

	key, _ = store.GetTestIssueKey(ctx, "other", "a")
	assert.Equal(t, core.NoIssue, key)

	keys, err := store.FindIssueKeys(ctx, "job", []core.TestIdentity{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[core.TestIdentity]string{"a": "PRJ-2"}, keys)
}

func TestMemoryStoreConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Register(ctx, "job"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.AddTestToIssueMapping(ctx, "job", "a", "PRJ-1"))
			_, _ = store.GetTestIssueKey(ctx, "job", "a")
		}()
	}
	wg.Wait()
	key, _ := store.GetTestIssueKey(ctx, "job", "a")
	assert.Equal(t, "PRJ-1", key)
}

func newMockStore(t *testing.T) (core.TestIssueStore, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	logger := lumber.NewNopLogger()
	return New(db.New(sqlx.NewDb(conn, "mysql"), logger), logger), mock
}

func TestMySQLStore(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT IGNORE INTO job_registry").WithArgs("job").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT issue_key FROM test_issue_mapping").WithArgs("job", hashTestID("pkg/A/one")).
		WillReturnRows(sqlmock.NewRows([]string{"issue_key"}))
	mock.ExpectExec("INSERT INTO test_issue_mapping").WithArgs("job", hashTestID("pkg/A/one"), "pkg/A/one", "PRJ-9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT issue_key FROM test_issue_mapping").WithArgs("job", hashTestID("pkg/A/one")).
		WillReturnRows(sqlmock.NewRows([]string{"issue_key"}).AddRow("PRJ-9"))
	mock.ExpectExec("INSERT INTO test_issue_mapping").WithArgs("unknown", hashTestID("pkg/A/one"), "pkg/A/one", "PRJ-9").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"})

	require.NoError(t, store.Register(ctx, "job"))
	key, err := store.GetTestIssueKey(ctx, "job", "pkg/A/one")
	require.NoError(t, err)
	assert.Equal(t, core.NoIssue, key)
	require.NoError(t, store.AddTestToIssueMapping(ctx, "job", "pkg/A/one", "PRJ-9"))
	key, err = store.GetTestIssueKey(ctx, "job", "pkg/A/one")
	require.NoError(t, err)
	assert.Equal(t, "PRJ-9", key)
	err = store.AddTestToIssueMapping(ctx, "unknown", "pkg/A/one", "PRJ-9")
	assert.ErrorIs(t, err, errs.ErrJobNotRegistered)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLFindIssueKeys(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT test_id_hash, issue_key FROM test_issue_mapping WHERE job_id = 'job' AND test_id_hash IN \(.*'` +
		hashTestID("a") + `'.*'` + hashTestID("b") + `'.*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"test_id_hash", "issue_key"}).AddRow(hashTestID("a"), "PRJ-1"))

	keys, err := store.FindIssueKeys(context.Background(), "job", []core.TestIdentity{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[core.TestIdentity]string{"a": "PRJ-1"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLLongIdentities(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	prefix := "com.acme/" + strings.Repeat("Parameterized", 50)
	first := core.TestIdentity(prefix + "a")
	second := core.TestIdentity(prefix + "b")
	huge := core.TestIdentity(strings.Repeat("x", 4096))

	require.NotEqual(t, hashTestID(first), hashTestID(second))
	assert.Len(t, hashTestID(huge), 64)

	mock.ExpectExec("INSERT INTO test_issue_mapping").WithArgs("job", hashTestID(first), string(first), "PRJ-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO test_issue_mapping").WithArgs("job", hashTestID(second), string(second), "PRJ-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO test_issue_mapping").WithArgs("job", hashTestID(huge), string(huge), "PRJ-3").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT issue_key FROM test_issue_mapping").WithArgs("job", hashTestID(first)).
		WillReturnRows(sqlmock.NewRows([]string{"issue_key"}).AddRow("PRJ-1"))

	require.NoError(t, store.AddTestToIssueMapping(ctx, "job", first, "PRJ-1"))
	require.NoError(t, store.AddTestToIssueMapping(ctx, "job", second, "PRJ-2"))
	require.NoError(t, store.AddTestToIssueMapping(ctx, "job", huge, "PRJ-3"))
	key, err := store.GetTestIssueKey(ctx, "job", first)
	require.NoError(t, err)
	assert.Equal(t, "PRJ-1", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
