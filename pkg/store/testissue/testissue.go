package testissue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/utils"
	"github.com/gocraft/dbr"
	"github.com/gocraft/dbr/dialect"
	"github.com/jmoiron/sqlx"
)

const findKeysChunkSize = 500

type testIssueStore struct {
	db     core.DB
	logger lumber.Logger
}

// hashTestID is the fixed width key column of a test identity.
func hashTestID(testID core.TestIdentity) string {
	sum := sha256.Sum256([]byte(testID))
	return hex.EncodeToString(sum[:])
}

// New returns a new TestIssueStore backed by MySQL.
func New(db core.DB, logger lumber.Logger) core.TestIssueStore {
	return &testIssueStore{db: db, logger: logger}
}

func (s *testIssueStore) Register(ctx context.Context, job string) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, registerQuery, job); err != nil {
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testIssueStore) GetTestIssueKey(ctx context.Context, job string, testID core.TestIdentity) (string, error) {
	var key string
	err := s.db.Execute(func(db *sqlx.DB) error {
		return db.GetContext(ctx, &key, findKeyQuery, job, hashTestID(testID))
	})
	if err != nil {
		if errors.Is(errs.SQLError(err), errs.ErrRowsNotFound) {
			return core.NoIssue, nil
		}
		return core.NoIssue, errs.SQLError(err)
	}
	return key, nil
}

func (s *testIssueStore) AddTestToIssueMapping(ctx context.Context, job string, testID core.TestIdentity, issueKey string) error {
	return s.db.Execute(func(db *sqlx.DB) error {
		if _, err := db.ExecContext(ctx, upsertQuery, job, hashTestID(testID), string(testID), issueKey); err != nil {
			s.logger.Errorf("failed to map test %s of job %s to issue %s, error: %v", testID, job, issueKey, err)
			return errs.SQLError(err)
		}
		return nil
	})
}

func (s *testIssueStore) FindIssueKeys(ctx context.Context, job string, testIDs []core.TestIdentity) (map[core.TestIdentity]string, error) {
	keys := make(map[core.TestIdentity]string, len(testIDs))
	err := utils.Chunk(findKeysChunkSize, len(testIDs), func(start, end int) error {
		hashes := make([]string, 0, end-start)
		byHash := make(map[string]core.TestIdentity, end-start)
		for _, id := range testIDs[start:end] {
			h := hashTestID(id)
			hashes = append(hashes, h)
			byHash[h] = id
		}
		query, err := dbr.InterpolateForDialect(findKeysQuery, []interface{}{job, hashes}, dialect.MySQL)
		if err != nil {
			return errs.SQLError(err)
		}
		return s.db.Execute(func(db *sqlx.DB) error {
			rows, err := db.QueryxContext(ctx, query)
			if err != nil {
				return errs.SQLError(err)
			}
			defer rows.Close()
			for rows.Next() {
				var hash, key string
				if err := rows.Scan(&hash, &key); err != nil {
					return errs.SQLError(err)
				}
				if testID, ok := byHash[hash]; ok {
					keys[testID] = key
				}
			}
			return rows.Err()
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
