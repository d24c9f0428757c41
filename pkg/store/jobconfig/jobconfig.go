package jobconfig

import (
	"context"
	"errors"

	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/guregu/null.v4"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jobConfigStore struct {
	db     core.DB
	logger lumber.Logger
}

// jobConfigRow is a job_config row with the templates in their stored json form.
type jobConfigRow struct {
	core.JobConfig
	RawFieldTemplates []byte `db:"field_templates"`
}

// New returns a new JobConfigStore backed by MySQL.
func New(db core.DB, logger lumber.Logger) core.JobConfigStore {
	return &jobConfigStore{db: db, logger: logger}
}

func (s *jobConfigStore) SaveConfig(ctx context.Context, job string, input *core.JobConfigInput) (*core.JobConfig, error) {
	cfg := Parse(job, input, s.logger)
	raw, err := json.Marshal(cfg.FieldTemplates)
	if err != nil {
		return nil, err
	}
	row := &jobConfigRow{JobConfig: *cfg, RawFieldTemplates: raw}
	err = s.db.ExecuteTransactionWithRetry(ctx, constants.MysqlMaxRetries, constants.MysqlRetryDelay,
		constants.MysqlMaxJitter, "failed to save job config", func(tx *sqlx.Tx) error {
			if _, err := tx.NamedExecContext(ctx, upsertQuery, row); err != nil {
				return errs.SQLError(err)
			}
			return nil
		})
	if err != nil {
		s.logger.Errorf("failed to save config for job %s, error: %v", job, err)
		return nil, err
	}
	return cfg, nil
}

func (s *jobConfigStore) GetConfig(ctx context.Context, job string) (*core.JobConfig, error) {
	row := new(jobConfigRow)
	err := s.db.Execute(func(db *sqlx.DB) error {
		return db.GetContext(ctx, row, findQuery, job)
	})
	if err != nil {
		if errors.Is(errs.SQLError(err), errs.ErrRowsNotFound) {
			return nil, nil
		}
		return nil, errs.SQLError(err)
	}
	cfg := row.JobConfig
	cfg.FieldTemplates = []core.FieldTemplate{}
	if len(row.RawFieldTemplates) > 0 {
		if err := json.Unmarshal(row.RawFieldTemplates, &cfg.FieldTemplates); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (s *jobConfigStore) GetProjectKey(ctx context.Context, job string) (string, error) {
	cfg, err := s.GetConfig(ctx, job)
	if err != nil || cfg == nil {
		return "", err
	}
	return cfg.ProjectKey, nil
}

func (s *jobConfigStore) GetIssueType(ctx context.Context, job string) (int64, error) {
	cfg, err := s.GetConfig(ctx, job)
	if err != nil || cfg == nil {
		return 0, err
	}
	return cfg.IssueType, nil
}

func (s *jobConfigStore) GetAutoRaiseIssue(ctx context.Context, job string) (bool, error) {
	cfg, err := s.GetConfig(ctx, job)
	if err != nil || cfg == nil {
		return false, err
	}
	return cfg.AutoRaiseIssue, nil
}

func (s *jobConfigStore) GetAutoResolveIssue(ctx context.Context, job string) (bool, error) {
	cfg, err := s.GetConfig(ctx, job)
	if err != nil || cfg == nil {
		return false, err
	}
	return cfg.AutoResolveIssue, nil
}

func (s *jobConfigStore) GetPreventDuplicateIssue(ctx context.Context, job string) (bool, error) {
	cfg, err := s.GetConfig(ctx, job)
	if err != nil || cfg == nil {
		return false, err
	}
	return cfg.PreventDuplicateIssue, nil
}

func (s *jobConfigStore) GetMaxNoOfBugs(ctx context.Context, job string) (null.Int, error) {
	cfg, err := s.GetConfig(ctx, job)
	if err != nil || cfg == nil {
		return null.Int{}, err
	}
	return cfg.MaxBugsPerDay, nil
}
