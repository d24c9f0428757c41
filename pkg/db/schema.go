package db

import (
	"context"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS job_registry (
		job_id VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (job_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS job_config (
		job_id VARCHAR(255) NOT NULL,
		project_key VARCHAR(64) NOT NULL,
		issue_type BIGINT NOT NULL,
		field_templates JSON NOT NULL,
		auto_raise_issue BOOLEAN NOT NULL DEFAULT FALSE,
		auto_resolve_issue BOOLEAN NOT NULL DEFAULT FALSE,
		prevent_duplicate_issue BOOLEAN NOT NULL DEFAULT FALSE,
		max_bugs_per_day BIGINT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (job_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS test_issue_mapping (
		job_id VARCHAR(255) NOT NULL,
		test_id_hash CHAR(64) CHARACTER SET ascii NOT NULL,
		test_id TEXT NOT NULL,
		issue_key VARCHAR(64) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (job_id, test_id_hash),
		CONSTRAINT fk_test_issue_mapping_job FOREIGN KEY (job_id) REFERENCES job_registry (job_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
