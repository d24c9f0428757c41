package db

import (
	"context"
	"fmt"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"

	// mysql driver
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Connect create connection with database
func Connect(ctx context.Context, cfg *config.Config, logger lumber.Logger) (core.DB, error) {
	connectionString := fmt.Sprintf("%s:%s@%s(%s:%s)/%s", cfg.DB.User, cfg.DB.Password, "tcp", cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	conn, err := sqlx.ConnectContext(ctx, "mysql", connectionString+"?parseTime=true&charset=utf8mb4")
	if err != nil {
		return nil, err
	}
	logger.Infof("Database connected successfully")

	conn.SetMaxIdleConns(constants.MysqlMaxIdleConnection)
	conn.SetMaxOpenConns(constants.MysqlMaxOpenConnection)
	conn.SetConnMaxLifetime(constants.MysqlMaxConnectionLifetime)

	db := New(conn, logger)
	if cfg.DB.Migrate {
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Infof("Database schema is up to date")
	}
	return db, nil
}

// New wraps an existing connection pool.
func New(conn *sqlx.DB, logger lumber.Logger) *DB {
	return &DB{conn: conn, logger: logger}
}
