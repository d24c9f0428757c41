package constants

import (
	"time"
)

const (
	// ServiceName OpenTelemetry service name
	ServiceName = "jira-reporter"
	// MetricsNamespace prefixes every prometheus metric
	MetricsNamespace = "jira_reporter"
	// MysqlMaxIdleConnection max mysql idle connections.
	MysqlMaxIdleConnection = 25
	// MysqlMaxOpenConnection max mysql open connections.
	MysqlMaxOpenConnection = 25
	// MysqlMaxConnectionLifetime max mysql connection lifetime.
	MysqlMaxConnectionLifetime = 5 * time.Minute
	// MysqlMaxRetries is the number of attempts for a retried transaction.
	MysqlMaxRetries = 3
	// MysqlRetryDelay is the base delay between transaction retries.
	MysqlRetryDelay = 250 * time.Millisecond
	// MysqlMaxJitter is the max jitter added to the retry delay.
	MysqlMaxJitter = 100 * time.Millisecond
	// Base10 is used in parsing ints from string
	Base10 = 10
	// BitSize64 represent bitSize 64 of integers in which the result of parsing strings must fit into
	BitSize64 = 64
	// DefaultShutDownDelay is the delay for graceful shutdown of all queue consumers
	DefaultShutDownDelay = 5e9 // 5 seconds, value is int64 nanoseconds due to issue in viper.
	// DefaultGracefulTimeout is default timeout for graceful shutdown of the app.
	DefaultGracefulTimeout = 2 * 6e10 // 2 minutes
)

const (
	// DefaultIssueType is the issue type id used when the configured one is malformed.
	DefaultIssueType int64 = 1
	// DefaultIssueTypeName is preselected by the configuration UI.
	DefaultIssueTypeName = "Bug"
	// MaxSummaryLength is the longest summary Jira accepts.
	MaxSummaryLength = 255
	// ResolveTransitionKeyword is matched case-insensitively against transition names.
	ResolveTransitionKeyword = "resolve"
	// DoneStatusCategory is the Jira status category key of resolved tickets.
	DoneStatusCategory = "done"
	// DefaultRemoteTimeout bounds every tracker call.
	DefaultRemoteTimeout = 30e9 // 30 seconds
	// DefaultTrackerRateLimit is the number of tracker requests per second.
	DefaultTrackerRateLimit = 10
	// DefaultTrackerBurst is the tracker rate limiter burst.
	DefaultTrackerBurst = 20
	// DefaultMetadataCacheSize is the number of (project, issue type) schemas kept in memory.
	DefaultMetadataCacheSize = 512
	// DefaultMetadataCacheTTL bounds how long a schema lives in redis.
	DefaultMetadataCacheTTL = 24 * time.Hour
	// MaxJQLResults caps duplicate searches.
	MaxJQLResults = 10
)

// All possible env values
const (
	Dev   = "dev"
	Prod  = "prod"
	Stage = "stage"
)

// CorsAllowedOrigins list of allowed origins
var CorsAllowedOrigins = []string{"http://localhost:3000"}
