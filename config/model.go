package config

import (
	"time"

	"github.com/LambdaTest/jira-reporter/pkg/lumber"
)

type (
	// ConfigWrapper is a wrapper for the config
	ConfigWrapper struct {
		Config `json:"data"`
	}

	// Config the application's configuration
	Config struct {
		DB              DBConfig
		Kafka           KafkaConfig
		Jira            JiraConfig
		Redis           Redis
		Tracing         TracingConfig
		MetadataCache   MetadataCacheConfig
		Port            string
		LogFile         string
		LogConfig       lumber.LoggingConfig
		Env             string
		Verbose         bool
		GracefulTimeout time.Duration
		ShutDownDelay   time.Duration
	}

	// TracingConfig provides opentelemetry configurations
	TracingConfig struct {
		// OtelEndpoint for storing host name for otel collector
		OtelEndpoint string
	}

	// DBConfig providers the mysql db configuration.
	DBConfig struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		// Migrate creates missing tables on startup.
		Migrate bool
	}

	// JiraConfig holds the tracker connection.
	JiraConfig struct {
		// URL is the Jira base url.
		URL string
		// Username is also the reporter counted against the daily cap.
		Username string
		// Password or API token.
		Password string
		// Timeout bounds every tracker call.
		Timeout time.Duration
		// RateLimit is the number of requests per second sent to the tracker.
		RateLimit float64
		// Burst is the rate limiter burst size.
		Burst int
	}

	// MetadataCacheConfig configures the tracker schema cache.
	MetadataCacheConfig struct {
		// Size is the in-process LRU capacity, used when redis is not configured.
		Size int
		// TTL bounds how long schema lives in redis.
		TTL time.Duration
	}

	// Redis represents the redis configuration.
	Redis struct {
		// Redis host:port address, empty disables redis.
		Addr string
		// Redis username.
		Username string
		// Redis password.
		Password string
		// TLS enabled
		TLS bool
	}

	// KafkaConfig provides the kafka configuration.
	KafkaConfig struct {
		Brokers       string
		ResultsConfig KafkaConsumerConfig
		ReportTopic   string
	}

	// KafkaConsumerConfig provides the kafka configuration.
	KafkaConsumerConfig struct {
		Topic         string
		ConsumerGroup string
	}
)
