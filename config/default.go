package config

import (
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/spf13/viper"
)

func setDefaultConfig() {
	viper.SetDefault("Data.LogConfig.EnableConsole", true)
	viper.SetDefault("Data.LogConfig.ConsoleJSONFormat", false)
	viper.SetDefault("Data.LogConfig.ConsoleLevel", "info")
	viper.SetDefault("Data.LogConfig.EnableFile", false)
	viper.SetDefault("Data.LogConfig.FileJSONFormat", true)
	viper.SetDefault("Data.LogConfig.FileLevel", "debug")
	viper.SetDefault("Data.LogConfig.FileLocation", "./jira-reporter.log")
	viper.SetDefault("Data.Env", "prod")
	viper.SetDefault("Data.Port", "9880")
	viper.SetDefault("Data.Verbose", false)
	viper.SetDefault("Data.GracefulTimeout", constants.DefaultGracefulTimeout)
	viper.SetDefault("Data.ShutDownDelay", constants.DefaultShutDownDelay)
	viper.SetDefault("Data.DB.Host", "localhost")
	viper.SetDefault("Data.DB.Port", "3306")
	viper.SetDefault("Data.DB.User", "")
	viper.SetDefault("Data.DB.Password", "")
	viper.SetDefault("Data.DB.Name", "jira_reporter")
	viper.SetDefault("Data.DB.Migrate", false)
	viper.SetDefault("Data.Jira.URL", "")
	viper.SetDefault("Data.Jira.Username", "")
	viper.SetDefault("Data.Jira.Password", "")
	viper.SetDefault("Data.Jira.Timeout", constants.DefaultRemoteTimeout)
	viper.SetDefault("Data.Jira.RateLimit", constants.DefaultTrackerRateLimit)
	viper.SetDefault("Data.Jira.Burst", constants.DefaultTrackerBurst)
	viper.SetDefault("Data.MetadataCache.Size", constants.DefaultMetadataCacheSize)
	viper.SetDefault("Data.MetadataCache.TTL", constants.DefaultMetadataCacheTTL)
	viper.SetDefault("Data.Redis.Addr", "")
	viper.SetDefault("Data.Redis.Username", "")
	viper.SetDefault("Data.Redis.Password", "")
	viper.SetDefault("Data.Redis.TLS", false)
	viper.SetDefault("Data.Kafka.Brokers", "")
	viper.SetDefault("Data.Kafka.ResultsConfig.Topic", "build-results")
	viper.SetDefault("Data.Kafka.ResultsConfig.ConsumerGroup", "jira-reporter")
	viper.SetDefault("Data.Kafka.ReportTopic", "")
	viper.SetDefault("Data.Tracing.OtelEndpoint", "")
}
