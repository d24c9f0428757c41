package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AttachCLIFlags attaches command line flags to command
func AttachCLIFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file path")
	flags.StringP("port", "p", "", "port for the http server")
	flags.StringP("env", "e", "", "environment, one of dev, stage or prod")
	flags.BoolP("verbose", "v", false, "enable debug logs")
	flags.String("log-file", "", "directory of the log file")
	flags.String("jira-url", "", "Jira base url")
	flags.String("jira-username", "", "Jira user raising the tickets")
	flags.String("kafka-brokers", "", "comma separated kafka brokers")
	flags.Bool("migrate", false, "create missing tables on startup")

	bindings := map[string]string{
		"port":          "Data.Port",
		"env":           "Data.Env",
		"verbose":       "Data.Verbose",
		"log-file":      "Data.LogFile",
		"jira-url":      "Data.Jira.URL",
		"jira-username": "Data.Jira.Username",
		"kafka-brokers": "Data.Kafka.Brokers",
		"migrate":       "Data.DB.Migrate",
	}
	for flag, key := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
