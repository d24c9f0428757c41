package config

import (
	"fmt"
	"strings"

	"github.com/LambdaTest/jira-reporter/pkg/constants"
	errs "github.com/LambdaTest/jira-reporter/pkg/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GlobalConfig stores the config instance for global use
var GlobalConfig *Config

// Load loads config from command instance to predefined config variables
func Load(cmd *cobra.Command) (*Config, error) {
	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}

	// default viper configs
	viper.SetEnvPrefix("JR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// set default configs
	setDefaultConfig()

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".jr")
		viper.AddConfigPath("./")
		viper.AddConfigPath("/etc/jira-reporter")
	}

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("Warning: No configuration file found. Proceeding with defaults")
	}

	return populateConfig(new(ConfigWrapper))
}

// populateConfig decodes the viper settings through their json form so the
// `data` root key maps onto Config.
func populateConfig(wrapper *ConfigWrapper) (*Config, error) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	raw, err := json.Marshal(viper.AllSettings())
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, wrapper); err != nil {
		return nil, err
	}
	cfg := &wrapper.Config
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	GlobalConfig = cfg
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case constants.Dev, constants.Stage, constants.Prod:
	default:
		return errs.ErrInvalidEnvironment
	}
	if c.Jira.URL == "" || c.Jira.Username == "" {
		return errs.ErrMissingTrackerConfig
	}
	return nil
}
