package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Jira   JiraConfig   `mapstructure:"jira"`
	Report ReportConfig `mapstructure:"report"`
}

// JiraConfig contains Jira connection settings
type JiraConfig struct {
	BaseURL             string        `mapstructure:"base_url" yaml:"base_url"`
	Username            string        `mapstructure:"username"`
	Password            string        `mapstructure:"password"`
	PersonalAccessToken string        `mapstructure:"personal_access_token" yaml:"personal_access_token"`
	PageSize            int           `mapstructure:"page_size" yaml:"page_size"`
	Timeout             time.Duration `mapstructure:"timeout"`
	UrgencyField        string        `mapstructure:"urgency_field" yaml:"urgency_field"`
	TechnologyField     string        `mapstructure:"technology_field" yaml:"technology_field"`
}

// ReportConfig contains report output settings
type ReportConfig struct {
	BaseDir      string `mapstructure:"base_dir" yaml:"base_dir"`
	Timezone     string `mapstructure:"timezone"`
	WorkbookName string `mapstructure:"workbook_name" yaml:"workbook_name"`
	ChartName    string `mapstructure:"chart_name" yaml:"chart_name"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Set default config file locations
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("$HOME/.jirastats")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("JIRA_STATS")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("jira.page_size", 50)
	viper.SetDefault("jira.timeout", "30s")
	viper.SetDefault("jira.urgency_field", "customfield_11214")
	viper.SetDefault("jira.technology_field", "customfield_11219")
	viper.SetDefault("report.base_dir", ".")
	viper.SetDefault("report.timezone", "Asia/Shanghai")
	viper.SetDefault("report.workbook_name", "bug_statistics.xlsx")
	viper.SetDefault("report.chart_name", "bug_status_pie_chart.png")
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Jira.BaseURL == "" {
		return fmt.Errorf("jira.base_url is required")
	}

	if config.Jira.PersonalAccessToken == "" && (config.Jira.Username == "" || config.Jira.Password == "") {
		return fmt.Errorf("jira.personal_access_token or jira.username and jira.password are required")
	}

	if config.Jira.PageSize <= 0 {
		return fmt.Errorf("jira.page_size must be greater than 0")
	}

	if config.Report.Timezone != "" {
		if _, err := time.LoadLocation(config.Report.Timezone); err != nil {
			return fmt.Errorf("report.timezone must be a valid IANA zone name: %w", err)
		}
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, configPath string) error {
	viper.Set("jira", config.Jira)
	viper.Set("report", config.Report)

	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return viper.WriteConfigAs(configPath)
}
