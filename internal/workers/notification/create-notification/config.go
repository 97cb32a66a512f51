// internal/workers/notification/create-notification/config.go
package createnotification

import (
	"fmt"
	"time"

	"acc-notifications/internal/common/camunda"
	"acc-notifications/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retry         *camunda.RetryConfig
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		// A 120k-recipient fan-out plus its emails must finish inside one activation.
		Timeout: 5 * time.Minute,
		Retry:   camunda.DefaultRetryConfig,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	if workerCfg, exists := appConfig.Workers[WorkerName]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
		}
		if workerCfg.MaxRetries > 0 {
			retry := *camunda.DefaultRetryConfig
			retry.MaxRetries = workerCfg.MaxRetries
			cfg.Retry = &retry
		}
	}
	return cfg
}
