package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Db      DbConfig          `mapstructure:"db"`
	Ledger  LedgerConfig      `mapstructure:"ledger"`
	Token   AssetLedgerConfig `mapstructure:"token-ledger"`
	Stable  AssetLedgerConfig `mapstructure:"stable-ledger"`
	Queue   QueueConfig       `mapstructure:"queue"`
	API     APIConfig         `mapstructure:"api"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return err
	}
	if err := cfg.Ledger.Validate(); err != nil {
		return err
	}
	if err := cfg.Token.Validate(); err != nil {
		return fmt.Errorf("token-ledger: %w", err)
	}
	if err := cfg.Stable.Validate(); err != nil {
		return fmt.Errorf("stable-ledger: %w", err)
	}
	if err := cfg.Queue.Validate(); err != nil {
		return err
	}
	if err := cfg.API.Validate(); err != nil {
		return err
	}
	return cfg.Metrics.Validate()
}

// New loads the config from the given yaml file path. Every key can be
// overridden through the environment, e.g. LEDGER_OPERATOR-ADDRESS.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
