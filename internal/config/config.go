package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL           string        `mapstructure:"base_url"`
	TimeoutSeconds    int64         `mapstructure:"timeout_seconds"`
	Timeout           time.Duration `mapstructure:"-"`
	RetryCount        int           `mapstructure:"retry_count"`
	RetryWaitMs       int64         `mapstructure:"retry_wait_ms"`
	RetryWait         time.Duration `mapstructure:"-"`
	FailOnErrorStatus bool          `mapstructure:"fail_on_error_status"`
	AliasesFile       string        `mapstructure:"aliases_file"`
	StrictParams      bool          `mapstructure:"strict_params"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from configs/.env, environment variables and the given flags.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "aliascall")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout_seconds", 20)
	v.SetDefault("retry_count", 0)
	v.SetDefault("retry_wait_ms", 100)
	v.SetDefault("fail_on_error_status", false)
	v.SetDefault("aliases_file", "./configs/aliases.yaml")
	v.SetDefault("strict_params", false)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.AliasesFile = strings.TrimSpace(cfg.AliasesFile)

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid timeout_seconds (must be positive seconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.RetryCount < 0 {
		return nil, fmt.Errorf("invalid retry_count (must not be negative)")
	}
	if cfg.RetryWaitMs < 0 {
		return nil, fmt.Errorf("invalid retry_wait_ms (must not be negative)")
	}
	cfg.RetryWait = time.Duration(cfg.RetryWaitMs) * time.Millisecond

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return &cfg, nil
}

// bindFlags binds each flag to the config key with dashes turned into underscores,
// so --base-url sets base_url.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("bind flag %q: %w", f.Name, err)
		}
	})
	return bindErr
}
