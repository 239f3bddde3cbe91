package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Required fields
	DataFile     string `mapstructure:"data_file"`
	BackupDir    string `mapstructure:"backup_dir"`
	JWTSecretKey string `mapstructure:"jwt_secret_key"`

	// State store for users and the backup audit trail
	StateDB string `mapstructure:"state_db"`

	// Retention window for automatic pruning, in days
	RetentionDays int `mapstructure:"retention_days"`

	// Optional cron expression for automatic backups
	BackupSchedule string `mapstructure:"backup_schedule"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogLevel string `mapstructure:"log_level"`

	// Optional JWT settings
	JWTAlgorithm string `mapstructure:"jwt_algorithm"`

	ConfigPath string
}

const (
	DefaultConfigPath    = "/etc/snapvault/config.yml"
	DefaultStateDB       = "/var/lib/snapvault/state.sqlite3"
	DefaultRetentionDays = 7
	DefaultAPIHost       = "0.0.0.0"
	DefaultAPIPort       = 8346
	DefaultLogLevel      = "info"
	DefaultJWTAlgorithm  = "HS256"
)

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("state_db", DefaultStateDB)
	viper.SetDefault("retention_days", DefaultRetentionDays)
	viper.SetDefault("api_host", DefaultAPIHost)
	viper.SetDefault("api_port", DefaultAPIPort)
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)

	// Allow environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SNAPVAULT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data_file is required")
	}

	if c.BackupDir == "" {
		return fmt.Errorf("backup_dir is required")
	}

	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required")
	}

	if c.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be positive")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

// RetentionWindow returns the retention policy window as a duration.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("SNAPVAULT_DEV_MODE") == "1"
}
