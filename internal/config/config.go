package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Square     SquareConfig     `validate:"required"`
	Cache      CacheConfig
	Billing    BillingConfig
	Scheduler  SchedulerConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
}

// SquareConfig holds credentials and endpoints for the payment gateway.
type SquareConfig struct {
	AccessToken string
	Environment string // sandbox or production
	LocationID  string
	Version     string // Square-Version header
}

type CacheConfig struct {
	Enabled             bool
	TTLMinutes          int
	CleanupIntervalMins int
}

// BillingConfig holds the processing fee model and suspension policy.
type BillingConfig struct {
	FeeRate             float64 // fraction of subtotal, e.g. 0.04
	FeeFixedCents       int64   // fixed surcharge in cents, e.g. 10
	SuspensionThreshold int     // consecutive failed payments before suspension
}

type SchedulerConfig struct {
	// CronSpec drives the monthly run, e.g. "0 6 1 * *" (06:00 on the 1st)
	CronSpec string
	DryRun   bool
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lawnbill")

	v.SetEnvPrefix("LAWNBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeAPI))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxopenconns", 10)
	v.SetDefault("postgres.maxidleconns", 5)
	v.SetDefault("postgres.connmaxlifetimeminutes", 30)
	v.SetDefault("square.environment", "sandbox")
	v.SetDefault("square.version", "2024-01-18")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttlminutes", 30)
	v.SetDefault("cache.cleanupintervalmins", 60)
	v.SetDefault("billing.feerate", 0.04)
	v.SetDefault("billing.feefixedcents", 10)
	v.SetDefault("billing.suspensionthreshold", types.SuspensionThreshold)
	v.SetDefault("scheduler.cronspec", "0 6 1 * *")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeAPI},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache: CacheConfig{
			Enabled:             true,
			TTLMinutes:          30,
			CleanupIntervalMins: 60,
		},
		Billing: BillingConfig{
			FeeRate:             0.04,
			FeeFixedCents:       10,
			SuspensionThreshold: types.SuspensionThreshold,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// BaseURL returns the Square API base URL for the configured environment.
func (c SquareConfig) BaseURL() string {
	if c.Environment == "production" {
		return "https://connect.squareup.com"
	}
	return "https://connect.squareupsandbox.com"
}
