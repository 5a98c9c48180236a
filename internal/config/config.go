package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/apply-warden/internal/logger"
)

const (
	EnvPrefix       = "AW"
	DefaultFile     = "apply-warden.yml"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// ExperienceOptions are the experience filters hh.ru understands.
var ExperienceOptions = []string{"noExperience", "between1And3", "between3And6", "moreThan6"}

// Config holds the application's configuration values.
type Config struct {
	Logging      logger.Config     `mapstructure:"logging"`
	Dispatch     DispatchConfig    `mapstructure:"dispatch"`
	Search       SearchConfig      `mapstructure:"search"`
	AccountsFile string            `mapstructure:"accounts_file"`
	Credentials  CredentialsConfig `mapstructure:"credentials"`
	Database     DBConfig          `mapstructure:"database"`
	Redis        RedisConfig       `mapstructure:"redis"`
	Server       ServerConfig      `mapstructure:"server"`
	Schedule     ScheduleConfig    `mapstructure:"schedule"`
}

type DispatchConfig struct {
	Concurrency    int           `mapstructure:"concurrency"`
	ApplyTimeout   time.Duration `mapstructure:"apply_timeout"`
	RefreshTimeout time.Duration `mapstructure:"refresh_timeout"`
	MaxAuthRetries int           `mapstructure:"max_auth_retries"`
	// RequestsPerSecond throttles calls to hh.ru; 0 disables throttling.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

type SearchConfig struct {
	Order          []string `mapstructure:"order"`
	Experience     []string `mapstructure:"experience"`
	WebsiteVersion string   `mapstructure:"website_version"`
	BaseURL        string   `mapstructure:"base_url"`
}

type CredentialsConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type ScheduleConfig struct {
	// Spec is a cron expression or descriptor such as "@every 6h".
	Spec string `mapstructure:"spec"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file", "apply-warden.log")

	v.SetDefault("dispatch.concurrency", 10)
	v.SetDefault("dispatch.apply_timeout", 30*time.Second)
	v.SetDefault("dispatch.refresh_timeout", 10*time.Minute)
	v.SetDefault("dispatch.max_auth_retries", 3)
	v.SetDefault("dispatch.requests_per_second", 0)

	v.SetDefault("search.order", []string{})
	v.SetDefault("search.experience", []string{})
	v.SetDefault("search.website_version", "")
	v.SetDefault("search.base_url", "https://hh.ru")

	v.SetDefault("accounts_file", "accounts.yml")
	v.SetDefault("credentials.backend", BackendFile)
	v.SetDefault("credentials.dir", "cookies")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "apply_warden")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.prefix", "apply-warden:credentials")

	v.SetDefault("server.port", "8080")
	v.SetDefault("schedule.spec", "@every 6h")
}

// LoadConfig reads configuration from the given file (apply-warden.yml in
// the working directory when path is empty) and AW_-prefixed environment
// variables, applies defaults and validates the result. A missing default
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || isNotExist(err)) {
			return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks limits, backends and experience filters.
func (c *Config) Validate() error {
	var errs []error
	if c.Dispatch.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("dispatch.concurrency must be positive, got %d", c.Dispatch.Concurrency))
	}
	if c.Dispatch.ApplyTimeout <= 0 {
		errs = append(errs, errors.New("dispatch.apply_timeout must be positive"))
	}
	if c.Dispatch.RefreshTimeout <= 0 {
		errs = append(errs, errors.New("dispatch.refresh_timeout must be positive"))
	}
	if c.Dispatch.MaxAuthRetries <= 0 {
		errs = append(errs, fmt.Errorf("dispatch.max_auth_retries must be positive, got %d", c.Dispatch.MaxAuthRetries))
	}
	if c.Dispatch.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("dispatch.requests_per_second must not be negative"))
	}
	for _, e := range c.Search.Experience {
		if !slices.Contains(ExperienceOptions, e) {
			errs = append(errs, fmt.Errorf("unknown experience filter %q, expected one of %v", e, ExperienceOptions))
		}
	}
	switch c.Credentials.Backend {
	case BackendFile:
		if c.Credentials.Dir == "" {
			errs = append(errs, errors.New("credentials.dir must be set for the file backend"))
		}
	case BackendPostgres:
		if !c.Database.Enabled {
			errs = append(errs, errors.New("credentials backend postgres requires database.enabled"))
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url must be set for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown credentials backend %q", c.Credentials.Backend))
	}
	if c.AccountsFile == "" {
		errs = append(errs, errors.New("accounts_file must be set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
