package config

import (
	"github.com/spf13/viper"
	"os"
	"strings"
	"time"
)

// DefaultPath is the config file read when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config is the main struct that holds all configuration for the application.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Firebase  FirebaseConfig  `mapstructure:"firebase"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Notifiers NotifiersConfig `mapstructure:"notifiers"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
}

// LoggerConfig holds logging-specific settings.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// HTTPConfig holds HTTP server-specific settings.
type HTTPConfig struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

// AuthConfig selects how callers are identified.
type AuthConfig struct {
	// Provider is "jwt" (HS256 bearer tokens) or "firebase" (Firebase ID tokens).
	Provider  string `mapstructure:"provider"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// DirectoryConfig selects the backend holding HomeMaster users.
type DirectoryConfig struct {
	// Backend is "postgres" or "firestore".
	Backend    string `mapstructure:"backend"`
	Collection string `mapstructure:"collection"`
}

// PostgresConfig holds all settings for the PostgreSQL database connection.
type PostgresConfig struct {
	DSN  string     `mapstructure:"dsn"`
	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig defines the connection pool settings for the database.
type PoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// FirebaseConfig holds the Firebase project used for Firestore and ID token checks.
type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// RabbitMQConfig holds all settings for the RabbitMQ connection.
type RabbitMQConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig holds all settings for the Redis connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotifiersConfig holds configurations for the mail transport.
type NotifiersConfig struct {
	// Mode can be "log_only" or "production".
	// In "log_only" mode the mailer is replaced by the LogMailer.
	Mode string `mapstructure:"mode"`
	// Provider is "smtp" or "resend".
	Provider string       `mapstructure:"provider"`
	Email    EmailConfig  `mapstructure:"email"`
	Resend   ResendConfig `mapstructure:"resend"`
}

// EmailConfig holds SMTP settings and message composition options.
type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Subject  string `mapstructure:"subject"`
	// RawHTML disables escaping of the message in the HTML part.
	RawHTML bool `mapstructure:"raw_html"`
}

// ResendConfig holds settings for the Resend API mailer.
type ResendConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DispatchConfig tunes batch delivery.
type DispatchConfig struct {
	// SendInterval is the minimum spacing between two sends, shared by all batches.
	SendInterval time.Duration `mapstructure:"send_interval"`
	// MaxAttempts is the number of send attempts per recipient.
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	JobTTL         time.Duration `mapstructure:"job_ttl"`
	Workers        int           `mapstructure:"workers"`
}

// NewConfig reads the file named by CONFIG_PATH (or DefaultPath) and environment variables.
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Load parses the YAML file at path and environment variables to return a configuration struct.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	v.SetDefault("logger.level", "info")
	v.SetDefault("http.port", ":8080")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("auth.provider", "jwt")
	v.SetDefault("directory.backend", "postgres")
	v.SetDefault("directory.collection", "users")
	v.SetDefault("notifiers.mode", "log_only")
	v.SetDefault("notifiers.provider", "smtp")
	v.SetDefault("notifiers.email.port", 587)
	v.SetDefault("notifiers.email.from", "HomeMaster <noreply@homemaster.app>")
	v.SetDefault("notifiers.email.subject", "HomeMaster Announcement")
	v.SetDefault("notifiers.email.raw_html", false)
	v.SetDefault("dispatch.send_interval", time.Second)
	v.SetDefault("dispatch.max_attempts", 1)
	v.SetDefault("dispatch.retry_base_delay", 500*time.Millisecond)
	v.SetDefault("dispatch.job_ttl", 24*time.Hour)
	v.SetDefault("dispatch.workers", 1)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
