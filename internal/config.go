package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Leave         LeaveConfig         `mapstructure:"leave"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	OpenAPIValidation bool          `mapstructure:"openapi_validation"`
	// AllowedOrigins lists the browser origins allowed by CORS. Empty means
	// the notification frontend_url, or any origin when that is unset too.
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source" validate:"required"`
}

type LeaveConfig struct {
	// ApproverPolicy is "any" (every existing employee may decide) or
	// "manager_chain" (the submitter's manager or one of its ancestors).
	ApproverPolicy string `mapstructure:"approver_policy" validate:"omitempty,oneof=any manager_chain"`
}

type NotificationConfig struct {
	Transport   string      `mapstructure:"transport" validate:"required,oneof=log smtp kafka"`
	SenderEmail string      `mapstructure:"sender_email" validate:"omitempty,email"`
	SenderName  string      `mapstructure:"sender_name"`
	FrontendURL string      `mapstructure:"frontend_url" validate:"omitempty,url"`
	Workers     int         `mapstructure:"workers" validate:"min=0,max=64"`
	QueueSize   int         `mapstructure:"queue_size" validate:"min=0"`
	SMTP        SMTPConfig  `mapstructure:"smtp"`
	Kafka       KafkaConfig `mapstructure:"kafka"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Retries  int    `mapstructure:"retries" validate:"min=0,max=10"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type RedisConfig struct {
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db" validate:"min=0"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

// LoadConfigFromEnv builds the configuration for container deployments where
// no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			RequestTimeout:    getEnvAsDuration("HTTP_REQUEST_TIMEOUT", 10*time.Second),
			OpenAPIValidation: getEnv("OPENAPI_VALIDATION", "true") == "true",
			AllowedOrigins:    splitNonEmpty(getEnv("HTTP_ALLOWED_ORIGINS", "")),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Leave: LeaveConfig{
			ApproverPolicy: getEnv("LEAVE_APPROVER_POLICY", "any"),
		},
		Notification: NotificationConfig{
			Transport:   getEnv("NOTIFICATION_TRANSPORT", "log"),
			SenderEmail: getEnv("SENDER_EMAIL", "noreply@soenaudio.com"),
			SenderName:  getEnv("SENDER_NAME", "Leave Management"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
			Workers:     getEnvAsInt("NOTIFICATION_WORKERS", 4),
			QueueSize:   getEnvAsInt("NOTIFICATION_QUEUE_SIZE", 100),
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
				Retries:  getEnvAsInt("SMTP_RETRIES", 3),
			},
			Kafka: KafkaConfig{
				Brokers: splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
				Topic:   getEnv("KAFKA_NOTIFICATION_TOPIC", "leave.notifications"),
				GroupID: getEnv("KAFKA_GROUP_ID", "leave-notification-worker"),
			},
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvAsInt("REDIS_DB", 0),
			IdempotencyTTL: getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	var errs []string

	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Notification.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("notification config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url %s: %w", c.BaseURL, err)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *Config) CORSOrigins() []string {
	if len(c.Server.AllowedOrigins) > 0 {
		return c.Server.AllowedOrigins
	}
	if c.Notification.FrontendURL != "" {
		return []string{c.Notification.FrontendURL}
	}
	return []string{"*"}
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *NotificationConfig) Validate() error {
	switch c.Transport {
	case "smtp":
		if c.SMTP.Host == "" {
			return errors.New("smtp.host is required when transport is smtp")
		}
	case "kafka":
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return errors.New("kafka.brokers and kafka.topic are required when transport is kafka")
		}
	}
	return nil
}

// SMTPConfigured reports whether outbound mail can actually be delivered.
func (c *NotificationConfig) SMTPConfigured() bool {
	return c.SMTP.Host != ""
}
