package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata" // market timezone must resolve in minimal images

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Logger     LoggerConfig     `yaml:"logger"`
	Market     MarketConfig     `yaml:"market"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	NATS       NATSConfig       `yaml:"nats"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT_MARKET" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env:"HTTP_TIMEOUT_GRACEFUL" env-default:"15s"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type MarketConfig struct {
	CommissionRate   float64       `yaml:"commission_rate" env:"MARKET_COMMISSION_RATE" env-default:"0.30"`
	Timezone         string        `yaml:"timezone" env:"MARKET_TIMEZONE" env-default:"Australia/Sydney"`
	PlaceholderPhoto string        `yaml:"placeholder_photo" env:"MARKET_PLACEHOLDER_PHOTO"`
	MailTo           string        `yaml:"mail_to" env:"MARKET_MAIL_TO" env-default:"hello@cleanout.market"`
	MailSubject      string        `yaml:"mail_subject" env:"MARKET_MAIL_SUBJECT" env-default:"Purchase Request - Cleanout Market"`
	CountdownTick    time.Duration `yaml:"countdown_tick" env:"MARKET_COUNTDOWN_TICK" env-default:"1s"`
}

type SessionConfig struct {
	Store         string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
	CookieName    string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"cleanout_session"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// NATSConfig with an empty URL disables event publishing.
type NATSConfig struct {
	URL           string `yaml:"url" env:"NATS_URL"`
	SubjectPrefix string `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX" env-default:"cleanout"`
}

type SMTPConfig struct {
	Enabled     bool          `yaml:"enabled" env:"SMTP_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"SMTP_HOST"`
	Port        int           `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username    string        `yaml:"username" env:"SMTP_USERNAME"`
	Password    string        `yaml:"password" env:"SMTP_PASSWORD"`
	SenderEmail string        `yaml:"sender_email" env:"SMTP_SENDER_EMAIL"`
	Encryption  string        `yaml:"encryption" env:"SMTP_ENCRYPTION" env-default:"tls"`
	ServerName  string        `yaml:"server_name" env:"SMTP_SERVER_NAME"`
	SendTimeout time.Duration `yaml:"send_timeout" env:"SMTP_SEND_TIMEOUT" env-default:"15s"`
}

// TracingConfig with an empty endpoint disables span export.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"cleanout-market"`
}

type MetricsConfig struct {
	Port      string `yaml:"port" env:"METRICS_PORT" env-default:"9100"`
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"cleanout_market"`
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Market.CommissionRate < 0 || c.Market.CommissionRate >= 1 {
		return fmt.Errorf("market.commission_rate must be in [0, 1), got %v", c.Market.CommissionRate)
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone: %w", err)
	}
	if c.Market.CountdownTick <= 0 {
		return errors.New("market.countdown_tick must be positive")
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("session.store must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.Session.Store)
	}
	if c.SMTP.Enabled && (c.SMTP.Host == "" || c.SMTP.SenderEmail == "") {
		return errors.New("smtp is enabled but host or sender_email is missing")
	}
	return nil
}

// Location resolves the market timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return validated(&cfg)
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			log.Printf("Warning: Config file not found at %s, attempting to load from environment variables only.", path)
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return validated(&cfg)
		}
		return nil, err
	}
	return validated(&cfg)
}

func validated(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH_MARKET")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
