// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App           AppConfig           `koanf:"app"`
	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	Redis         RedisConfig         `koanf:"redis"`
	JWT           JWTConfig           `koanf:"jwt"`
	Cookie        CookieConfig        `koanf:"cookie"`
	Google        GoogleConfig        `koanf:"google"`
	RateLimit     RateLimitConfig     `koanf:"rate_limit"`
	CORS          CORSConfig          `koanf:"cors"`
	Log           LogConfig           `koanf:"log"`
	Otel          OtelConfig          `koanf:"otel"`
	RabbitMQ      RabbitMQConfig      `koanf:"rabbitmq"`
	Elasticsearch ElasticsearchConfig `koanf:"elasticsearch"`
	Media         MediaConfig         `koanf:"media"`
	Mailgun       MailgunConfig       `koanf:"mailgun"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
	KeyPrefix    string `koanf:"key_prefix"`
}

type JWTConfig struct {
	Secret      string        `koanf:"secret"`
	TokenExpire time.Duration `koanf:"token_expire"`
	Issuer      string        `koanf:"issuer"`
	Audience    string        `koanf:"audience"`
}

type CookieConfig struct {
	Name   string `koanf:"name"`
	Domain string `koanf:"domain"`
	Secure bool   `koanf:"secure"`
}

type GoogleConfig struct {
	ClientID string `koanf:"client_id"`
	JWKSURL  string `koanf:"jwks_url"`
}

type RateLimitConfig struct {
	Requests     int           `koanf:"requests"`
	Window       time.Duration `koanf:"window"`
	Burst        int           `koanf:"burst"`
	AuthRequests int           `koanf:"auth_requests"`
	AuthBurst    int           `koanf:"auth_burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type RabbitMQConfig struct {
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
	Queue    string `koanf:"queue"`
	Prefetch int    `koanf:"prefetch"`
}

type ElasticsearchConfig struct {
	Addresses     []string `koanf:"addresses"`
	Username      string   `koanf:"username"`
	Password      string   `koanf:"password"`
	ProductsIndex string   `koanf:"products_index"`
}

type MediaConfig struct {
	Driver             string `koanf:"driver"`
	Bucket             string `koanf:"bucket"`
	Prefix             string `koanf:"prefix"`
	MaxUploadBytes     int64  `koanf:"max_upload_bytes"`
	GCSCredentialsFile string `koanf:"gcs_credentials_file"`
	S3Region           string `koanf:"s3_region"`
	S3Endpoint         string `koanf:"s3_endpoint"`
	S3AccessKey        string `koanf:"s3_access_key"`
	S3SecretKey        string `koanf:"s3_secret_key"`
	PublicBaseURL      string `koanf:"public_base_url"`
}

type MailgunConfig struct {
	Domain string `koanf:"domain"`
	APIKey string `koanf:"api_key"`
	Sender string `koanf:"sender"`
}

const minSecretLength = 32

var (
	cfg  *Config
	once sync.Once
)

// Load reads configuration once per process: defaults, then the YAML file,
// then environment variables (a .env file is loaded into the environment
// first when present).
func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Storefront API",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,
		"redis.key_prefix":     "storefront",

		"jwt.token_expire": "24h",
		"jwt.issuer":       "storefront",
		"jwt.audience":     "storefront-api",

		"cookie.name":   "token",
		"cookie.secure": false,

		"google.jwks_url": "https://www.googleapis.com/oauth2/v3/certs",

		"rate_limit.requests":      100,
		"rate_limit.window":        "1m",
		"rate_limit.burst":         20,
		"rate_limit.auth_requests": 10,
		"rate_limit.auth_burst":    5,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "storefront",

		"rabbitmq.exchange": "storefront.events",
		"rabbitmq.queue":    "storefront.notifications",
		"rabbitmq.prefetch": 16,

		"elasticsearch.products_index": "products",

		"media.driver":           "none",
		"media.prefix":           "",
		"media.max_upload_bytes": 5 << 20,
		"media.s3_region":        "us-east-1",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"REDIS_KEY_PREFIX":            "redis.key_prefix",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_SECRET":                  "jwt.secret",
	"JWT_TOKEN_EXPIRE":            "jwt.token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"COOKIE_DOMAIN":               "cookie.domain",
	"COOKIE_SECURE":               "cookie.secure",
	"GOOGLE_CLIENT_ID":            "google.client_id",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_AUTH_REQUESTS":    "rate_limit.auth_requests",
	"CORS_ALLOWED_ORIGINS":        "cors.allowed_origins",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"RABBITMQ_URL":                "rabbitmq.url",
	"RABBITMQ_EXCHANGE":           "rabbitmq.exchange",
	"RABBITMQ_QUEUE":              "rabbitmq.queue",
	"ES_ADDRESSES":                "elasticsearch.addresses",
	"ES_USERNAME":                 "elasticsearch.username",
	"ES_PASSWORD":                 "elasticsearch.password",
	"ES_PRODUCTS_INDEX":           "elasticsearch.products_index",
	"MEDIA_DRIVER":                "media.driver",
	"MEDIA_BUCKET":                "media.bucket",
	"MEDIA_PREFIX":                "media.prefix",
	"GCS_CREDENTIALS_FILE":        "media.gcs_credentials_file",
	"S3_REGION":                   "media.s3_region",
	"S3_ENDPOINT":                 "media.s3_endpoint",
	"S3_ACCESS_KEY":               "media.s3_access_key",
	"S3_SECRET_KEY":               "media.s3_secret_key",
	"MEDIA_PUBLIC_BASE_URL":       "media.public_base_url",
	"MAILGUN_DOMAIN":              "mailgun.domain",
	"MAILGUN_API_KEY":             "mailgun.api_key",
	"MAILGUN_SENDER":              "mailgun.sender",
}

var listKeys = map[string]struct{}{
	"cors.allowed_origins":    {},
	"elasticsearch.addresses": {},
}

func envKeyReplacer(key, value string) (string, any) {
	mapped, ok := envKeyMap[key]
	if !ok {
		return "", nil
	}

	if _, isList := listKeys[mapped]; isList {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return mapped, out
	}

	return mapped, value
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if len(c.JWT.Secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}

	if c.JWT.TokenExpire <= 0 {
		return fmt.Errorf("jwt.token_expire must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	switch c.Media.Driver {
	case "none", "":
	case "gcs", "s3":
		if c.Media.Bucket == "" {
			return fmt.Errorf("MEDIA_BUCKET is required for media driver %q", c.Media.Driver)
		}
	default:
		return fmt.Errorf("unknown media driver %q", c.Media.Driver)
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("COOKIE_SECURE must be true in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (r *RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

func (e *ElasticsearchConfig) Enabled() bool {
	return len(e.Addresses) > 0
}

func (m *MailgunConfig) Enabled() bool {
	return m.Domain != "" && m.APIKey != "" && m.Sender != ""
}
