package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mariphil/foundation-site/internal/store"
	"github.com/mariphil/foundation-site/internal/utils"
)

// Config holds every setting the site reads from its environment.
type Config struct {
	Port          string `mapstructure:"PORT"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
	HomeCurrency  string `mapstructure:"HOME_CURRENCY"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DBSource string `mapstructure:"DB_SOURCE"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`

	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	RedisURL           string        `mapstructure:"REDIS_URL"`
	RateLimitPerMinute int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	ContentCacheTTL    time.Duration `mapstructure:"CONTENT_CACHE_TTL"`

	KafkaBrokers        string `mapstructure:"KAFKA_BROKERS"`
	KafkaDonationsTopic string `mapstructure:"KAFKA_DONATIONS_TOPIC"`

	APISecret     string        `mapstructure:"API_SECRET"`
	AdminTokenTTL time.Duration `mapstructure:"ADMIN_TOKEN_TTL"`

	RecordRenewals  bool          `mapstructure:"DONATIONS_RECORD_RENEWALS"`
	OutboundTimeout time.Duration `mapstructure:"OUTBOUND_TIMEOUT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"PUBLIC_BASE_URL":           "http://localhost:3000",
	"HOME_CURRENCY":             "PHP",
	"DB_DRIVER":                 store.DriverSQLite,
	"DB_SOURCE":                 "mariphil.db",
	"STRIPE_SECRET_KEY":         "",
	"STRIPE_WEBHOOK_SECRET":     "",
	"SENDGRID_API_KEY":          "",
	"SENDGRID_FROM_EMAIL":       "noreply@mariphilfoundation.org",
	"SENDGRID_FROM_NAME":        "Mariphil Foundation Inc.",
	"ADMIN_EMAIL":               "admin@mariphilfoundation.org",
	"TRUSTED_PROXIES":           "",
	"REDIS_URL":                 "",
	"RATE_LIMIT_PER_MINUTE":     10,
	"CONTENT_CACHE_TTL":         time.Minute,
	"KAFKA_BROKERS":             "",
	"KAFKA_DONATIONS_TOPIC":     "donations.recorded",
	"API_SECRET":                "",
	"ADMIN_TOKEN_TTL":           12 * time.Hour,
	"DONATIONS_RECORD_RENEWALS": false,
	"OUTBOUND_TIMEOUT":          10 * time.Second,
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "json",
}

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Load reads .env (when present), the optional YAML file at path, and the
// process environment, in increasing order of precedence. An empty path falls
// back to CONFIG_FILE.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeCurrency = strings.ToUpper(strings.TrimSpace(cfg.HomeCurrency))
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return cfg, nil
}

// Validate rejects settings the process cannot start with. Missing payment
// credentials are not startup errors: the checkout and webhook paths report
// them per request.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", store.DriverSQLite, store.DriverPostgres, c.DBDriver))
	}
	if c.DBSource == "" {
		errs = append(errs, errors.New("DB_SOURCE is required"))
	}
	if !currencyRe.MatchString(c.HomeCurrency) {
		errs = append(errs, fmt.Errorf("HOME_CURRENCY must be a three letter ISO code, got %q", c.HomeCurrency))
	}
	if !strings.HasPrefix(c.PublicBaseURL, "http://") && !strings.HasPrefix(c.PublicBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("PUBLIC_BASE_URL must be an absolute http(s) URL, got %q", c.PublicBaseURL))
	}
	if _, err := c.Proxies(); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE cannot be negative"))
	}
	if c.OutboundTimeout <= 0 {
		errs = append(errs, errors.New("OUTBOUND_TIMEOUT must be positive"))
	}
	if c.AdminTokenTTL <= 0 {
		errs = append(errs, errors.New("ADMIN_TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Brokers splits KAFKA_BROKERS into addresses, skipping blanks.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Proxies parses TRUSTED_PROXIES. Empty means X-Forwarded-For is never read.
func (c *Config) Proxies() ([]netip.Prefix, error) {
	return utils.ParseTrustedProxies(c.TrustedProxies)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger described by LOG_FORMAT and LOG_LEVEL.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
