package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto configuration keys. SHOP_DB_URL becomes db.url.
const EnvPrefix = "SHOP_"

// Provider exposes read-only access to the application configuration.
type Provider interface {
	GetHTTPPort() string
	GetAppBaseURL() string
	GetBodyLimit() string

	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration

	GetSessionSecret() string
	GetSessionStore() string
	GetSessionMaxAge() time.Duration

	GetPaymentProvider() string
	GetPaymentSecretKey() string
	GetPaymentCurrency() string

	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string

	GetStorageRoot() string
	GetMaxUploadSize() int64

	GetCatalogPageSize() int

	GetRedisURL() string
	GetCacheTTL() time.Duration

	GetLogFormat() string
	GetLogLevel() string

	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetTracingZipkinURL() string
}

// Config holds all configuration for the application.
type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	DB      DBConfig      `koanf:"db"`
	Session SessionConfig `koanf:"session"`
	Payment PaymentConfig `koanf:"payment"`
	Email   EmailConfig   `koanf:"email"`
	Storage StorageConfig `koanf:"storage"`
	Catalog CatalogConfig `koanf:"catalog"`
	Cache   CacheConfig   `koanf:"cache"`
	Log     LogConfig     `koanf:"log"`
	Tracing TracingConfig `koanf:"tracing"`
}

type HTTPConfig struct {
	Port      string `koanf:"port"`
	BaseURL   string `koanf:"baseurl"`
	BodyLimit string `koanf:"bodylimit"`
}

type DBConfig struct {
	URL            string        `koanf:"url"`
	Ns             string        `koanf:"ns"`
	Db             string        `koanf:"db"`
	User           string        `koanf:"user"`
	Pass           string        `koanf:"pass"`
	QueryTimeout   time.Duration `koanf:"querytimeout"`
	ExecuteTimeout time.Duration `koanf:"executetimeout"`
}

type SessionConfig struct {
	Secret string        `koanf:"secret"`
	Store  string        `koanf:"store"`
	MaxAge time.Duration `koanf:"maxage"`
}

type PaymentConfig struct {
	Provider  string `koanf:"provider"`
	SecretKey string `koanf:"secretkey"`
	Currency  string `koanf:"currency"`
}

type EmailConfig struct {
	Provider string `koanf:"provider"`
	APIKey   string `koanf:"apikey"`
	Sender   string `koanf:"sender"`
}

type StorageConfig struct {
	Root          string `koanf:"root"`
	MaxUploadSize int64  `koanf:"maxuploadsize"`
}

type CatalogConfig struct {
	PageSize int `koanf:"pagesize"`
}

type CacheConfig struct {
	RedisURL string        `koanf:"redisurl"`
	TTL      time.Duration `koanf:"ttl"`
}

type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// TracingConfig controls span export for the event bus. Off by default.
type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"servicename"`
	ZipkinURL   string `koanf:"zipkinurl"`
}

// Defaults returns a Config populated with the values used when neither the
// config file nor the environment set a key.
func Defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:      "3000",
			BaseURL:   "http://localhost:3000",
			BodyLimit: "10M",
		},
		DB: DBConfig{
			QueryTimeout:   5 * time.Second,
			ExecuteTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Store:  "database",
			MaxAge: 7 * 24 * time.Hour,
		},
		Payment: PaymentConfig{
			Provider: "log",
			Currency: "usd",
		},
		Email: EmailConfig{
			Provider: "log",
			Sender:   "Storefront <no-reply@storefront.local>",
		},
		Storage: StorageConfig{
			Root:          "data",
			MaxUploadSize: 5 << 20,
		},
		Catalog: CatalogConfig{PageSize: 3},
		Cache:   CacheConfig{TTL: 15 * time.Minute},
		Log:     LogConfig{Format: "text", Level: "debug"},
		Tracing: TracingConfig{
			ServiceName: "storefront",
			ZipkinURL:   "http://localhost:9411/api/v2/spans",
		},
	}
}

// New loads a .env file if present, then the optional YAML file named by
// CONFIG_FILE, then SHOP_* environment variables, and validates the result.
func New() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKey(key), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps SHOP_DB_QUERYTIMEOUT to db.querytimeout.
func envKey(raw string) string {
	key := strings.TrimPrefix(raw, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.DB.URL == "" || c.DB.Ns == "" || c.DB.Db == "":
		return errors.New("db.url, db.ns and db.db are required (SHOP_DB_URL, SHOP_DB_NS, SHOP_DB_DB)")
	case len(c.Session.Secret) < 32:
		return errors.New("session.secret must be at least 32 bytes (SHOP_SESSION_SECRET)")
	case c.Session.Store != "database" && c.Session.Store != "cookie":
		return errors.Errorf("unknown session store %q", c.Session.Store)
	case c.Payment.Provider == "stripe" && c.Payment.SecretKey == "":
		return errors.New("payment provider is 'stripe' but payment.secretkey is not set")
	case c.Email.Provider == "resend" && c.Email.APIKey == "":
		return errors.New("email provider is 'resend' but email.apikey is not set")
	case c.Catalog.PageSize <= 0:
		return errors.New("catalog.pagesize must be positive")
	case c.DB.QueryTimeout <= 0 || c.DB.ExecuteTimeout <= 0:
		return errors.New("db timeouts must be positive durations")
	case c.Tracing.Enabled && c.Tracing.ZipkinURL == "":
		return errors.New("tracing is enabled but tracing.zipkinurl is not set")
	}
	return nil
}

func (c *Config) GetHTTPPort() string   { return c.HTTP.Port }
func (c *Config) GetAppBaseURL() string { return strings.TrimRight(c.HTTP.BaseURL, "/") }
func (c *Config) GetBodyLimit() string  { return c.HTTP.BodyLimit }

func (c *Config) GetDBURL() string                   { return c.DB.URL }
func (c *Config) GetDBNs() string                    { return c.DB.Ns }
func (c *Config) GetDBDb() string                    { return c.DB.Db }
func (c *Config) GetDBUser() string                  { return c.DB.User }
func (c *Config) GetDBPass() string                  { return c.DB.Pass }
func (c *Config) GetDBQueryTimeout() time.Duration   { return c.DB.QueryTimeout }
func (c *Config) GetDBExecuteTimeout() time.Duration { return c.DB.ExecuteTimeout }

func (c *Config) GetSessionSecret() string        { return c.Session.Secret }
func (c *Config) GetSessionStore() string         { return c.Session.Store }
func (c *Config) GetSessionMaxAge() time.Duration { return c.Session.MaxAge }

func (c *Config) GetPaymentProvider() string  { return c.Payment.Provider }
func (c *Config) GetPaymentSecretKey() string { return c.Payment.SecretKey }
func (c *Config) GetPaymentCurrency() string  { return c.Payment.Currency }

func (c *Config) GetEmailProvider() string { return c.Email.Provider }
func (c *Config) GetEmailAPIKey() string   { return c.Email.APIKey }
func (c *Config) GetEmailSender() string   { return c.Email.Sender }

func (c *Config) GetStorageRoot() string  { return c.Storage.Root }
func (c *Config) GetMaxUploadSize() int64 { return c.Storage.MaxUploadSize }

func (c *Config) GetCatalogPageSize() int { return c.Catalog.PageSize }

func (c *Config) GetRedisURL() string        { return c.Cache.RedisURL }
func (c *Config) GetCacheTTL() time.Duration { return c.Cache.TTL }

func (c *Config) GetLogFormat() string { return c.Log.Format }
func (c *Config) GetLogLevel() string  { return c.Log.Level }

func (c *Config) GetTracingEnabled() bool       { return c.Tracing.Enabled }
func (c *Config) GetTracingServiceName() string { return c.Tracing.ServiceName }
func (c *Config) GetTracingZipkinURL() string   { return c.Tracing.ZipkinURL }
