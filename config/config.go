package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Paystack     PaystackConfig
	Subscription SubscriptionConfig
	Mail         MailConfig
	Firebase     FirebaseConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	PublicBaseURL string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver          string // mysql | postgres | sqlite
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
	// Currency used for transfer recipients.
	Currency string
}

type SubscriptionConfig struct {
	PriceKobo int64
	Period    time.Duration
}

type MailConfig struct {
	ResendAPIKey string
	From         string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type RedisConfig struct {
	Addr     string
	PoolSize int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	// Storefront frontend origin; buyers return to {public_base_url}/store/{slug}/payment.
	v.SetDefault("server.public_base_url", "")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 45*time.Second)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "carty:carty@tcp(localhost:3306)/carty?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("jwt.access_secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", 30*24*time.Hour)
	v.SetDefault("jwt.issuer", "carty")

	v.SetDefault("paystack.base_url", "https://api.paystack.co")
	v.SetDefault("paystack.secret_key", "")
	v.SetDefault("paystack.timeout", 30*time.Second)
	v.SetDefault("paystack.currency", "NGN")

	v.SetDefault("subscription.price_kobo", 750000)
	v.SetDefault("subscription.period", 30*24*time.Hour)

	v.SetDefault("mail.resend_api_key", "")
	v.SetDefault("mail.from", "CartY <orders@resend.dev>")

	v.SetDefault("firebase.service_account_path", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)
}

// Load reads defaults, an optional config.yaml (working dir or ./config) and
// CARTY_* environment variables, in increasing priority.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("carty")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return &Config{
		Server: ServerConfig{
			Port:          v.GetString("server.port"),
			Env:           v.GetString("server.env"),
			PublicBaseURL: strings.TrimRight(v.GetString("server.public_base_url"), "/"),
			ReadTimeout:   v.GetDuration("server.read_timeout"),
			WriteTimeout:  v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			DSN:             v.GetString("database.dsn"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("jwt.access_secret"),
			AccessExpiry: v.GetDuration("jwt.access_expiry"),
			Issuer:       v.GetString("jwt.issuer"),
		},
		Paystack: PaystackConfig{
			BaseURL:   v.GetString("paystack.base_url"),
			SecretKey: v.GetString("paystack.secret_key"),
			Timeout:   v.GetDuration("paystack.timeout"),
			Currency:  v.GetString("paystack.currency"),
		},
		Subscription: SubscriptionConfig{
			PriceKobo: v.GetInt64("subscription.price_kobo"),
			Period:    v.GetDuration("subscription.period"),
		},
		Mail: MailConfig{
			ResendAPIKey: v.GetString("mail.resend_api_key"),
			From:         v.GetString("mail.from"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: v.GetString("firebase.service_account_path"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rate_limit.requests"),
			Window:   v.GetDuration("rate_limit.window"),
		},
	}, nil
}
