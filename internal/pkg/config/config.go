package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=5000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth    AuthConfig
	CORS    CORSConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Stripe  StripeConfig
	Storage StorageConfig
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET,       required"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,        default=168h"`
	CookieSecure bool          `env:"COOKIE_SECURE,    default=false"`
	RateLimit    int           `env:"AUTH_RATE_LIMIT,  default=20"`
	RateWindow   time.Duration `env:"AUTH_RATE_WINDOW, default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173,https://practice-ecom-frontend.vercel.app"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=ecommerce"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	// OpTimeout keeps a slow Redis from stalling login; the limiter fails open.
	OpTimeout time.Duration `env:"REDIS_OP_TIMEOUT, default=1s"`
}

type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency  string `env:"STRIPE_CURRENCY, default=inr"`
}

// StorageConfig configures product image uploads. Uploads are disabled when
// Endpoint is empty.
type StorageConfig struct {
	Endpoint      string `env:"MINIO_ENDPOINT"`
	AccessKey     string `env:"MINIO_ACCESS_KEY"`
	SecretKey     string `env:"MINIO_SECRET_KEY"`
	Bucket        string `env:"MINIO_BUCKET,    default=product-images"`
	UseSSL        bool   `env:"MINIO_USE_SSL,   default=false"`
	PublicURL     string `env:"MINIO_PUBLIC_URL"`
	MaxImageBytes int64  `env:"MAX_IMAGE_BYTES, default=5242880"`
}

// Enabled reports whether object storage is configured.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

// IsDevelopment enables pretty logs and similar conveniences.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	origins := cfg.CORS.AllowedOrigins[:0]
	for _, o := range cfg.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORS.AllowedOrigins = origins

	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	return &cfg, nil
}
