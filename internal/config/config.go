package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; nested structs group the settings that belong to
// a single collaborator (database, redis, OAuth providers, tracing).
type Config struct {
	Env           string        `env:"APP_ENV" envDefault:"dev"`                           // application environment (e.g. "dev", "prod")
	Port          string        `env:"APP_PORT" envDefault:"5000"`                         // HTTP port to listen on
	APIPrefix     string        `env:"API_PREFIX" envDefault:"/api/v1"`                    // prefix of every API route
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5000"` // external URL used to build OAuth callbacks
	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`                       // secret used to sign JWTs
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`                   // access token time-to-live
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`                // refresh token time-to-live
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`                        // bcrypt cost for password hashing
	DateFormat    string        `env:"DATE_FORMAT" envDefault:"02/01/2006 15:04:05"`       // layout of event_date in session history
	RabbitURL     string        `env:"RABBITMQ_URL"`                                       // login event broker; empty disables publishing

	DB        DBConfig        `envPrefix:"DB_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Yandex    OAuthClient     `envPrefix:"YANDEX_"`
	VK        OAuthClient     `envPrefix:"VK_"`
	Telemetry TelemetryConfig `envPrefix:"OTEL_"`
}

// DBConfig describes how to reach the relational store.  When DSN is set it
// is passed to the driver untouched; otherwise one is assembled from the
// individual parts.
type DBConfig struct {
	Driver string `env:"DRIVER" envDefault:"mysql"` // mysql | postgres | sqlite
	DSN    string `env:"DSN"`
	User   string `env:"USER" envDefault:"root"`
	Pass   string `env:"PASS"`
	Host   string `env:"HOST" envDefault:"127.0.0.1"`
	Port   string `env:"PORT"`
	Name   string `env:"NAME" envDefault:"auth"`
}

// OAuthClient carries the credentials the service was issued by a provider.
type OAuthClient struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

// TelemetryConfig toggles OTLP trace export.
type TelemetryConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	Endpoint string `env:"ENDPOINT"`
}

// Parse reads configuration values from the environment.  A .env file in
// the working directory is loaded first when present; variables already set
// in the process environment win over the file.
func Parse() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load is like Parse but halts the program when configuration is invalid.
func Load() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

func (c Config) validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.AccessTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.RefreshTTL < c.AccessTTL {
		return errors.New("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST out of range: %d", c.BcryptCost)
	}
	return nil
}

// DataSourceName returns the data source name for the configured driver.
func (d DBConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case "postgres":
		port := d.Port
		if port == "" {
			port = "5432"
		}
		auth := d.User
		if d.Pass != "" {
			auth = d.User + ":" + d.Pass
		}
		return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable", auth, d.Host, port, d.Name)
	case "sqlite":
		return fmt.Sprintf("file:%s.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", d.Name)
	default:
		port := d.Port
		if port == "" {
			port = "3306"
		}
		auth := d.User
		if d.Pass != "" {
			auth = fmt.Sprintf("%s:%s", d.User, d.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC", auth, d.Host, port, d.Name)
	}
}

// CallbackURL builds the absolute URL a provider redirects back to.
func (c Config) CallbackURL(provider string) string {
	return strings.TrimRight(c.PublicBaseURL, "/") + c.APIPrefix + "/sessions/" + provider
}
