package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port                int           `env:"PORT" envDefault:"8080"`
	DBDriver            string        `env:"DB_DRIVER" envDefault:"postgres"`
	Dsn                 string        `env:"DSN"`
	JwtSecret           string        `env:"JWT_SECRET"`
	JwtExpires          time.Duration `env:"JWT_EXPIRES" envDefault:"24h"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	TopLimit            int           `env:"TOP_LIMIT" envDefault:"10"`
	GithubClientID      string        `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret  string        `env:"GITHUB_CLIENT_SECRET"`
	GithubRedirectURL   string        `env:"GITHUB_REDIRECT_URL"`
	GoogleClientID      string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL   string        `env:"GOOGLE_REDIRECT_URL"`
	CloudinaryCloudName string        `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string        `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string        `env:"CLOUDINARY_API_SECRET"`
}

// New loads .env if present, then parses the environment.
func New(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if loadErr := godotenv.Load(file); loadErr != nil && !errors.Is(loadErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("[Env]: unable to load %s: %w", file, loadErr)
		}
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		return nil, fmt.Errorf("[Env]: failed to parse environment variables: %w", parseErr)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return &cfg, nil
}

// Validate reports the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}
	if strings.TrimSpace(c.Dsn) == "" {
		errs = append(errs, errors.New("DSN is required"))
	}
	if strings.TrimSpace(c.JwtSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JwtExpires <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	return errors.Join(errs...)
}
