// Package config loads server settings from the environment.
//
// A .env file in the working directory is read first if present. Variables
// already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultPort        = 8080
	DefaultDBPath      = "data/studyquest.db"
	DefaultTokenTTL    = 24 * time.Hour
	DefaultBcryptCost  = 12
	DefaultCORSOrigin  = "http://localhost:3000"
	MinJWTSecretLength = 16
)

// Config holds every runtime setting.
type Config struct {
	Port       int
	DBPath     string
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	LogLevel  string
	LogFormat string

	// Location decides where "today", Monday and the first of the month
	// fall for the weekly and monthly windows.
	Location *time.Location

	CORSAllowedOrigins []string
	SecureCookies      bool

	GitHub GitHubConfig
}

// GitHubConfig enables GitHub sign-in when both ClientID and ClientSecret
// are set.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

func (g GitHubConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// Load reads the given .env files (".env" when none are named; a missing
// default file is fine) and then parses the environment. Every invalid
// variable is reported, not just the first.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: reading .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", strings.Join(envFiles, ", "), err)
	}
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (Config, error) {
	var errs []error
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		DBPath:    get("DB_PATH", DefaultDBPath),
		JWTSecret: getenv("JWT_SECRET"),
		LogLevel:  strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(get("LOG_FORMAT", "text")),
		GitHub: GitHubConfig{
			ClientID:     get("GITHUB_CLIENT_ID", ""),
			ClientSecret: get("GITHUB_CLIENT_SECRET", ""),
		},
	}

	port, err := strconv.Atoi(get("PORT", strconv.Itoa(DefaultPort)))
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", getenv("PORT")))
	}
	cfg.Port = port

	switch {
	case cfg.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case len(cfg.JWTSecret) < MinJWTSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}

	cfg.TokenTTL = DefaultTokenTTL
	if raw := get("TOKEN_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			errs = append(errs, fmt.Errorf("TOKEN_TTL must be a positive duration such as 24h, got %q", raw))
		}
		cfg.TokenTTL = ttl
	}

	cost, err := strconv.Atoi(get("BCRYPT_COST", strconv.Itoa(DefaultBcryptCost)))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %q",
			bcrypt.MinCost, bcrypt.MaxCost, getenv("BCRYPT_COST")))
	}
	cfg.BcryptCost = cost

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat))
	}

	loc, err := time.LoadLocation(get("TIMEZONE", "Local"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
		loc = time.Local
	}
	cfg.Location = loc

	for _, origin := range strings.Split(get("CORS_ALLOWED_ORIGINS", DefaultCORSOrigin), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if raw := get("COOKIE_SECURE", ""); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("COOKIE_SECURE must be true or false, got %q", raw))
		}
		cfg.SecureCookies = secure
	}

	if (cfg.GitHub.ClientID == "") != (cfg.GitHub.ClientSecret == "") {
		errs = append(errs, errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set together"))
	}
	cfg.GitHub.CallbackURL = get("GITHUB_CALLBACK_URL",
		fmt.Sprintf("http://localhost:%d/api/auth/github/callback", cfg.Port))

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
