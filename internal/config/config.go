// Package config loads runtime settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when the environment does not say otherwise.
const (
	DefaultTimezone     = "America/Chicago"
	DefaultRequestDelay = time.Second
	DefaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultHookLadder   = "https://thehookmpls.com/events/?ical=1"
	DefaultPostgresPort = "5432"
)

// ErrNoDatabase is returned by DSN when neither DATABASE_URL nor DB_NAME is set.
var ErrNoDatabase = errors.New("no database configured: set DATABASE_URL or DB_HOST/DB_NAME")

// Config holds everything the scrapers, store and server need at startup.
type Config struct {
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBName      string
	DBUser      string
	DBPassword  string

	Location *time.Location

	ChromeBin         string
	ChromeDebuggerURL string
	Headless          bool

	RequestDelay time.Duration
	UserAgent    string

	HookLadderICS string
	LogLevel      string
}

// Load reads the optional .env files and then the process environment.
// A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getenv("DATABASE_URL"),
		DBHost:            getenv("DB_HOST"),
		DBPort:            orDefault(getenv("DB_PORT"), DefaultPostgresPort),
		DBName:            getenv("DB_NAME"),
		DBUser:            getenv("DB_USER"),
		DBPassword:        getenv("DB_PASSWORD"),
		ChromeBin:         getenv("CHROME_BIN"),
		ChromeDebuggerURL: getenv("CHROME_DEBUGGER_URL"),
		Headless:          true,
		RequestDelay:      DefaultRequestDelay,
		UserAgent:         orDefault(getenv("TCUP_USER_AGENT"), DefaultUserAgent),
		HookLadderICS:     orDefault(getenv("HOOK_LADDER_ICS"), DefaultHookLadder),
		LogLevel:          orDefault(getenv("TCUP_LOG_LEVEL"), "info"),
	}

	tz := orDefault(getenv("TCUP_TZ"), DefaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TCUP_TZ %q: %w", tz, err)
	}
	cfg.Location = loc

	if v := getenv("TCUP_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TCUP_HEADLESS %q: %w", v, err)
		}
		cfg.Headless = b
	}

	if v := getenv("TCUP_REQUEST_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TCUP_REQUEST_DELAY %q: %w", v, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid TCUP_REQUEST_DELAY %q: must not be negative", v)
		}
		cfg.RequestDelay = d
	}

	return cfg, nil
}

// DSN returns the database connection string. DATABASE_URL wins; otherwise a
// postgres URL is assembled from the DB_* variables.
func (c *Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBName == "" {
		return "", ErrNoDatabase
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   orDefault(c.DBHost, "localhost") + ":" + orDefault(c.DBPort, DefaultPostgresPort),
		Path:   "/" + c.DBName,
	}
	switch {
	case c.DBUser != "" && c.DBPassword != "":
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	case c.DBUser != "":
		u.User = url.User(c.DBUser)
	}
	return u.String(), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
