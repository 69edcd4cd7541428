// internal/config/config.go
//
// Environment-driven configuration for the solver service.
// Values come from the process environment; main loads .env first via
// godotenv, so a local .env file works the same as exported variables.
// Unset or empty variables fall back to defaults; unparsable numbers and
// durations fall back too and are reported as warnings.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast-solver/internal/search"
)

// Config is the resolved service configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "json" or "console"

	DBPath    string
	WordsFile string // empty means the embedded list

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	Results          int
	Filter           string
	SwapMinLen       int
	SwapMaxLen       int
	DoubleSwapMinLen int
	DoubleSwapMaxLen int
	Workers          int
	SearchTimeout    time.Duration
	JobTimeout       time.Duration
	JobConcurrency   int
	JobRetention     time.Duration
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:      getEnv("PORT", "5175"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		DBPath:    getEnv("DB_PATH", "./data/spellcast.db"),
		WordsFile: os.Getenv("WORDS_FILE"),

		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "spellcast_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",

		Results:          getInt("SEARCH_RESULTS", 3),
		Filter:           getEnv("SEARCH_FILTER", "simple"),
		SwapMinLen:       getInt("SWAP_MIN_LEN", 6),
		SwapMaxLen:       getInt("SWAP_MAX_LEN", 10),
		DoubleSwapMinLen: getInt("DOUBLE_SWAP_MIN_LEN", 11),
		DoubleSwapMaxLen: getInt("DOUBLE_SWAP_MAX_LEN", 16),
		Workers:          getInt("SEARCH_WORKERS", 0),
		SearchTimeout:    getDuration("SEARCH_TIMEOUT", 10*time.Second),
		JobTimeout:       getDuration("JOB_TIMEOUT", 15*time.Minute),
		JobConcurrency:   max(getInt("JOB_CONCURRENCY", 1), 1),
		JobRetention:     getDuration("JOB_RETENTION", time.Hour),
	}
}

// SearchDefaults builds the search settings used when a request leaves a
// field out. The mode is always NoSwap; requests pick their own.
func (c Config) SearchDefaults() (search.Config, error) {
	f, err := search.ParseFilterMode(c.Filter)
	if err != nil {
		return search.Config{}, err
	}
	sc := search.Config{
		Filter:            f,
		Mode:              search.NoSwap,
		Results:           c.Results,
		SingleSwapLengths: search.LengthRange{Min: c.SwapMinLen, Max: c.SwapMaxLen},
		DoubleSwapLengths: search.LengthRange{Min: c.DoubleSwapMinLen, Max: c.DoubleSwapMaxLen},
		Workers:           c.Workers,
	}
	// Validate every mode so a bad range fails at startup, not per request.
	for _, m := range []search.Mode{search.NoSwap, search.SingleSwap, search.DoubleSwap} {
		probe := sc
		probe.Mode = m
		if err := probe.Validate(); err != nil {
			return search.Config{}, err
		}
	}
	return sc, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Msg("not a positive duration, using default")
		return def
	}
	return d
}
