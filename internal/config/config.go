// Package config centralizes loader configuration. All tunables live outside
// the code and are sourced from command-line flags with environment-variable
// fallbacks (12-factor friendly). Flags are defined first so that `-help`
// shows every knob and its default.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-batch_size=100"})
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// Config holds all process configuration derived from flags and environment
// variables. All fields are plain values so the struct can be safely copied
// after construction.
type Config struct {
	// IO controls input and diagnostic file locations.
	CatalogCSV string // Path to the catalog export.
	SkippedDir string // Directory for skipped-row CSV logs; empty disables them.

	// DB describes the target database. DSN wins when set; otherwise a
	// Postgres URL is assembled from the discrete parts.
	DSN        string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Ingestion tunables.
	BatchSize    int    // Rows per atomic sub-batch (one transaction each).
	Policy       string // Numeric-field policy: "lenient" or "strict".
	EnsureSchema bool   // Create target tables when absent.

	// PrettyLogs switches console-formatted logs on (for humans).
	PrettyLogs bool
}

// PostgresDSN assembles a connection URL from the discrete DB_* parts.
func (c *Config) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag to
// an environment-variable fallback via getenv, and then parsing args.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	envOr := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOr := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOr := func(k string, d bool) bool {
		switch strings.ToLower(getenv(k)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}

	// IO paths
	fs.StringVar(&cfg.CatalogCSV, "catalog_csv", envOr("CATALOG_CSV", "data/amazon.csv"), "Path to the catalog export CSV")
	fs.StringVar(&cfg.SkippedDir, "skipped_dir", envOr("SKIPPED_DIR", "./skipped"), "Directory for skipped-row CSV logs (empty disables)")

	// DB connectivity
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full Postgres DSN (overrides db_* parts)")
	fs.StringVar(&cfg.DBUser, "db_user", envOr("DB_USER", "user"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", envOr("DB_PASSWORD", "password"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", envOr("DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOr("DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", envOr("DB_NAME", "testdb"), "DB name")

	// Ingestion tunables
	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOr("BATCH_SIZE", 5000), "Rows per atomic sub-batch")
	fs.StringVar(&cfg.Policy, "policy", envOr("POLICY", "lenient"), "Numeric-field policy: lenient or strict")
	fs.BoolVar(&cfg.EnsureSchema, "ensure_schema", boolEnvOr("ENSURE_SCHEMA", true), "Create target tables when absent")

	fs.BoolVar(&cfg.PrettyLogs, "log_pretty", boolEnvOr("LOG_PRETTY", true), "Console-formatted logs")

	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	return cfg
}

// LoadFrom is a compatibility wrapper around LoadFromArgs for call sites
// that don't need to pass args explicitly (useful in some tests).
func LoadFrom(fs *flag.FlagSet, getenv func(string) string) *Config {
	return LoadFromArgs(fs, getenv, nil)
}

// Load is the production entry point: process flags, os.Getenv, os.Args.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}
