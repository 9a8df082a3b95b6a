package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/willemschots/openidstore/internal/db"
)

const (
	// envFileEnv names the environment variable that points to an optional
	// .env file. Variables already present in the environment take precedence.
	envFileEnv     = "ENV_FILE"
	defaultEnvFile = ".env"
)

// httpConfig is the configuration for the HTTP server.
type httpConfig struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
}

// dbConfig is the configuration for the database.
type dbConfig struct {
	dialect db.Dialect
	// file is the SQLite database file.
	file string
	// dsn is the Postgres connection string.
	dsn     string
	migrate bool
}

// config is the configuration for the server command.
type config struct {
	http     httpConfig
	db       dbConfig
	logLevel slog.Level
}

// defaultConfig returns a config with sane default values.
func defaultConfig() config {
	return config{
		http: httpConfig{
			addr:            ":8888",
			readTimeout:     time.Second * 5,
			writeTimeout:    time.Second * 10,
			idleTimeout:     time.Second * 120,
			shutdownTimeout: time.Second * 15,
		},
		db: dbConfig{
			dialect: db.DialectSQLite,
			file:    "openid.db",
			migrate: true,
		},
		logLevel: slog.LevelInfo,
	}
}

// envMap maps environment variable names to fields in the config struct.
var envMap = map[string]func(v string, c *config) error{
	"HTTP_ADDR": func(v string, c *config) error {
		c.http.addr = v
		return nil
	},
	"HTTP_READ_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.readTimeout, 0, math.MaxInt64)
	},
	"HTTP_WRITE_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.writeTimeout, 0, math.MaxInt64)
	},
	"HTTP_IDLE_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.idleTimeout, 0, math.MaxInt64)
	},
	"HTTP_SHUTDOWN_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.shutdownTimeout, 0, math.MaxInt64)
	},
	"DB_DRIVER": func(v string, c *config) error {
		d, err := db.ParseDialect(v)
		if err != nil {
			return err
		}
		c.db.dialect = d
		return nil
	},
	"DB_FILENAME": func(v string, c *config) error {
		if v == "" {
			return errors.New("empty filename")
		}
		c.db.file = v
		return nil
	},
	"DB_DSN": func(v string, c *config) error {
		c.db.dsn = v
		return nil
	},
	"DB_MIGRATE": func(v string, c *config) error {
		return confBool(v, &c.db.migrate)
	},
	"LOG_LEVEL": func(v string, c *config) error {
		return c.logLevel.UnmarshalText([]byte(v))
	},
}

// configFromEnv returns a config with values from the environment. It falls
// back to default values for any missing environment variables.
//
// It does a best effort to validate provided values, so that mistakes are
// caught ASAP. However, there is no guarantee that the returned config
// is valid and will work.
func configFromEnv() (config, error) {
	c := defaultConfig()

	var errs []error
	for key, mf := range envMap {
		if val, ok := os.LookupEnv(key); ok {
			if err := mf(val, &c); err != nil {
				errs = append(errs, fmt.Errorf("invalid env variable %s: %w", key, err))
			}
		}
	}

	if c.db.dialect == db.DialectPostgres && c.db.dsn == "" {
		errs = append(errs, errors.New("env variable DB_DSN is required when DB_DRIVER is postgres"))
	}

	return c, errors.Join(errs...)
}

// loadEnvFile loads the file named by ENV_FILE (or .env) into the environment.
// A missing file is not an error.
func loadEnvFile() (string, error) {
	name := defaultEnvFile
	if v, ok := os.LookupEnv(envFileEnv); ok && v != "" {
		name = v
	}

	_, err := os.Stat(name)
	if errors.Is(err, os.ErrNotExist) {
		return name, nil
	}

	if err != nil {
		return name, err
	}

	return name, godotenv.Load(name)
}

// confDuration attempts to parse v into tgt and checks if the result is in
// the provided range (inclusive).
func confDuration(v string, tgt *time.Duration, min, max time.Duration) error {
	dur, err := time.ParseDuration(v)
	if err != nil {
		return err
	}

	if dur < min || dur > max {
		return fmt.Errorf("duration %s not in range [%s, %s] (inclusive)", dur, min, max)
	}

	*tgt = dur

	return nil
}

func confBool(v string, tgt *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}

	*tgt = b

	return nil
}
