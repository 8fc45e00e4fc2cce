// Package config loads the tasks service configuration. Values come from
// built-in defaults, then an optional YAML file named by CONFIG_FILE, then
// the environment (including a .env file in the working directory).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

type Config struct {
	ServerPort        string          `yaml:"server_port"`
	StoreDriver       string          `yaml:"store_driver"`
	JWTSecret         string          `yaml:"jwt_secret"`
	RedisURL          string          `yaml:"redis_url"`
	DashboardCacheTTL time.Duration   `yaml:"dashboard_cache_ttl"`
	RecentTasksLimit  int64           `yaml:"recent_tasks_limit"`
	Mongo             MongoConfig     `yaml:"mongo"`
	Cassandra         CassandraConfig `yaml:"cassandra"`
	Breaker           BreakerConfig   `yaml:"breaker"`
	Log               LogConfig       `yaml:"log"`
}

type MongoConfig struct {
	URI             string `yaml:"uri"`
	DBName          string `yaml:"db_name"`
	TasksCollection string `yaml:"tasks_collection"`
	UsersCollection string `yaml:"users_collection"`
}

type CassandraConfig struct {
	// Hosts empty keeps the activity log in memory.
	Hosts    []string `yaml:"hosts"`
	Keyspace string   `yaml:"keyspace"`
}

type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	Console    bool   `yaml:"console"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

func Default() *Config {
	return &Config{
		ServerPort:        "8000",
		StoreDriver:       StoreDriverMongo,
		DashboardCacheTTL: 30 * time.Second,
		RecentTasksLimit:  10,
		Mongo: MongoConfig{
			DBName:          "task_manager",
			TasksCollection: "tasks",
			UsersCollection: "users",
		},
		Cassandra: CassandraConfig{Keyspace: "task_activity"},
		Breaker: BreakerConfig{
			MaxFailures: 3,
			Timeout:     5 * time.Second,
		},
		Log: LogConfig{
			File:       "logs/tasks.log",
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		},
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.ServerPort, "SERVER_PORT")
	setString(&c.StoreDriver, "STORE_DRIVER")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.DBName, "MONGO_DB_NAME")
	setString(&c.Mongo.TasksCollection, "MONGO_TASKS_COLLECTION")
	setString(&c.Mongo.UsersCollection, "MONGO_USERS_COLLECTION")
	setString(&c.Cassandra.Keyspace, "CASS_KEYSPACE")
	setString(&c.Log.File, "LOG_FILE")
	setString(&c.Log.Level, "LOG_LEVEL")

	if hosts := os.Getenv("CASS_DB"); hosts != "" {
		c.Cassandra.Hosts = splitList(hosts)
	}

	var errs []error
	errs = append(errs,
		setDuration(&c.DashboardCacheTTL, "DASHBOARD_CACHE_TTL"),
		setDuration(&c.Breaker.Timeout, "BREAKER_TIMEOUT"),
		setBool(&c.Log.Console, "LOG_CONSOLE"),
	)
	if v := os.Getenv("BREAKER_MAX_FAILURES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid BREAKER_MAX_FAILURES %q: %w", v, err))
		} else {
			c.Breaker.MaxFailures = uint32(n)
		}
	}
	if v := os.Getenv("RECENT_TASKS_LIMIT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid RECENT_TASKS_LIMIT %q: %w", v, err))
		} else {
			c.RecentTasksLimit = n
		}
	}
	return errors.Join(errs...)
}

// cqlIdentifier matches an unquoted CQL name. The keyspace is spliced into
// schema statements, which cannot take bind parameters.
var cqlIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate reports configuration that cannot start the service.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGO_URI is required for the mongo store driver")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RecentTasksLimit <= 0 {
		return errors.New("RECENT_TASKS_LIMIT must be positive")
	}
	if !cqlIdentifier.MatchString(c.Cassandra.Keyspace) {
		return fmt.Errorf("CASS_KEYSPACE %q is not a valid keyspace name", c.Cassandra.Keyspace)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
