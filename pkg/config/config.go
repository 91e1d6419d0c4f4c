package config

import (
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	CatalogAPIToken           string
	CatalogAPIURL             string
	CatalogRequestTimeout     time.Duration
	DatabaseBusyTimeout       time.Duration
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	DatabaseDebug             bool
	DatabaseFilePath          string
	DatabaseMaxRetries        int
	FrontendURL               string
	Hostname                  string
	JWTSecret                 string
	ServerHost                string
	ServerPort                int
}

const defaultConfigFile = "./config.yaml"

// New loads configuration from an optional YAML file (path taken from the
// CONFIG_FILE env var) with environment variables taking precedence. Keys in
// the file are the snake_case form of the struct field names; env vars are the
// same keys uppercased.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		CatalogAPIURL:             "https://api.hardcover.app/v1/graphql",
		CatalogRequestTimeout:     10 * time.Second,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        3,
		Hostname:                  hostname,
		ServerHost:                "0.0.0.0",
		ServerPort:                4000,
	}

	k := koanf.New(".")

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	// A missing config file is fine; env vars alone can configure everything.
	_ = k.Load(file.Provider(configFile), yaml.Parser())

	err = k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if v := k.String("catalog_api_token"); v != "" {
		cfg.CatalogAPIToken = v
	}
	if v := k.String("catalog_api_url"); v != "" {
		cfg.CatalogAPIURL = v
	}
	if v := k.String("database_file_path"); v != "" {
		cfg.DatabaseFilePath = v
	}
	if k.Exists("database_debug") {
		cfg.DatabaseDebug = k.Bool("database_debug")
	}
	if v := k.String("frontend_url"); v != "" {
		cfg.FrontendURL = v
	}
	if v := k.String("jwt_secret"); v != "" {
		cfg.JWTSecret = v
	}
	if v := k.String("server_host"); v != "" {
		cfg.ServerHost = v
	}
	if v := k.Int("server_port"); v != 0 {
		cfg.ServerPort = v
	}

	missing := []string{}
	if cfg.DatabaseFilePath == "" {
		missing = append(missing, "DatabaseFilePath")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWTSecret")
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for _, field := range missing {
			key := toSnakeCase(field)
			keys = append(keys, strings.ToUpper(key)+" ("+key+")")
		}
		return nil, errors.Errorf("missing required config: %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// NewForTest returns a config suitable for tests: in-memory database and a
// throwaway JWT secret.
func NewForTest() *Config {
	return &Config{
		CatalogAPIURL:             "https://api.hardcover.app/v1/graphql",
		CatalogRequestTimeout:     time.Second,
		DatabaseBusyTimeout:       time.Second,
		DatabaseConnectRetryCount: 1,
		DatabaseConnectRetryDelay: time.Millisecond,
		DatabaseFilePath:          ":memory:",
		DatabaseMaxRetries:        3,
		JWTSecret:                 "test-jwt-secret",
		ServerHost:                "127.0.0.1",
		ServerPort:                0,
	}
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
