package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	defaultPort     = "8080"
	defaultLocalAPI = "http://localhost:" + defaultPort
)

type Config struct {
	Env             string
	HTTPAddr        string
	Storage         string
	DBDriver        string
	DBDSN           string
	SQLitePath      string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type ClientConfig struct {
	Env     string
	APIURL  string
	Timeout time.Duration
}

// loadDotEnv reads .env into the environment when the file exists. Variables
// already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getlist(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load builds the server configuration from .env, the environment and flags.
func Load() Config {
	loadDotEnv()
	var addr string
	var storage string
	var env string
	flag.StringVar(&addr, "http", ListenAddr(os.Getenv("HOST"), os.Getenv("PORT")), "listen address")
	flag.StringVar(&storage, "storage", getenv("STORAGE", StorageMemory), "memory, sqlite or postgres")
	flag.StringVar(&env, "env", getenv("APP_ENV", EnvDevelopment), "development or production")
	flag.Parse()
	return Config{
		Env:             env,
		HTTPAddr:        addr,
		Storage:         storage,
		DBDriver:        getenv("DB_DRIVER", "pgx"),
		DBDSN:           getenv("DB_DSN", ""),
		SQLitePath:      getenv("SQLITE_PATH", "data/users.db"),
		CORSOrigins:     getlist("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout: getdur("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// ListenAddr joins host and port, binding every interface on port 8080 by default.
func ListenAddr(host, port string) string {
	if host == "" {
		host = "0.0.0.0"
	}
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}

// LoadClient builds the client configuration from .env, the environment and flags.
func LoadClient() (ClientConfig, error) {
	loadDotEnv()
	env := getenv("APP_ENV", EnvDevelopment)
	base, err := ResolveAPIURL(env, os.Getenv("API_URL"), os.Getenv("PUBLIC_ORIGIN"))
	if err != nil {
		base = ""
	}
	var apiURL string
	var timeout time.Duration
	flag.StringVar(&apiURL, "api", base, "base URL of the user service")
	flag.DurationVar(&timeout, "timeout", getdur("API_TIMEOUT", 10*time.Second), "request timeout")
	flag.Parse()
	if apiURL == "" {
		if err == nil {
			err = errors.New("empty api url")
		}
		return ClientConfig{}, err
	}
	return ClientConfig{Env: env, APIURL: strings.TrimRight(apiURL, "/"), Timeout: timeout}, nil
}

// ResolveAPIURL picks the service base URL: an explicit override always wins,
// development falls back to the local server and every other env to the public origin.
func ResolveAPIURL(env, override, origin string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env == EnvDevelopment {
		return defaultLocalAPI, nil
	}
	if origin == "" {
		return "", fmt.Errorf("%s needs API_URL or PUBLIC_ORIGIN", env)
	}
	return origin, nil
}
