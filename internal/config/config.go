// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/unclebandit/campaign-studio/internal/logx"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type ManagerConfig struct {
	Mode          string
	Port          string
	BackendURL    string
	RemoteTimeout time.Duration
	LocalDBPath   string
	LocalLatency  time.Duration
	OpenAIKey     string
	OpenAIBaseURL string
	DemoUsername  string
	DemoPassword  string
}

// Offline reports whether the remote backend should be skipped entirely.
func (c ManagerConfig) Offline() bool { return c.Mode == ModeProduction }

type Database struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
}

func (d Database) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Posting controls when the worker treats a scheduled campaign as due.
type Posting struct {
	Interval time.Duration
	Location *time.Location
}

type ServerConfig struct {
	Port    string
	DB      Database
	RMQURL  string
	Queue   string
	Posting Posting
}

type WorkerConfig struct {
	DB      Database
	RMQURL  string
	Queue   string
	Posting Posting
}

type SeederConfig struct {
	DB           Database
	DemoUsername string
	DemoPassword string
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		logx.L().Warnw("dotenv_missing", "hint", "relying on OS environment variables")
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) (string, error) {
	v := os.Getenv(k)
	if v == "" {
		return "", fmt.Errorf("required env %s is not set", k)
	}
	return v, nil
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", k, err)
	}
	return d, nil
}

func loadDatabase() (Database, error) {
	name, err := mustEnv("DB_NAME")
	if err != nil {
		return Database{}, err
	}
	return Database{
		User:     getenv("DB_USER", "postgres"),
		Password: getenv("DB_PASSWORD", ""),
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		Name:     name,
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}, nil
}

func loadPosting() (Posting, error) {
	interval, err := durationEnv("POSTING_INTERVAL", time.Minute)
	if err != nil {
		return Posting{}, err
	}
	if interval <= 0 {
		return Posting{}, fmt.Errorf("POSTING_INTERVAL must be positive, got %s", interval)
	}
	loc, err := time.LoadLocation(getenv("SCHEDULE_TZ", "Local"))
	if err != nil {
		return Posting{}, fmt.Errorf("env SCHEDULE_TZ: %w", err)
	}
	return Posting{Interval: interval, Location: loc}, nil
}

func LoadManager() (ManagerConfig, error) {
	loadDotEnv()

	mode := strings.ToLower(getenv("APP_MODE", ModeDevelopment))
	if mode != ModeDevelopment && mode != ModeProduction {
		return ManagerConfig{}, fmt.Errorf("APP_MODE must be %q or %q, got %q", ModeDevelopment, ModeProduction, mode)
	}

	timeout, err := durationEnv("REMOTE_TIMEOUT", 5*time.Second)
	if err != nil {
		return ManagerConfig{}, err
	}
	latency, err := durationEnv("LOCAL_LATENCY", 0)
	if err != nil {
		return ManagerConfig{}, err
	}

	return ManagerConfig{
		Mode:          mode,
		Port:          getenv("PORT", "8080"),
		BackendURL:    getenv("BACKEND_URL", "http://localhost:3001"),
		RemoteTimeout: timeout,
		LocalDBPath:   getenv("LOCAL_DB_PATH", "./data/local.db"),
		LocalLatency:  latency,
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		DemoUsername:  getenv("DEMO_USERNAME", "administrator1x"),
		DemoPassword:  getenv("DEMO_PASSWORD", "1xpassword"),
	}, nil
}

func LoadServer() (ServerConfig, error) {
	loadDotEnv()

	db, err := loadDatabase()
	if err != nil {
		return ServerConfig{}, err
	}
	posting, err := loadPosting()
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		Port:    getenv("PORT", "3001"),
		DB:      db,
		RMQURL:  os.Getenv("RMQ_URL"),
		Queue:   getenv("QUEUE", "campaign_posts"),
		Posting: posting,
	}, nil
}

func LoadWorker() (WorkerConfig, error) {
	loadDotEnv()

	db, err := loadDatabase()
	if err != nil {
		return WorkerConfig{}, err
	}
	url, err := mustEnv("RMQ_URL")
	if err != nil {
		return WorkerConfig{}, err
	}
	posting, err := loadPosting()
	if err != nil {
		return WorkerConfig{}, err
	}
	return WorkerConfig{
		DB:      db,
		RMQURL:  url,
		Queue:   getenv("QUEUE", "campaign_posts"),
		Posting: posting,
	}, nil
}

func LoadSeeder() (SeederConfig, error) {
	loadDotEnv()

	db, err := loadDatabase()
	if err != nil {
		return SeederConfig{}, err
	}
	return SeederConfig{
		DB:           db,
		DemoUsername: getenv("DEMO_USERNAME", "administrator1x"),
		DemoPassword: getenv("DEMO_PASSWORD", "1xpassword"),
	}, nil
}
