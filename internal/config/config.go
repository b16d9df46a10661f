package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server holds the backend runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL is required.
type Server struct {
	// HTTP
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	MigrationsURL string

	// Queue and workers
	QueueSize         int
	WorkerConcurrency int

	// Per-task execution limits. The soft limit is handed to the task as a
	// context deadline, the hard limit is where the worker gives up waiting.
	TaskSoftTimeLimit time.Duration
	TaskTimeLimit     time.Duration

	// Maximum task executions per second, per task name
	TaskRateLimit int

	RequeueInterval time.Duration
}

// Dashboard holds the dashboard runtime configuration.
type Dashboard struct {
	HTTPPort        string
	ShutdownTimeout time.Duration

	// Backend the dashboard talks to
	APIBaseURL string
	APITimeout time.Duration

	// Fixed arguments sent by the trigger button
	TriggerX int
	TriggerY int
}

func LoadServer() (*Server, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Server{
		HTTPPort:        getEnv("HTTP_PORT", "8000"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL:   dbURL,
		DBMaxConns:    int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:    int32(getInt("DB_MIN_CONNS", 5)),
		MigrationsURL: getEnv("MIGRATIONS_URL", "file://migrations"),

		QueueSize:         getInt("QUEUE_SIZE", 1000),
		WorkerConcurrency: getInt("WORKER_CONCURRENCY", 4),

		TaskSoftTimeLimit: getDuration("TASK_SOFT_TIME_LIMIT", 25*time.Minute),
		TaskTimeLimit:     getDuration("TASK_TIME_LIMIT", 30*time.Minute),

		TaskRateLimit: getInt("TASK_RATE_LIMIT", 100),

		RequeueInterval: getDuration("REQUEUE_INTERVAL", 10*time.Second),
	}

	if cfg.TaskSoftTimeLimit > cfg.TaskTimeLimit {
		return nil, fmt.Errorf("TASK_SOFT_TIME_LIMIT (%s) must not exceed TASK_TIME_LIMIT (%s)",
			cfg.TaskSoftTimeLimit, cfg.TaskTimeLimit)
	}
	if cfg.WorkerConcurrency < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}

	return cfg, nil
}

func LoadDashboard() *Dashboard {
	return &Dashboard{
		HTTPPort:        getEnv("DASHBOARD_PORT", "5173"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		APIBaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:8000"),
		// zero means no client timeout
		APITimeout: getDuration("API_TIMEOUT", 0),

		TriggerX: getInt("TRIGGER_X", 1),
		TriggerY: getInt("TRIGGER_Y", 2),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
