package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RuntimeConfig struct {
	Environment          string
	DBPath               string
	Ephemeral            bool
	LogFile              string
	LogLevel             string
	NoticeTTL            time.Duration
	DesktopNotifications bool
	TimerBuffer          int
}

func Default() RuntimeConfig {
	return RuntimeConfig{
		Environment:          "development",
		DBPath:               "todo.db",
		Ephemeral:            false,
		LogFile:              "",
		LogLevel:             "info",
		NoticeTTL:            5 * time.Second,
		DesktopNotifications: false,
		TimerBuffer:          64,
	}
}

// Load reads an optional .env file and layers the environment over Default.
func Load() RuntimeConfig {
	_ = godotenv.Load()
	return FromEnv(Default())
}

func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := getEnv("TODO_ENV"); v != "" {
		cfg.Environment = strings.ToLower(v)
	}
	if v := getEnv("TODO_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvBool("TODO_EPHEMERAL"); ok {
		cfg.Ephemeral = v
	}
	if v := getEnv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := getEnv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvInt("TODO_NOTICE_TTL_SECONDS"); ok && v > 0 {
		cfg.NoticeTTL = time.Duration(v) * time.Second
	}
	if v, ok := getEnvBool("TODO_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TODO_TIMER_BUFFER"); ok && v > 0 {
		cfg.TimerBuffer = v
	}
	return cfg
}

func (c RuntimeConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func getEnvInt(name string) (int, bool) {
	raw := getEnv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.ToLower(getEnv(name))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
