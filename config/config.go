package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("GIFTGAP_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("GIFTGAP_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("GIFTGAP_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetListen() string {
	listen := os.Getenv("GIFTGAP_WEB_LISTEN")
	if listen == "" {
		// loopback only unless explicitly configured otherwise
		listen = "127.0.0.1"
	}
	return listen
}

func GetPort() int {
	portStr := os.Getenv("GIFTGAP_WEB_PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

func GetTgBotToken() string {
	return os.Getenv("GIFTGAP_BOT_TOKEN")
}

// GetTgBotAdminIds parses the comma-separated admin chat id list.
func GetTgBotAdminIds() ([]int64, error) {
	raw := os.Getenv("GIFTGAP_ADMIN_IDS")
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func GetTgBotProxy() string {
	return os.Getenv("GIFTGAP_BOT_PROXY")
}

func GetTgBotAPIServer() string {
	return os.Getenv("GIFTGAP_BOT_API_SERVER")
}

func GetLocale() string {
	locale := os.Getenv("GIFTGAP_LOCALE")
	if locale == "" {
		locale = "en"
	}
	return locale
}

// GetSendTimeout bounds a single notification delivery attempt.
func GetSendTimeout() time.Duration {
	secondsStr := os.Getenv("GIFTGAP_SEND_TIMEOUT")
	seconds, err := strconv.Atoi(secondsStr)
	if err != nil || seconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

func GetStatsNotifyCron() string {
	runtime := os.Getenv("GIFTGAP_STATS_CRON")
	if runtime == "" {
		runtime = "@daily"
	}
	return runtime
}
