package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Server ServerConfig
	Engine EngineConfig
	Logs   LogConfig
}

type ServerConfig struct {
	Port                string
	AllowedOrigins      []string
	MatchmakingInterval time.Duration
}

type EngineConfig struct {
	Depth         int           // default search depth for new games
	MaxDepth      int           // upper bound a client may request
	ComputerDelay time.Duration // pause before the computer replies
	SelfPlayLimit int           // plies after which self-play stops
}

type LogConfig struct {
	Level string
}

func LoadConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:                getString("PORT", "3000"),
			AllowedOrigins:      getList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			MatchmakingInterval: getMillis("MATCHMAKING_INTERVAL_MS", time.Second),
		},
		Engine: EngineConfig{
			Depth:         getInt("ENGINE_DEPTH", 2),
			MaxDepth:      getInt("ENGINE_MAX_DEPTH", 4),
			ComputerDelay: getMillis("COMPUTER_DELAY_MS", 200*time.Millisecond),
			SelfPlayLimit: getInt("SELFPLAY_MAX_PLIES", 200),
		},
		Logs: LogConfig{
			Level: getString("LOG_LEVEL", "info"),
		},
	}
	if cfg.Engine.Depth < 1 {
		cfg.Engine.Depth = 1
	}
	if cfg.Engine.MaxDepth < cfg.Engine.Depth {
		cfg.Engine.MaxDepth = cfg.Engine.Depth
	}
	return cfg
}

// ParseLevel maps LOG_LEVEL to a fiber log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getMillis(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warnf("config: %s=%q is not a duration in milliseconds, using %v", key, v, fallback)
		return fallback
	}
	return time.Duration(n) * time.Millisecond
}
