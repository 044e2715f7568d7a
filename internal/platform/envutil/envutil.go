package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

func String(name, def string, log *logger.Logger) string {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", name, "default", def)
		}
		return def
	}
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable could not be parsed as int, using default", "env_var", name, "provided", v, "default", def)
		}
		return def
	}
	return i
}

func Float(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func Bool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// Millis reads an integer number of milliseconds.
func Millis(name string, def time.Duration, log *logger.Logger) time.Duration {
	ms := Int(name, int(def/time.Millisecond), log)
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Seconds reads an integer number of seconds.
func Seconds(name string, def time.Duration, log *logger.Logger) time.Duration {
	s := Int(name, int(def/time.Second), log)
	if s <= 0 {
		return def
	}
	return time.Duration(s) * time.Second
}

func CSV(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
