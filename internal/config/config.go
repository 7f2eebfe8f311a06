package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string        // API bind address
	LogDir        string        // rotating app-log directory
	DatabaseURL   string        // postgres DSN; empty means no postgres sink
	SQLitePath    string        // sqlite file; empty means no sqlite sink
	EventLogPath  string        // plaintext outage log
	WindowLogPath string        // plaintext minor-window log
	TargetsFile   string        // YAML probe target lists; empty means defaults

	FastInterval          time.Duration // cadence of the fast check
	ProbeTimeout          time.Duration // per-probe bound, fast and deep alike
	ConfirmationThreshold int           // consecutive failures to confirm
	MinorWindow           time.Duration // minor-interval tracker window
	DeepFailureFraction   float64       // deep check failure fraction for "down"
	PingPackets           int           // ICMP packets per deep-check ping
}

// FromEnv reads configuration from the environment, loading a .env file
// first when one is present.
func FromEnv() Config {
	_ = godotenv.Load()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	eventLog := os.Getenv("EVENT_LOG")
	if eventLog == "" {
		eventLog = "outages.log"
	}

	return Config{
		Addr:          addr,
		LogDir:        logDir,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		EventLogPath:  eventLog,
		WindowLogPath: os.Getenv("WINDOW_LOG"),
		TargetsFile:   os.Getenv("TARGETS_FILE"),

		FastInterval:          envMillis("FAST_INTERVAL_MS", time.Second),
		ProbeTimeout:          envMillis("PROBE_TIMEOUT_MS", time.Second),
		ConfirmationThreshold: envInt("CONFIRMATION_THRESHOLD", 3),
		MinorWindow:           clampWindow(envSeconds("MINOR_WINDOW_SECONDS", time.Minute)),
		DeepFailureFraction:   envFloat("DEEP_FAILURE_FRACTION", 0.25),
		PingPackets:           envInt("PING_PACKETS", 1),
	}
}

func clampWindow(d time.Duration) time.Duration {
	if d < 10*time.Second {
		return 10 * time.Second
	}
	if d > 10*time.Minute {
		return 10 * time.Minute
	}
	return d
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f < 1 {
			return f
		}
	}
	return def
}

func envMillis(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			return time.Duration(s) * time.Second
		}
	}
	return def
}
