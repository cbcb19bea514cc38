package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"intakebridge/internal/platform/jobs"
)

const (
	GuardNone     = "none"
	GuardRedis    = "redis"
	GuardPostgres = "postgres"
	GuardSQLite   = "sqlite"
)

type Config struct {
	Addr                   string
	Environment            string
	WinTeamTenantID        string
	WinTeamAPIKey          string
	WinTeamEmployeeURL     string
	WinTeamShiftsURL       string
	MondayAPIKey           string
	MondayAPIURL           string
	MondayBoardID          string
	FlowGuardBackend       string
	FlowGuardTTL           time.Duration
	FlowGuardSweepSchedule string
	FlowGuardKeySecret     string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	DatabaseURL            string
	SQLitePath             string
	UpstreamTimeout        time.Duration
	MaxBodyBytes           int64
	RateLimitPerMinute     int
	CORSAllowedOrigins     []string
	MetricsEnabled         bool
	BoardConfigPath        string
	ShutdownTimeout        time.Duration
}

func Load() Config {
	return Config{
		Addr:                   getEnv("APP_ADDR", ":8080"),
		Environment:            getEnv("APP_ENV", "development"),
		WinTeamTenantID:        getEnv("WINTEAM_TENANT_ID", ""),
		WinTeamAPIKey:          getEnv("WINTEAM_API_KEY", ""),
		WinTeamEmployeeURL:     getEnv("WINTEAM_EMPLOYEE_URL", ""),
		WinTeamShiftsURL:       getEnv("WINTEAM_SHIFTS_URL", ""),
		MondayAPIKey:           getEnv("MONDAY_API_KEY", ""),
		MondayAPIURL:           getEnv("MONDAY_API_URL", ""),
		MondayBoardID:          getEnv("MONDAY_BOARD_ID", getEnv("MONDAY_DEFAULT_BOARD_ID", "")),
		FlowGuardBackend:       strings.ToLower(getEnv("FLOW_GUARD_BACKEND", GuardNone)),
		FlowGuardTTL:           time.Duration(getEnvInt("FLOW_GUARD_TTL_SECONDS", 86400)) * time.Second,
		FlowGuardSweepSchedule: getEnv("FLOW_GUARD_SWEEP_SCHEDULE", "*/30 * * * *"),
		FlowGuardKeySecret:     getEnv("FLOW_GUARD_KEY_SECRET", ""),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		SQLitePath:             getEnv("SQLITE_PATH", "flow_guard.db"),
		UpstreamTimeout:        getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MetricsEnabled:         getEnvBool("METRICS_ENABLED", true),
		BoardConfigPath:        getEnv("BOARD_CONFIG_PATH", ""),
		ShutdownTimeout:        getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c Config) Validate() error {
	switch c.FlowGuardBackend {
	case GuardNone:
	case GuardRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required when FLOW_GUARD_BACKEND=redis")
		}
	case GuardPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when FLOW_GUARD_BACKEND=postgres")
		}
	case GuardSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required when FLOW_GUARD_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("FLOW_GUARD_BACKEND must be one of none, redis, postgres, sqlite")
	}
	if c.FlowGuardTTL <= 0 {
		return fmt.Errorf("FLOW_GUARD_TTL_SECONDS must be positive")
	}
	if c.FlowGuardSweepSchedule != "" {
		if _, err := jobs.ParseSchedule(c.FlowGuardSweepSchedule); err != nil {
			return fmt.Errorf("FLOW_GUARD_SWEEP_SCHEDULE: %w", err)
		}
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.Environment == "production" {
		if c.WinTeamTenantID == "" || c.WinTeamAPIKey == "" {
			return fmt.Errorf("WINTEAM_TENANT_ID and WINTEAM_API_KEY must be set in production")
		}
		if c.MondayAPIKey == "" {
			return fmt.Errorf("MONDAY_API_KEY must be set in production")
		}
	}
	return nil
}

// Bindings reports which credentials and bindings are present, never their
// values.
func (c Config) Bindings() map[string]bool {
	return map[string]bool{
		"WINTEAM_TENANT_ID":     c.WinTeamTenantID != "",
		"WINTEAM_API_KEY":       c.WinTeamAPIKey != "",
		"MONDAY_API_KEY":        c.MondayAPIKey != "",
		"MONDAY_BOARD_ID":       c.MondayBoardID != "",
		"FLOW_GUARD":            c.FlowGuardBackend != GuardNone,
		"FLOW_GUARD_KEY_SECRET": c.FlowGuardKeySecret != "",
		"DATABASE_URL":          c.DatabaseURL != "",
		"REDIS_ADDR":            c.FlowGuardBackend == GuardRedis && c.RedisAddr != "",
		"BOARD_CONFIG_PATH":     c.BoardConfigPath != "",
	}
}
