package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver string
	DBDSN    string
	ResetDB  bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret   string
	RequireAuth bool

	// TimeZone is an IANA zone name or "Local".
	TimeZone   string
	TimeLayout string

	CheckCodeRegistersDevice bool
	CodeMaxAttempts          int

	SuperAdminEmail    string
	SuperAdminPassword string

	CORSAllowOrigins []string
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("config: ignoring .env: %v", err)
		}
	}

	return &Config{
		ServerPort:               getEnv("PORT", "8080"),
		DBDriver:                 strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBDSN:                    getEnv("DB_DSN", "/tmp/rider_system_final.db"),
		ResetDB:                  getEnvBool("RESET_DB", false),
		RedisAddr:                getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                  getEnvInt("REDIS_DB", 0),
		RedisPass:                os.Getenv("REDIS_PASSWORD"),
		JWTSecret:                getEnv("JWT_SECRET", "change-me"),
		RequireAuth:              getEnvBool("REQUIRE_AUTH", false),
		TimeZone:                 getEnv("TIME_ZONE", "Local"),
		TimeLayout:               getEnv("TIME_LAYOUT", "03:04 PM"),
		CheckCodeRegistersDevice: getEnvBool("CHECK_CODE_REGISTERS_DEVICE", true),
		CodeMaxAttempts:          getEnvInt("CODE_MAX_ATTEMPTS", 10),
		SuperAdminEmail:          getEnv("SUPERADMIN_EMAIL", "super"),
		SuperAdminPassword:       getEnv("SUPERADMIN_PASSWORD", "4343"),
		CORSAllowOrigins:         getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		SwaggerHost:              os.Getenv("SWAGGER_HOST"),
	}
}

// Validate reports configuration that would make the server misbehave.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("DB_DSN is empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if strings.TrimSpace(c.TimeLayout) == "" {
		return fmt.Errorf("TIME_LAYOUT is empty")
	}
	if c.CodeMaxAttempts <= 0 {
		return fmt.Errorf("CODE_MAX_ATTEMPTS must be positive, got %d", c.CodeMaxAttempts)
	}
	return nil
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load TIME_ZONE %q: %w", name, err)
	}
	return loc, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
