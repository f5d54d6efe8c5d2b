package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hamropustak/pasal/utils"
)

type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	RedisAddr         string
	RedisPassword     string
	CartTTL           time.Duration
	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretKey       string
	S3PublicBaseURL   string
	AuthEmail         string
	AuthPass          string
	JWTSecret         string
	MaxCoverMB        int64
	MailEncryptionKey []byte // nil = SMTP password stored as given
	StoreURL          string
	TrackRatePerMin   int
	CORSOrigins       []string
}

const (
	defaultJWTSecret = "change-me-in-production"
	defaultAuthPass  = "password"
)

func Load() (*Config, error) {
	key, err := utils.ParseKey(os.Getenv("MAIL_ENCRYPTION_KEY"))
	if err != nil {
		return nil, err
	}
	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("MONGODB_DB", "hamro_pustak"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		CartTTL:           time.Duration(getInt("CART_TTL_HOURS", 720)) * time.Hour,
		S3Bucket:          getEnv("AWS_S3_BUCKET", ""),
		S3Region:          getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL:   getEnv("AWS_S3_PUBLIC_BASE_URL", ""),
		AuthEmail:         strings.ToLower(getEnv("AUTH_EMAIL", "admin@hamropustak.com")),
		AuthPass:          getEnv("AUTH_PASSWORD", defaultAuthPass),
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		MaxCoverMB:        int64(getInt("MAX_COVER_MB", 5)),
		MailEncryptionKey: key,
		StoreURL:          getEnv("STORE_URL", ""),
		TrackRatePerMin:   getInt("TRACK_RATE_PER_MINUTE", 30),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "")),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getInt falls back for unset, malformed and non-positive values.
func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

var secretEnvVars = map[string]bool{
	"AUTH_PASSWORD":         true,
	"JWT_SECRET":            true,
	"AWS_ACCESS_KEY_ID":     true,
	"AWS_SECRET_ACCESS_KEY": true,
	"REDIS_PASSWORD":        true,
	"MAIL_ENCRYPTION_KEY":   true,
}

// OptionalEnvVars are logged at startup so you can confirm which ones were picked up.
var OptionalEnvVars = []string{
	"PORT",
	"MONGODB_URI",
	"MONGODB_DB",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"CART_TTL_HOURS",
	"AWS_S3_BUCKET",
	"AWS_REGION",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_S3_PUBLIC_BASE_URL",
	"AUTH_EMAIL",
	"AUTH_PASSWORD",
	"MAX_COVER_MB",
	"MAIL_ENCRYPTION_KEY",
	"STORE_URL",
	"TRACK_RATE_PER_MINUTE",
	"CORS_ORIGINS",
}

// LogEnv reports which optional variables are set, hiding secret values.
func LogEnv() {
	for _, key := range OptionalEnvVars {
		v := strings.TrimSpace(os.Getenv(key))
		switch {
		case v == "":
			log.Printf("env %s not set (using default)", key)
		case secretEnvVars[key]:
			log.Printf("env %s loaded", key)
		default:
			log.Printf("env %s = %s", key, v)
		}
	}
}

// Validate rejects settings the server cannot run safely with.
func (c *Config) Validate() error {
	if c.JWTSecret == defaultJWTSecret || c.JWTSecret == "" {
		return errJWTSecret
	}
	if c.AuthPass == defaultAuthPass || c.AuthPass == "" {
		return errAuthPass
	}
	return nil
}

var (
	errJWTSecret = errors.New("JWT_SECRET must be set to a strong secret (not the default " + defaultJWTSecret + ")")
	errAuthPass  = errors.New("AUTH_PASSWORD must be set for the default admin account")
)
