package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Admin     AdminConfig
	Mail      MailConfig
	Line      LineConfig
	Redis     RedisConfig
	CORS      CORSConfig
	S3        S3Config
	Site      SiteConfig
	Scheduler SchedulerConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	Production  bool // secure cookie 강제

	// TrustedProxies lists the proxy addresses or CIDRs whose X-Forwarded-For
	// is believed. Empty means the peer address is the client address.
	TrustedProxies []string
}

type DatabaseConfig struct {
	URL string // 비어 있으면 저장소 기반 라우트가 비활성화됨
}

// Enabled reports whether a database URL was configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
}

type AdminConfig struct {
	PasswordHash string // bcrypt hash, 비어 있으면 관리자 로그인 불가
}

type MailConfig struct {
	SendGridAPIKey string
	Sender         string
	SenderName     string
	QueueSize      int
	Workers        int
}

// Enabled reports whether outbound mail can be delivered.
func (c MailConfig) Enabled() bool {
	return c.SendGridAPIKey != "" && c.Sender != ""
}

type LineConfig struct {
	ChannelID     string
	ChannelSecret string
	CallbackURL   string
	LoginRedirect string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// Enabled reports whether a bucket was configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// SiteConfig 메일 본문과 날짜 계산에 쓰이는 사이트 정보
type SiteConfig struct {
	Name            string
	Timezone        string
	BankName        string
	BankCode        string
	BankAccount     string
	BankAccountName string
}

// Location resolves the configured timezone, falling back to Asia/Taipei.
func (c SiteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Invalid timezone %s, using Asia/Taipei", c.Timezone)
		return time.FixedZone("Asia/Taipei", 8*60*60)
	}
	return loc
}

type SchedulerConfig struct {
	CleanupCron string
}

type RateLimitConfig struct {
	PerMinute      int
	LoginPerMinute int
}

// DevSessionSecret signs session cookies when SESSION_SECRET is unset.
// Validate rejects it in production.
const DevSessionSecret = "dev-session-secret"

var ErrDefaultSessionSecret = errors.New("SESSION_SECRET must be set when PRODUCTION=true")

// Validate checks settings the server cannot safely start without.
func (c *Config) Validate() error {
	if c.Server.Production && c.Session.Secret == DevSessionSecret {
		return ErrDefaultSessionSecret
	}
	return nil
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			Production:  parseBool(getEnv("PRODUCTION", "false")),

			TrustedProxies: parseSlice(getEnv("TRUSTED_PROXIES", "")),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", DevSessionSecret),
			CookieName: getEnv("SESSION_COOKIE_NAME", "temple_session"),
			TTL:        parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour),
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Mail: MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			Sender:         getEnv("MAIL_SENDER", ""),
			SenderName:     getEnv("MAIL_SENDER_NAME", "承天禪寺"),
			QueueSize:      parseInt(getEnv("MAIL_QUEUE_SIZE", "100"), 100),
			Workers:        parseInt(getEnv("MAIL_WORKERS", "2"), 2),
		},
		Line: LineConfig{
			ChannelID:     getEnv("LINE_CHANNEL_ID", ""),
			ChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),
			CallbackURL:   getEnv("LINE_CALLBACK_URL", "http://localhost:8080/api/line/callback"),
			LoginRedirect: getEnv("LINE_LOGIN_REDIRECT", "/feedback"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Site: SiteConfig{
			Name:            getEnv("SITE_NAME", "承天禪寺"),
			Timezone:        getEnv("SITE_TIMEZONE", "Asia/Taipei"),
			BankName:        getEnv("BANK_NAME", ""),
			BankCode:        getEnv("BANK_CODE", ""),
			BankAccount:     getEnv("BANK_ACCOUNT", ""),
			BankAccountName: getEnv("BANK_ACCOUNT_NAME", ""),
		},
		Scheduler: SchedulerConfig{
			CleanupCron: getEnv("CLEANUP_CRON", "0 3 * * *"),
		},
		RateLimit: RateLimitConfig{
			PerMinute:      parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "200"), 200),
			LoginPerMinute: parseInt(getEnv("LOGIN_RATE_LIMIT_PER_MINUTE", "5"), 5),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
