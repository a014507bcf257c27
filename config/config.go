package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort   int
	DatabaseURL  string // пусто - используется хранилище в памяти
	JWTSecretKey string
	JWTTTL       time.Duration
	PublicURL    string

	SMTP SMTPConfig
	R2   R2Config

	NATSURL   string
	NATSToken string

	ReminderInterval  time.Duration
	ReminderTolerance time.Duration

	RateLimit          int // запросов в минуту с одного IP
	CORSAllowedOrigins []string
	CalendarDomain     string
	// Location - часовой пояс лиги: в нем показываются даты в письмах и подбирается время матчей.
	Location *time.Location
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled - SMTP считается настроенным, если задан хост и отправитель.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load() // отсутствие .env не ошибка

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	jwtTTL, err := durationEnv("JWT_TTL", 72*time.Hour)
	if err != nil {
		return nil, err
	}

	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	interval, err := durationEnv("REMINDER_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	tolerance, err := durationEnv("REMINDER_TOLERANCE", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("REMINDER_INTERVAL must be positive, got %s", interval)
	}
	// окно меньше периода сканирования может пропустить напоминание
	if tolerance < interval {
		return nil, fmt.Errorf("REMINDER_TOLERANCE (%s) must be >= REMINDER_INTERVAL (%s)", tolerance, interval)
	}

	rateLimit, err := intEnv("RATE_LIMIT", 120)
	if err != nil {
		return nil, err
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be positive, got %d", rateLimit)
	}

	location, err := time.LoadLocation(stringEnv("LEAGUE_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAGUE_TIMEZONE environment variable: %w", err)
	}

	cfg := &Config{
		ServerPort:   port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecretKey: jwtKey,
		JWTTTL:       jwtTTL,
		PublicURL:    stringEnv("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", port)),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		NATSURL:            os.Getenv("NATS_URL"),
		NATSToken:          os.Getenv("NATS_TOKEN"),
		ReminderInterval:   interval,
		ReminderTolerance:  tolerance,
		RateLimit:          rateLimit,
		CORSAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CalendarDomain:     stringEnv("CALENDAR_DOMAIN", "tennis-league.local"),
		Location:           location,
	}

	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func listEnv(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
