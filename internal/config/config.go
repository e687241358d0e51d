package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment   string `validate:"required,oneof=development production test"`
	DBDSN         string `validate:"required"`
	HTTPAddr      string `validate:"required"`
	JWTSecret     string `validate:"required,min=16"`
	TelegramToken string // пусто: бот и Telegram-уведомления отключены
	RabbitMQURL   string `validate:"omitempty,url"`

	RedisAddr         string // пусто: кэш оборудования отключён
	RedisPassword     string
	RedisDB           int           `validate:"min=0"`
	EquipmentCacheTTL time.Duration `validate:"min=0"`

	SlotMinutes            int           `validate:"min=1,max=60"`
	MaxReservationHours    int           `validate:"min=1,max=24"`
	HorizonDays            int           `validate:"min=0"`
	CampusUTCOffsetMinutes int           `validate:"min=-720,max=840"`
	WorkLogSweepInterval   time.Duration `validate:"min=1s"`
}

var validate = validator.New()

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из произвольного источника переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Environment:   p.str("ENV", "development"),
		DBDSN:         p.str("DB_DSN", ""),
		HTTPAddr:      p.str("HTTP_ADDR", ":8080"),
		JWTSecret:     p.str("JWT_SECRET", ""),
		TelegramToken: p.str("TELEGRAM_TOKEN", ""),
		RabbitMQURL:   p.str("RABBITMQ_URL", ""),

		RedisAddr:         p.str("REDIS_ADDR", ""),
		RedisPassword:     p.str("REDIS_PASSWORD", ""),
		RedisDB:           p.int("REDIS_DB", 0),
		EquipmentCacheTTL: p.duration("EQUIPMENT_CACHE_TTL", 5*time.Minute),

		SlotMinutes:            p.int("SLOT_MINUTES", 10),
		MaxReservationHours:    p.int("MAX_RESERVATION_HOURS", 8),
		HorizonDays:            p.int("HORIZON_DAYS", 30),
		CampusUTCOffsetMinutes: p.int("CAMPUS_UTC_OFFSET_MINUTES", 9*60),
		WorkLogSweepInterval:   p.duration("WORKLOG_SWEEP_INTERVAL", 10*time.Minute),
	}
	if p.err != nil {
		return nil, p.err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// IsProduction сообщает, что включён production режим
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// parser запоминает первую ошибку разбора
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) str(key, def string) string {
	if v := p.getenv(key); v != "" {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s must be a duration like 5m: %w", key, err)
	}
	return d
}
