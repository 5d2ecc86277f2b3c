package config

import (
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Session  SessionConfig
	Telegram TelegramConfig
	Business BusinessConfig
	Reminder ReminderConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USER" required:"true"`
	Password      string `envconfig:"DB_PASSWORD" required:"true"`
	DBName        string `envconfig:"DB_NAME" required:"true"`
	SSLMode       string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone      string `envconfig:"DB_TIMEZONE" default:"Europe/Moscow"`
	MaxConns      int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	MigrateOnBoot bool   `envconfig:"DB_MIGRATE_ON_BOOT" default:"false"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type SessionConfig struct {
	// Idle sessions expire after TTL, which counts as a cancel.
	TTL       time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	KeyPrefix string        `envconfig:"SESSION_KEY_PREFIX" default:"barber:session:"`
}

type TelegramConfig struct {
	Enabled     bool   `envconfig:"TELEGRAM_ENABLED" default:"false"`
	Token       string `envconfig:"TELEGRAM_TOKEN" default:""`
	Debug       bool   `envconfig:"TELEGRAM_DEBUG" default:"false"`
	Workers     int    `envconfig:"TELEGRAM_WORKERS" default:"8"`
	PollTimeout int    `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"30"`
}

type BusinessConfig struct {
	TimeZone    string   `envconfig:"BUSINESS_TIMEZONE" default:"Europe/Moscow"`
	TimeSlots   []string `envconfig:"BUSINESS_TIME_SLOTS" default:"10:00,11:00,12:00,13:00,14:00,15:00,16:00,17:00,18:00,19:00"`
	OperatorIDs []int64  `envconfig:"BUSINESS_OPERATOR_IDS" default:""`
	PageSize    int      `envconfig:"BUSINESS_PAGE_SIZE" default:"5"`
}

type ReminderConfig struct {
	Enabled bool   `envconfig:"REMINDER_ENABLED" default:"true"`
	Spec    string `envconfig:"REMINDER_CRON" default:"0 8 * * *"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/Moscow"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"10800"` // 3*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// Location resolves the business time zone. Bookings are stored as wall-clock
// date-times in this zone.
func (c BusinessConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Slots parses the configured "HH:MM" offers in order.
func (c BusinessConfig) Slots() ([]civil.Time, error) {
	out := make([]civil.Time, 0, len(c.TimeSlots))
	for _, raw := range c.TimeSlots {
		t, err := time.Parse("15:04", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid time slot %q: %w", raw, err)
		}
		out = append(out, civil.Time{Hour: t.Hour(), Minute: t.Minute()})
	}
	return out, nil
}

func LoadConfig() (Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if _, err := cfg.Business.Location(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Business.Slots(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Redis: RedisConfig{
			Addr: "localhost:16379",
		},
		Session: SessionConfig{
			TTL:       30 * time.Minute,
			KeyPrefix: "test:session:",
		},
		Business: BusinessConfig{
			TimeZone:    "UTC",
			TimeSlots:   []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00"},
			OperatorIDs: []int64{1000},
			PageSize:    5,
		},
		Reminder: ReminderConfig{
			Spec: "0 8 * * *",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-at-least-32-bytes-long",
			Duration: "1h",
		},
	}
}
