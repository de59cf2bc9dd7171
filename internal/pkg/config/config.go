package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Booking   BookingConfig
	Redis     RedisConfig
	Stripe    StripeConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port    string `envconfig:"PORT" required:"true"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type BookingConfig struct {
	StorageTimeout time.Duration `envconfig:"BOOKING_STORAGE_TIMEOUT" default:"5s"`
	LockTimeout    time.Duration `envconfig:"BOOKING_LOCK_TIMEOUT" default:"3s"`
	IdempotencyTTL time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
	SweepInterval  time.Duration `envconfig:"BOOKING_IDEMPOTENCY_SWEEP_INTERVAL" default:"1h"`
}

type RedisConfig struct {
	Enabled        bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Addr           string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password       string        `envconfig:"REDIS_PASSWORD" default:""`
	DB             int           `envconfig:"REDIS_DB" default:"0"`
	BookedDatesTTL time.Duration `envconfig:"REDIS_BOOKED_DATES_TTL" default:"5m"`
}

type StripeConfig struct {
	SecretKey     string `envconfig:"STRIPE_SECRET_KEY" default:""`
	WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
	Currency      string `envconfig:"STRIPE_CURRENCY" default:"usd"`
}

type KafkaConfig struct {
	Brokers       []string      `envconfig:"KAFKA_BROKERS" default:""`
	TopicPrefix   string        `envconfig:"KAFKA_TOPIC_PREFIX" default:"rental"`
	RelayInterval time.Duration `envconfig:"KAFKA_RELAY_INTERVAL" default:"2s"`
	BatchSize     int           `envconfig:"KAFKA_BATCH_SIZE" default:"50"`
}

type RateLimitConfig struct {
	RPS     float64       `envconfig:"RATE_LIMIT_RPS" default:"5"`
	Burst   int           `envconfig:"RATE_LIMIT_BURST" default:"10"`
	IdleTTL time.Duration `envconfig:"RATE_LIMIT_IDLE_TTL" default:"10m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// MigrationURL omits the timezone parameter, which the migration tool does not accept.
func (c *DBConfig) MigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Brokers[0] != ""
}

// LoadConfig reads an optional .env file before processing the environment.
// Variables already set in the process environment win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that only make sense together.
func (c *Config) Validate() error {
	if c.Booking.StorageTimeout <= 0 {
		return errors.New("BOOKING_STORAGE_TIMEOUT must be positive")
	}
	// the advisory lock wait has to give up before the request deadline does,
	// otherwise a busy property surfaces as a storage timeout
	if c.Booking.LockTimeout <= 0 || c.Booking.LockTimeout >= c.Booking.StorageTimeout {
		return fmt.Errorf("BOOKING_LOCK_TIMEOUT (%s) must be positive and below BOOKING_STORAGE_TIMEOUT (%s)",
			c.Booking.LockTimeout, c.Booking.StorageTimeout)
	}
	if c.Redis.Enabled && c.Redis.BookedDatesTTL <= 0 {
		return errors.New("REDIS_BOOKED_DATES_TTL must be positive when redis is enabled")
	}
	if c.Server.GinMode == "release" && (c.Stripe.SecretKey == "" || c.Stripe.WebhookSecret == "") {
		return errors.New("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required in release mode")
	}
	return nil
}

// LoadDBConfig is for tools that only talk to the database.
func LoadDBConfig() (DBConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return DBConfig{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg DBConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return DBConfig{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:    "8889", // Test port
			GinMode: "test",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Booking: BookingConfig{
			StorageTimeout: 5 * time.Second,
			LockTimeout:    3 * time.Second,
			IdempotencyTTL: time.Hour,
			SweepInterval:  time.Minute,
		},
		Redis: RedisConfig{
			BookedDatesTTL: time.Minute,
		},
		Stripe: StripeConfig{
			SecretKey:     "sk_test_dummy",
			WebhookSecret: "whsec_test",
			Currency:      "usd",
		},
		Kafka: KafkaConfig{
			TopicPrefix:   "rental-test",
			RelayInterval: 100 * time.Millisecond,
			BatchSize:     10,
		},
		RateLimit: RateLimitConfig{
			RPS:     100,
			Burst:   100,
			IdleTTL: time.Minute,
		},
	}
}
