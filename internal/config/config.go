package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	// PaymentBackend selects the registered backend used for purchases.
	PaymentBackend string
	Gateway        GatewayConfig

	// RequireConfirmation inserts a read-only confirmation step between
	// validation and charging.
	RequireConfirmation bool

	// DonationSuccessURL is where the presentation layer sends donors after
	// a successful purchase.
	DonationSuccessURL string

	SeedOnStartup bool

	Email     EmailConfig
	RateLimit RateLimitConfig
}

// GatewayConfig carries the payment gateway credentials and endpoints.
// Credentials are injected, never hardcoded.
type GatewayConfig struct {
	Login           string
	TransactionKey  string
	ChargeURL       string
	SubscriptionURL string
	TestMode        bool
	TimeoutSeconds  int
}

// RateLimitConfig throttles donation submissions per client. Disabled unless
// a Redis address is configured.
type RateLimitConfig struct {
	Enabled     bool
	RedisAddr   string
	RedisDB     int
	SubmitRate  float64
	SubmitBurst int
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "donara"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DB_TYPE", "postgres"),
		DBHost:            getenv("DB_HOST", "localhost"),
		DBPort:            getenv("DB_PORT", "5432"),
		DBName:            getenv("DB_NAME", "donara"),
		DBUser:            getenv("DB_USER", "donara"),
		DBPassword:        getenv("DB_PASSWORD", ""),
		DBSSLMode:         getenv("DB_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DB_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DB_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DB_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DB_CONN_MAX_IDLE_TIME", 60),

		PaymentBackend: strings.ToLower(getenv("DONATION_BACKEND", "authorizenet")),
		Gateway: GatewayConfig{
			Login:           strings.TrimSpace(getenv("GATEWAY_LOGIN", "")),
			TransactionKey:  strings.TrimSpace(getenv("GATEWAY_KEY", "")),
			ChargeURL:       getenv("GATEWAY_CHARGE_URL", ""),
			SubscriptionURL: getenv("GATEWAY_SUBSCRIPTION_URL", ""),
			TestMode:        getenvBool("GATEWAY_TEST_MODE", true),
			TimeoutSeconds:  getenvInt("GATEWAY_TIMEOUT_SECONDS", 12),
		},

		RequireConfirmation: getenvBool("DONATION_REQUIRE_CONFIRMATION", false),
		DonationSuccessURL:  getenv("DONATION_SUCCESS_URL", "/donate/thanks"),

		SeedOnStartup: getenvBool("SEED_ON_STARTUP", true),

		Email: EmailConfig{
			Enabled:      getenvBool("EMAIL_ENABLED", false),
			SMTPHost:     getenv("SMTP_HOST", "localhost"),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "donations@donara.local"),
		},

		RateLimit: RateLimitConfig{
			Enabled:     getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
			RedisDB:     getenvInt("REDIS_DB", 0),
			SubmitRate:  getenvFloat("DONATE_SUBMIT_RATE", 0.5),
			SubmitBurst: getenvInt("DONATE_SUBMIT_BURST", 5),
		},
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getenvFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
