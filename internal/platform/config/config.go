package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	TokenCookieName   string
	AllowedOrigins    []string
	PosthogAPIKey     string

	// Registration bonuses credited when an account is created.
	PersonalSignupBonus decimal.Decimal
	AgentSignupBonus    decimal.Decimal

	// NotifierQueueSize bounds the async notification queue.
	NotifierQueueSize int
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ACCESS_TOKEN_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "pocketpay-backend")
	viper.SetDefault("TOKEN_COOKIE_NAME", "token")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("PERSONAL_SIGNUP_BONUS", "40")
	viper.SetDefault("AGENT_SIGNUP_BONUS", "100000")
	viper.SetDefault("NOTIFIER_QUEUE_SIZE", 256)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("ACCESS_TOKEN_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: ACCESS_TOKEN_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.TokenCookieName = viper.GetString("TOKEN_COOKIE_NAME")
	cfg.AllowedOrigins = strings.Split(viper.GetString("ALLOWED_ORIGINS"), ",")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	personalBonus, err := decimal.NewFromString(viper.GetString("PERSONAL_SIGNUP_BONUS"))
	if err != nil {
		personalBonus = decimal.NewFromInt(40)
		log.Printf("Warning: Invalid PERSONAL_SIGNUP_BONUS. Defaulting to %s.\n", personalBonus.String())
	}
	cfg.PersonalSignupBonus = personalBonus

	agentBonus, err := decimal.NewFromString(viper.GetString("AGENT_SIGNUP_BONUS"))
	if err != nil {
		agentBonus = decimal.NewFromInt(100000)
		log.Printf("Warning: Invalid AGENT_SIGNUP_BONUS. Defaulting to %s.\n", agentBonus.String())
	}
	cfg.AgentSignupBonus = agentBonus

	cfg.NotifierQueueSize = viper.GetInt("NOTIFIER_QUEUE_SIZE")
	if cfg.NotifierQueueSize <= 0 {
		cfg.NotifierQueueSize = 256
	}

	return cfg, nil
}
