package config

import (
	"os"
	"strings"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string

	StripeSecretKey     string
	StripeWebhookSecret string
	RazorpayKeyID       string
	RazorpayKeySecret   string

	SendGridAPIKey    string
	SendGridFromEmail string
	FrontendBaseURL   string

	// KafkaBrokers empty disables event publishing.
	KafkaBrokers   []string
	JaegerEndpoint string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("DB_NAME", "flintandflours"),
		JWTSecret:     getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-production"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		RazorpayKeyID:       os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:   os.Getenv("RAZORPAY_KEY_SECRET"),

		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "hello@flintandflours.com"),
		FrontendBaseURL:   getEnv("FRONTEND_BASE_URL", "https://flintandflours.com"),

		KafkaBrokers:   splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}
}

func getEnv(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return fallback
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if pt := strings.TrimSpace(p); pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
