package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything read from the environment at startup. It is
// loaded once in main and handed to constructors; nothing else in the
// codebase reads os.Getenv.
type Config struct {
	Port          string
	FrontendURL   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	JWTSecret     []byte
	UploadDir     string
	PublicBaseURL string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
	AdminTo  string

	PaymentSecret  string
	WebhookSecret  string
	VoucherSecret  string
	ForwardOnlyApp bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := Config{
		Port:          getenv("PORT", ":8080"),
		FrontendURL:   getenv("FRONTEND_URL", "*"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGODB_DB", "traveldb"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:     []byte(getenv("JWT_SECRET", "dev-only-secret")),
		UploadDir:     getenv("UPLOAD_DIR", "static/uploads"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		SMTPHost: getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "no-reply@atlastours.example"),
		AdminTo:  getenv("ADMIN_EMAIL", "admin@atlastours.example"),

		PaymentSecret:  getenv("PAYMENT_SECRET", "dev-payment-secret"),
		WebhookSecret:  getenv("PAYMENT_WEBHOOK_SECRET", "dev-webhook-secret"),
		VoucherSecret:  getenv("VOUCHER_SECRET", "dev-voucher-secret"),
		ForwardOnlyApp: os.Getenv("APPLICATION_FORWARD_ONLY") == "true",
	}

	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
