package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Enabled reports whether outgoing mail is configured at all.
func (s SMTP) Enabled() bool { return s.Host != "" && s.From != "" }

type Config struct {
	Port      string
	DBDSN     string
	LogFile   string
	JWTSecret string
	TokenTTL  time.Duration
	SMTP      SMTP
}

func Load() Config {
	// Best-effort .env; real env always wins.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "sweetshop.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./sweetshop.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
		log.Println("[config] JWT_SECRET not set, using insecure dev default")
	}
	ttl := 30 * time.Minute
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Minute
		}
	}

	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			smtpPort = n
		}
	}
	smtp := SMTP{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
	}
	if smtp.FromName == "" {
		smtp.FromName = "Sweet Shop"
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, JWTSecret: secret, TokenTTL: ttl, SMTP: smtp}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s SMTP_HOST=%s mail_enabled=%v",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.SMTP.Host, cfg.SMTP.Enabled())
	return cfg
}
