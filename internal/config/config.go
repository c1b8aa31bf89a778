package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/towerline/society-service/internal/utils"
)

const (
	AppName          = "society-service"
	OrganizationName = "Towerline"
)

type Config struct {
	AppName          string
	AppPort          string
	AppUrl           string
	OrganizationName string

	// Database
	DBUrl string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// Twilio / SendGrid for admin fan-out and export email
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string

	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridSandboxMode bool

	// When true, a daily cron run performs the cleanup on/after the
	// anchor date instead of waiting for an admin to trigger it.
	AutoCleanupEnabled bool
}

func LoadConfig() *Config {
	// .env is optional and never overrides real environment variables.
	_ = godotenv.Load()

	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	sgAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sgAPIKey == "" {
		utils.Logger.Fatal("SENDGRID_API_KEY env var is missing")
	}
	sgFromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if sgFromEmail == "" {
		utils.Logger.Warn("SENDGRID_FROM_EMAIL is empty, defaulting to no-reply@towerline.dev")
		sgFromEmail = "no-reply@towerline.dev"
	}
	sgSandbox, _ := strconv.ParseBool(os.Getenv("SENDGRID_SANDBOX_MODE"))

	// Twilio is optional; without credentials the SMS leg of the admin
	// fan-out is skipped.
	twilioSID := os.Getenv("TWILIO_ACCOUNT_SID")
	twilioToken := os.Getenv("TWILIO_AUTH_TOKEN")
	twilioFrom := os.Getenv("TWILIO_FROM_PHONE")
	if twilioSID == "" || twilioToken == "" {
		utils.Logger.Warn("Twilio credentials missing; SMS notifications disabled")
	}

	autoCleanup, _ := strconv.ParseBool(os.Getenv("AUTO_CLEANUP_ENABLED"))

	return &Config{
		AppName:             AppName,
		AppPort:             appPort,
		AppUrl:              appUrl,
		OrganizationName:    OrganizationName,
		DBUrl:               dbURL,
		RSAPublicKey:        pubKey,
		TwilioAccountSID:    twilioSID,
		TwilioAuthToken:     twilioToken,
		TwilioFromPhone:     twilioFrom,
		SendGridAPIKey:      sgAPIKey,
		SendGridFromEmail:   sgFromEmail,
		SendGridSandboxMode: sgSandbox,
		AutoCleanupEnabled:  autoCleanup,
	}
}
