// internal/config/config.go
package config

import (
	"os"

	appErrors "github.com/unclebandit/outreach-assistant/internal/errors"
)

// Config holds every external credential and identifier the assistant
// needs. It is built once at startup and passed by reference to each
// adapter constructor; nothing reads the environment after Load.
type Config struct {
	GoogleCredentials    string // path to the service account JSON
	SpreadsheetID        string
	GeminiAPIKey         string
	GmailUser            string
	GmailAppPassword     string
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string // channel-qualified sender, e.g. whatsapp:+14155238886
}

var requiredVars = []string{
	"GOOGLE_SHEETS_CREDENTIALS",
	"SPREADSHEET_ID",
	"GEMINI_API_KEY",
	"GMAIL_USER",
	"GMAIL_APP_PASSWORD",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"TWILIO_WHATSAPP_NUMBER",
}

// Load reads the required environment variables into a Config. Every
// variable is mandatory; any missing one makes startup fail.
func Load() (*Config, error) {
	var missing []string
	for _, v := range requiredVars {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.NewMissingConfig(missing)
	}

	return &Config{
		GoogleCredentials:    os.Getenv("GOOGLE_SHEETS_CREDENTIALS"),
		SpreadsheetID:        os.Getenv("SPREADSHEET_ID"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GmailUser:            os.Getenv("GMAIL_USER"),
		GmailAppPassword:     os.Getenv("GMAIL_APP_PASSWORD"),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}, nil
}
