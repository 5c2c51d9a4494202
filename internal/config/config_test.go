package config

import (
	"errors"
	"strings"
	"testing"

	appErrors "github.com/unclebandit/outreach-assistant/internal/errors"
)

func setAllVars(t *testing.T) {
	t.Helper()
	for _, v := range requiredVars {
		t.Setenv(v, "value-for-"+v)
	}
}

func TestLoadWithAllVarsSet(t *testing.T) {
	setAllVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SpreadsheetID != "value-for-SPREADSHEET_ID" {
		t.Errorf("unexpected spreadsheet ID: %q", cfg.SpreadsheetID)
	}
	if cfg.TwilioWhatsAppNumber != "value-for-TWILIO_WHATSAPP_NUMBER" {
		t.Errorf("unexpected WhatsApp number: %q", cfg.TwilioWhatsAppNumber)
	}
}

func TestLoadReportsAllMissingVars(t *testing.T) {
	setAllVars(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GMAIL_USER", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing variables")
	}

	var missing *appErrors.MissingConfigError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingConfigError, got %T", err)
	}
	if len(missing.Vars) != 2 {
		t.Fatalf("expected 2 missing vars, got %v", missing.Vars)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") || !strings.Contains(err.Error(), "GMAIL_USER") {
		t.Errorf("error should name the missing vars: %v", err)
	}
}
