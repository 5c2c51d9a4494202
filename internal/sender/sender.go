// internal/sender/sender.go
package sender

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/unclebandit/outreach-assistant/internal/config"
	"github.com/unclebandit/outreach-assistant/internal/model"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = 587

	whatsappPrefix = "whatsapp:"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// Characters tolerated in a phone contact before the digit check.
	phoneJunk = regexp.MustCompile(`[\s\-()+]`)
	// Formatting characters stripped before normalization; keeps any +.
	phoneFormatting = regexp.MustCompile(`[\s\-()]`)
	digitsOnly      = regexp.MustCompile(`^[0-9]+$`)
)

// Result is the explicit outcome of a delivery attempt. Transport and
// auth failures are folded into a failure Result, never propagated, so
// the orchestrator can record per-lead status without aborting.
type Result struct {
	OK     bool
	Detail string
}

// ConnectionStatus reports the delivery probes independently.
type ConnectionStatus struct {
	Gmail  bool
	Twilio bool
}

type contactKind int

const (
	contactInvalid contactKind = iota
	contactEmail
	contactPhone
)

// Sender delivers a message over Gmail SMTP or Twilio WhatsApp
// depending on the shape of the lead's contact.
type Sender struct {
	cfg    *config.Config
	dialer *gomail.Dialer
	twilio *twilio.RestClient
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		dialer: gomail.NewDialer(smtpHost, smtpPort, cfg.GmailUser, cfg.GmailAppPassword),
		twilio: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		logger: logger,
	}
}

// Send classifies the contact and delivers over the matching channel.
// A dry run succeeds without any network call. An unrecognized contact
// fails without any network call.
func (s *Sender) Send(ctx context.Context, lead model.Lead, message string, dryRun bool) Result {
	if dryRun {
		s.logger.Info("test mode: would send",
			zap.String("name", lead.Name),
			zap.String("contact", lead.Contact),
			zap.String("message", message))
		return Result{OK: true, Detail: "test mode - message not actually sent"}
	}

	contact := strings.TrimSpace(lead.Contact)
	switch classify(contact) {
	case contactEmail:
		return s.sendEmail(lead, message, contact)
	case contactPhone:
		return s.sendWhatsApp(lead, message, contact)
	default:
		detail := fmt.Sprintf("invalid contact format for %s: %s", lead.Name, contact)
		s.logger.Error(detail)
		return Result{OK: false, Detail: detail}
	}
}

// classify decides exactly one of email, phone or invalid for any
// contact string. Email shape is checked first.
func classify(contact string) contactKind {
	if emailPattern.MatchString(contact) {
		return contactEmail
	}
	cleaned := phoneJunk.ReplaceAllString(contact, "")
	if digitsOnly.MatchString(cleaned) && len(cleaned) >= 10 && len(cleaned) <= 15 {
		return contactPhone
	}
	return contactInvalid
}

func emailSubject(lead model.Lead) string {
	return fmt.Sprintf("Hello %s!", lead.Name)
}

func (s *Sender) sendEmail(lead model.Lead, message, email string) Result {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.GmailUser)
	m.SetHeader("To", email)
	m.SetHeader("Subject", emailSubject(lead))
	m.SetBody("text/plain", message)

	if err := s.dialer.DialAndSend(m); err != nil {
		detail := fmt.Sprintf("failed to send email to %s (%s): %v", lead.Name, email, err)
		s.logger.Error(detail)
		return Result{OK: false, Detail: detail}
	}

	detail := fmt.Sprintf("email sent successfully to %s (%s)", lead.Name, email)
	s.logger.Info(detail)
	return Result{OK: true, Detail: detail}
}

// normalizePhone converts a phone contact to international form:
// a number already carrying + is used verbatim; a 12-digit number
// starting 91 gets +; a 10-digit number starting 6-9 is treated as an
// Indian mobile and gets +91; any other 10-digit number gets +1;
// everything else just gets a + prefix.
func normalizePhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	cleaned := phoneFormatting.ReplaceAllString(phone, "")

	switch {
	case strings.HasPrefix(cleaned, "91") && len(cleaned) == 12:
		return "+" + cleaned
	case len(cleaned) == 10 && strings.ContainsRune("6789", rune(cleaned[0])):
		return "+91" + cleaned
	case len(cleaned) == 10:
		return "+1" + cleaned
	default:
		return "+" + cleaned
	}
}

func (s *Sender) sendWhatsApp(lead model.Lead, message, phone string) Result {
	to := whatsappPrefix + normalizePhone(phone)

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)
	params.SetFrom(s.cfg.TwilioWhatsAppNumber)
	params.SetTo(to)

	if _, err := s.twilio.Api.CreateMessage(params); err != nil {
		detail := fmt.Sprintf("failed to send WhatsApp to %s (%s): %v", lead.Name, to, err)
		s.logger.Error(detail)
		return Result{OK: false, Detail: detail}
	}

	detail := fmt.Sprintf("WhatsApp sent successfully to %s (%s)", lead.Name, to)
	s.logger.Info(detail)
	return Result{OK: true, Detail: detail}
}

// TestConnection probes the SMTP login and the Twilio account endpoint
// without sending anything. Each probe's error becomes a boolean.
func (s *Sender) TestConnection(ctx context.Context) ConnectionStatus {
	var status ConnectionStatus

	if closer, err := s.dialer.Dial(); err != nil {
		s.logger.Error("Gmail connection test failed", zap.Error(err))
	} else {
		closer.Close()
		status.Gmail = true
		s.logger.Info("Gmail connection test successful")
	}

	if _, err := s.twilio.Api.FetchAccount(s.cfg.TwilioAccountSID); err != nil {
		s.logger.Error("Twilio connection test failed", zap.Error(err))
	} else {
		status.Twilio = true
		s.logger.Info("Twilio connection test successful")
	}

	return status
}
