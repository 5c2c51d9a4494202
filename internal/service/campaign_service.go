// internal/service/campaign_service.go
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-assistant/internal/model"
	"github.com/unclebandit/outreach-assistant/internal/sender"
)

// LeadStore defines the sheet operations the orchestrator needs
type LeadStore interface {
	ReadLeads(ctx context.Context, sheetName string) ([]model.Lead, error)
	GetPendingLeads(ctx context.Context, sheetName string) ([]model.Lead, error)
	UpdateLeadStatus(ctx context.Context, sheetName string, rowNumber int, status string) error
}

// MessageGenerator defines the generation call the orchestrator needs
type MessageGenerator interface {
	Generate(ctx context.Context, lead model.Lead) (string, error)
	TestGeneration(ctx context.Context) error
}

// MessageDeliverer defines the delivery calls the orchestrator needs
type MessageDeliverer interface {
	Send(ctx context.Context, lead model.Lead, message string, dryRun bool) sender.Result
	TestConnection(ctx context.Context) sender.ConnectionStatus
}

// CampaignService drives one outreach pass: read pending leads,
// generate, send, write back status, one lead at a time.
type CampaignService struct {
	Store     LeadStore
	Generator MessageGenerator
	Sender    MessageDeliverer
	Logger    *zap.Logger

	// Delay is the fixed pause between leads to stay under provider
	// rate limits. Zero disables it (tests).
	Delay time.Duration
}

// ConnectionReport holds the outcome of each connection probe.
type ConnectionReport struct {
	Sheets    bool
	Generator bool
	Gmail     bool
	Twilio    bool
}

// Run processes all pending leads in store order. Generation or
// delivery failure marks the lead Error and moves on; a store write
// failure aborts the run. In a dry run nothing is sent or written.
func (s *CampaignService) Run(ctx context.Context, sheetName string, dryRun bool) (*model.CampaignResult, error) {
	s.Logger.Info("starting outreach campaign",
		zap.String("sheet", sheetName),
		zap.Bool("test_mode", dryRun))

	leads, err := s.Store.GetPendingLeads(ctx, sheetName)
	if err != nil {
		return nil, err
	}

	result := &model.CampaignResult{}
	if len(leads) == 0 {
		s.Logger.Info("no pending leads found, campaign complete")
		return result, nil
	}

	s.Logger.Info("processing pending leads", zap.Int("count", len(leads)))

	for _, lead := range leads {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		s.Logger.Info("processing lead",
			zap.String("name", lead.Name),
			zap.String("contact", lead.Contact))

		message, err := s.Generator.Generate(ctx, lead)
		if err != nil {
			s.Logger.Error("failed to generate message",
				zap.String("name", lead.Name),
				zap.Error(err))
			if err := s.markLead(ctx, sheetName, lead, model.StatusError, dryRun); err != nil {
				return result, err
			}
			result.ErrorCount++
			continue
		}

		res := s.Sender.Send(ctx, lead, message, dryRun)
		if res.OK {
			s.Logger.Info("lead processed", zap.String("detail", res.Detail))
			if err := s.markLead(ctx, sheetName, lead, model.StatusSent, dryRun); err != nil {
				return result, err
			}
			result.SuccessCount++
		} else {
			s.Logger.Error("lead failed", zap.String("detail", res.Detail))
			if err := s.markLead(ctx, sheetName, lead, model.StatusError, dryRun); err != nil {
				return result, err
			}
			result.ErrorCount++
		}

		s.pause(ctx)
	}

	s.Logger.Info("campaign completed",
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", result.ErrorCount))
	return result, nil
}

// markLead writes the lead's status unless this is a dry run.
func (s *CampaignService) markLead(ctx context.Context, sheetName string, lead model.Lead, status string, dryRun bool) error {
	if dryRun {
		return nil
	}
	return s.Store.UpdateLeadStatus(ctx, sheetName, lead.RowNumber, status)
}

// pause sleeps the fixed inter-lead delay, cut short on cancellation.
func (s *CampaignService) pause(ctx context.Context) {
	if s.Delay <= 0 {
		return
	}
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
	}
}

// TestConnections probes the sheet read, the generator and both
// delivery channels independently. No status is written.
func (s *CampaignService) TestConnections(ctx context.Context, sheetName string) ConnectionReport {
	s.Logger.Info("testing API connections")
	var report ConnectionReport

	leads, err := s.Store.ReadLeads(ctx, sheetName)
	if err != nil {
		s.Logger.Error("Google Sheets: connection failed", zap.Error(err))
	} else {
		report.Sheets = true
		s.Logger.Info("Google Sheets: connected successfully", zap.Int("leads", len(leads)))
	}

	if err := s.Generator.TestGeneration(ctx); err != nil {
		s.Logger.Error("Gemini API: connection failed", zap.Error(err))
	} else {
		report.Generator = true
		s.Logger.Info("Gemini API: connected successfully")
	}

	status := s.Sender.TestConnection(ctx)
	report.Gmail = status.Gmail
	report.Twilio = status.Twilio

	return report
}

// RetryFailed resets every lead whose status reads as Error back to
// Pending, one update per row, and returns how many were reset.
func (s *CampaignService) RetryFailed(ctx context.Context, sheetName string) (int, error) {
	s.Logger.Info("looking for failed leads to retry")

	leads, err := s.Store.ReadLeads(ctx, sheetName)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, lead := range leads {
		if !strings.EqualFold(lead.Status, model.StatusError) {
			continue
		}
		if err := s.Store.UpdateLeadStatus(ctx, sheetName, lead.RowNumber, model.StatusPending); err != nil {
			return reset, err
		}
		s.Logger.Info("reset lead to pending",
			zap.String("name", lead.Name),
			zap.Int("row", lead.RowNumber))
		reset++
	}

	if reset == 0 {
		s.Logger.Info("no failed leads found")
	} else {
		s.Logger.Info("reset failed leads to pending", zap.Int("count", reset))
	}
	return reset, nil
}
