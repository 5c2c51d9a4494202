// internal/sheets/store.go
package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/unclebandit/outreach-assistant/internal/config"
	appErrors "github.com/unclebandit/outreach-assistant/internal/errors"
	"github.com/unclebandit/outreach-assistant/internal/model"
)

const (
	// Columns A:E in fixed order: name, contact, interest, region, status.
	leadRange    = "A:E"
	statusColumn = "E"
)

// Store reads and writes lead rows in a single Google Sheets document.
type Store struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewStore authenticates against the Sheets API with the service
// account file from the config.
func NewStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.GoogleCredentials),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, appErrors.NewStoreError("authenticate", err)
	}
	logger.Info("authenticated with Google Sheets API")

	return &Store{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReadLeads fetches all lead rows from the named tab. The first row is
// the header and is discarded. An empty tab yields an empty slice.
func (s *Store) ReadLeads(ctx context.Context, sheetName string) ([]model.Lead, error) {
	readRange := fmt.Sprintf("%s!%s", sheetName, leadRange)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, appErrors.NewStoreError("read", err)
	}

	if len(resp.Values) == 0 {
		s.logger.Warn("no data found in the sheet", zap.String("sheet", sheetName))
		return []model.Lead{}, nil
	}

	leads := parseLeads(resp.Values)
	s.logger.Info("read leads from sheet", zap.Int("count", len(leads)))
	return leads, nil
}

// parseLeads converts raw sheet rows into Leads, skipping the header.
func parseLeads(values [][]interface{}) []model.Lead {
	leads := make([]model.Lead, 0, len(values)-1)
	for i, row := range values[1:] {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		// Data starts at sheet row 2.
		leads = append(leads, model.NewLeadFromRow(i+2, cells))
	}
	return leads
}

// UpdateLeadStatus writes a single status cell for the given row.
// Last write wins; there is no read-modify-write guard against
// concurrent manual edits.
func (s *Store) UpdateLeadStatus(ctx context.Context, sheetName string, rowNumber int, status string) error {
	updateRange := fmt.Sprintf("%s!%s%d", sheetName, statusColumn, rowNumber)
	body := &sheets.ValueRange{
		Values: [][]interface{}{{status}},
	}

	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, updateRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return appErrors.NewStoreError("update", err)
	}

	s.logger.Info("updated lead status", zap.Int("row", rowNumber), zap.String("status", status))
	return nil
}

// GetPendingLeads returns only the leads whose status reads as Pending.
func (s *Store) GetPendingLeads(ctx context.Context, sheetName string) ([]model.Lead, error) {
	all, err := s.ReadLeads(ctx, sheetName)
	if err != nil {
		return nil, err
	}

	pending := filterByStatus(all, model.StatusPending)
	s.logger.Info("found pending leads", zap.Int("count", len(pending)))
	return pending, nil
}

// filterByStatus keeps leads matching the status, ignoring case because
// the sheet is hand-edited.
func filterByStatus(leads []model.Lead, status string) []model.Lead {
	matched := []model.Lead{}
	for _, lead := range leads {
		if strings.EqualFold(lead.Status, status) {
			matched = append(matched, lead)
		}
	}
	return matched
}

// ListSheets returns the tab titles of the spreadsheet.
func (s *Store) ListSheets(ctx context.Context) ([]string, error) {
	resp, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, appErrors.NewStoreError("metadata", err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		titles = append(titles, sheet.Properties.Title)
	}
	return titles, nil
}
