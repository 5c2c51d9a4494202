// internal/model/lead.go
package model

// Lead lifecycle states. Writes always use this exact casing;
// reads compare case-insensitively because the sheet is hand-edited.
const (
	StatusPending = "Pending"
	StatusSent    = "Sent"
	StatusError   = "Error"
)

// Lead is one row of the outreach sheet. RowNumber is the 1-based
// position in the sheet; row 1 holds the header, so data starts at row 2.
type Lead struct {
	RowNumber int    `json:"row_number"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Interest  string `json:"interest"`
	Region    string `json:"region"`
	Status    string `json:"status"`
}

// NewLeadFromRow builds a Lead from a raw sheet row in column order
// name, contact, interest, region, status. Rows shorter than the header
// are padded with empty strings; a missing status defaults to Pending.
func NewLeadFromRow(rowNumber int, row []string) Lead {
	for len(row) < 5 {
		row = append(row, "")
	}

	lead := Lead{
		RowNumber: rowNumber,
		Name:      row[0],
		Contact:   row[1],
		Interest:  row[2],
		Region:    row[3],
		Status:    row[4],
	}
	if lead.Status == "" {
		lead.Status = StatusPending
	}
	return lead
}

// CampaignResult aggregates per-lead outcomes for a single run.
type CampaignResult struct {
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`
}
