package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-assistant/internal/model"
	"github.com/unclebandit/outreach-assistant/internal/sender"
	"github.com/unclebandit/outreach-assistant/internal/service"
)

// MockStore keeps leads in memory and records status writes by row
type MockStore struct {
	leads   []model.Lead
	updates map[int]string
	readErr error
}

func NewMockStore(leads ...model.Lead) *MockStore {
	return &MockStore{leads: leads, updates: map[int]string{}}
}

func (m *MockStore) ReadLeads(ctx context.Context, sheetName string) ([]model.Lead, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.leads, nil
}

func (m *MockStore) GetPendingLeads(ctx context.Context, sheetName string) ([]model.Lead, error) {
	all, err := m.ReadLeads(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	pending := []model.Lead{}
	for _, lead := range all {
		if lead.Status == model.StatusPending {
			pending = append(pending, lead)
		}
	}
	return pending, nil
}

func (m *MockStore) UpdateLeadStatus(ctx context.Context, sheetName string, rowNumber int, status string) error {
	m.updates[rowNumber] = status
	return nil
}

// MockGenerator fails for any lead name present in failFor
type MockGenerator struct {
	failFor map[string]bool
	calls   int
}

func (m *MockGenerator) Generate(ctx context.Context, lead model.Lead) (string, error) {
	m.calls++
	if m.failFor[lead.Name] {
		return "", errors.New("empty response from model")
	}
	return fmt.Sprintf("Hi %s, about %s in %s", lead.Name, lead.Interest, lead.Region), nil
}

func (m *MockGenerator) TestGeneration(ctx context.Context) error { return nil }

// MockSender records sends and fails for any contact present in failFor
type MockSender struct {
	failFor map[string]bool
	sent    []model.Lead
}

func (m *MockSender) Send(ctx context.Context, lead model.Lead, message string, dryRun bool) sender.Result {
	m.sent = append(m.sent, lead)
	if m.failFor[lead.Contact] {
		return sender.Result{OK: false, Detail: "delivery failed"}
	}
	return sender.Result{OK: true, Detail: "sent"}
}

func (m *MockSender) TestConnection(ctx context.Context) sender.ConnectionStatus {
	return sender.ConnectionStatus{Gmail: true, Twilio: true}
}

func newService(store *MockStore, gen *MockGenerator, snd *MockSender) *service.CampaignService {
	return &service.CampaignService{
		Store:     store,
		Generator: gen,
		Sender:    snd,
		Logger:    zap.NewNop(),
		Delay:     0,
	}
}

func TestRunMarksSentWithExactCase(t *testing.T) {
	store := NewMockStore(
		model.Lead{RowNumber: 2, Name: "Jane", Contact: "jane@example.com", Status: model.StatusPending},
		model.Lead{RowNumber: 3, Name: "Ravi", Contact: "9876543210", Status: model.StatusPending},
	)
	gen := &MockGenerator{}
	snd := &MockSender{}

	result, err := newService(store, gen, snd).Run(context.Background(), "outreach_leads", false)
	if err != nil {
		t.Fatal(err)
	}

	if result.SuccessCount != 2 || result.ErrorCount != 0 {
		t.Fatalf("expected 2 successes, got %+v", result)
	}
	if store.updates[2] != "Sent" || store.updates[3] != "Sent" {
		t.Errorf("expected exact-case Sent writes, got %v", store.updates)
	}
	if len(snd.sent) != 2 {
		t.Errorf("expected 2 send attempts, got %d", len(snd.sent))
	}
}

func TestRunGenerationFailureMarksErrorWithoutSend(t *testing.T) {
	store := NewMockStore(
		model.Lead{RowNumber: 2, Name: "Jane", Contact: "jane@example.com", Status: model.StatusPending},
	)
	gen := &MockGenerator{failFor: map[string]bool{"Jane": true}}
	snd := &MockSender{}

	result, err := newService(store, gen, snd).Run(context.Background(), "outreach_leads", false)
	if err != nil {
		t.Fatal(err)
	}

	if result.SuccessCount != 0 || result.ErrorCount != 1 {
		t.Fatalf("expected 1 error, got %+v", result)
	}
	if store.updates[2] != model.StatusError {
		t.Errorf("expected Error status, got %q", store.updates[2])
	}
	if len(snd.sent) != 0 {
		t.Errorf("no send should be attempted after generation failure, got %d", len(snd.sent))
	}
}

func TestRunDeliveryFailureMarksError(t *testing.T) {
	store := NewMockStore(
		model.Lead{RowNumber: 2, Name: "Jane", Contact: "jane@example.com", Status: model.StatusPending},
		model.Lead{RowNumber: 3, Name: "Bad", Contact: "abc", Status: model.StatusPending},
	)
	gen := &MockGenerator{}
	snd := &MockSender{failFor: map[string]bool{"abc": true}}

	result, err := newService(store, gen, snd).Run(context.Background(), "outreach_leads", false)
	if err != nil {
		t.Fatal(err)
	}

	if result.SuccessCount != 1 || result.ErrorCount != 1 {
		t.Fatalf("expected one of each, got %+v", result)
	}
	if store.updates[2] != model.StatusSent {
		t.Errorf("row 2 should be Sent, got %q", store.updates[2])
	}
	if store.updates[3] != model.StatusError {
		t.Errorf("row 3 should be Error, got %q", store.updates[3])
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	store := NewMockStore(
		model.Lead{RowNumber: 2, Name: "Jane", Contact: "jane@example.com", Status: model.StatusPending},
	)
	gen := &MockGenerator{}
	snd := &MockSender{}

	result, err := newService(store, gen, snd).Run(context.Background(), "outreach_leads", true)
	if err != nil {
		t.Fatal(err)
	}

	if result.SuccessCount != 1 {
		t.Fatalf("dry run should still count, got %+v", result)
	}
	if len(store.updates) != 0 {
		t.Errorf("dry run must not write statuses, got %v", store.updates)
	}
}

func TestRunNoPendingLeads(t *testing.T) {
	store := NewMockStore(
		model.Lead{RowNumber: 2, Name: "Done", Contact: "done@example.com", Status: model.StatusSent},
	)
	gen := &MockGenerator{}
	snd := &MockSender{}

	result, err := newService(store, gen, snd).Run(context.Background(), "outreach_leads", false)
	if err != nil {
		t.Fatal(err)
	}
	if result.SuccessCount != 0 || result.ErrorCount != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if gen.calls != 0 {
		t.Errorf("generator should not be called, got %d calls", gen.calls)
	}
}

func TestRetryFailedResetsOnlyErrorLeads(t *testing.T) {
	store := NewMockStore(
		model.Lead{RowNumber: 2, Name: "a", Status: "Error"},
		model.Lead{RowNumber: 3, Name: "b", Status: "error"},
		model.Lead{RowNumber: 4, Name: "c", Status: "ERROR"},
		model.Lead{RowNumber: 5, Name: "d", Status: "Pending"},
		model.Lead{RowNumber: 6, Name: "e", Status: "Pending"},
	)
	gen := &MockGenerator{}
	snd := &MockSender{}

	reset, err := newService(store, gen, snd).RetryFailed(context.Background(), "outreach_leads")
	if err != nil {
		t.Fatal(err)
	}

	if reset != 3 {
		t.Fatalf("expected 3 resets, got %d", reset)
	}
	for _, row := range []int{2, 3, 4} {
		if store.updates[row] != "Pending" {
			t.Errorf("row %d should be reset to Pending, got %q", row, store.updates[row])
		}
	}
	for _, row := range []int{5, 6} {
		if _, touched := store.updates[row]; touched {
			t.Errorf("pending row %d should not be touched", row)
		}
	}
}

func TestRunPropagatesStoreReadFailure(t *testing.T) {
	store := NewMockStore()
	store.readErr = errors.New("sheets read failed: 403")
	gen := &MockGenerator{}
	snd := &MockSender{}

	if _, err := newService(store, gen, snd).Run(context.Background(), "outreach_leads", false); err == nil {
		t.Fatal("store read failure must abort the run")
	}
}

func TestTestConnectionsReportsEachProbe(t *testing.T) {
	store := NewMockStore()
	gen := &MockGenerator{}
	snd := &MockSender{}

	report := newService(store, gen, snd).TestConnections(context.Background(), "outreach_leads")
	if !report.Sheets || !report.Generator || !report.Gmail || !report.Twilio {
		t.Errorf("expected all probes ok, got %+v", report)
	}
	if len(store.updates) != 0 {
		t.Errorf("connection test must not mutate statuses, got %v", store.updates)
	}
}
