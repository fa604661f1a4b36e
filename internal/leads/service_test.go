package leads

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/socialboost/leads-api/internal/crm"
	"github.com/socialboost/leads-api/pkg/logging"
)

type fakeSyncer struct {
	mu       sync.Mutex
	name     string
	result   bool
	contacts []crm.Contact
}

func (f *fakeSyncer) Name() string { return f.name }

func (f *fakeSyncer) SyncContact(_ context.Context, contact crm.Contact) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, contact)
	return f.result
}

func (f *fakeSyncer) calls() []crm.Contact {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]crm.Contact, len(f.contacts))
	copy(out, f.contacts)
	return out
}

func newTestService(t *testing.T, opts ServiceOptions) *Service {
	t.Helper()
	store := NewFileStore(t.TempDir(), logging.Default())
	return NewService(store, opts, logging.Default())
}

func validRequest(email string) *CreateLeadRequest {
	return &CreateLeadRequest{
		Name:  "Mario Rossi",
		Email: email,
		Phone: "333123456",
	}
}

func TestSubmit_AssignsIncreasingIDs(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	emails := []string{"a@test.com", "b@test.com", "c@test.com"}
	prev := 0
	for _, email := range emails {
		lead, err := svc.Submit(validRequest(email), RequestMeta{})
		if err != nil {
			t.Fatalf("submit %s: %v", email, err)
		}
		if lead.ID <= prev {
			t.Errorf("id %d not strictly increasing after %d", lead.ID, prev)
		}
		prev = lead.ID
	}
}

func TestSubmit_NormalizesEmailAndDefaults(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	lead, err := svc.Submit(validRequest("Mario@Test.com"), RequestMeta{
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if lead.ID != 1 {
		t.Errorf("expected first id 1, got %d", lead.ID)
	}
	if lead.Email != "mario@test.com" {
		t.Errorf("email not lowercased: %s", lead.Email)
	}
	if lead.Timestamp == "" {
		t.Error("timestamp must default to server time")
	}
	if lead.CreatedAt.IsZero() {
		t.Error("createdAt must be stamped")
	}
	if lead.IPAddress != "203.0.113.7" || lead.UserAgent != "Mozilla/5.0" {
		t.Errorf("request meta not captured: %+v", lead)
	}
}

func TestSubmit_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	if _, err := svc.Submit(validRequest("Mario@Test.com"), RequestMeta{}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := svc.Submit(validRequest("MARIO@test.com"), RequestMeta{})
	if err != ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if got := svc.store.Count(); got != 1 {
		t.Errorf("duplicate must not mutate store, size %d", got)
	}
}

func TestSubmit_ValidationBeforeMutation(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	cases := []struct {
		name string
		req  *CreateLeadRequest
		want error
	}{
		{"missing name", &CreateLeadRequest{Email: "a@test.com", Phone: "123"}, ErrMissingFields},
		{"missing email", &CreateLeadRequest{Name: "Mario", Phone: "123"}, ErrMissingFields},
		{"missing phone", &CreateLeadRequest{Name: "Mario", Email: "a@test.com"}, ErrMissingFields},
		{"no at sign", validRequest("mariotest.com"), ErrInvalidEmail},
		{"no domain dot", validRequest("mario@testcom"), ErrInvalidEmail},
		{"spaces in email", validRequest("ma rio@test.com"), ErrInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(tc.req, RequestMeta{}); err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if got := svc.store.Count(); got != 0 {
		t.Errorf("rejected submissions must not mutate store, size %d", got)
	}
}

func TestSubmit_DispatchesAllSyncers(t *testing.T) {
	crmSync := &fakeSyncer{name: "hubspot", result: true}
	listSync := &fakeSyncer{name: "brevo", result: false}
	svc := newTestService(t, ServiceOptions{Syncers: []crm.Syncer{crmSync, listSync}})

	req := validRequest("mario@test.com")
	req.Company = strPtr("Rossi SRL")
	req.Message = strPtr("info please")
	req.Budget = strPtr("1000-5000")

	if _, err := svc.Submit(req, RequestMeta{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.Wait()

	for _, f := range []*fakeSyncer{crmSync, listSync} {
		calls := f.calls()
		if len(calls) != 1 {
			t.Fatalf("%s: expected 1 sync call, got %d", f.name, len(calls))
		}
		contact := calls[0]
		if contact.FirstName != "Mario" || contact.LastName != "Rossi" {
			t.Errorf("%s: name split mismatch %+v", f.name, contact)
		}
		if contact.Email != "mario@test.com" || contact.Notes != "info please" {
			t.Errorf("%s: field mapping mismatch %+v", f.name, contact)
		}
	}
}

func TestSubmit_SyncFailureDoesNotFailSubmission(t *testing.T) {
	svc := newTestService(t, ServiceOptions{Syncers: []crm.Syncer{&fakeSyncer{name: "hubspot", result: false}}})

	lead, err := svc.Submit(validRequest("mario@test.com"), RequestMeta{})
	if err != nil {
		t.Fatalf("submit must succeed despite sync failure: %v", err)
	}
	if lead.ID != 1 {
		t.Errorf("unexpected lead %+v", lead)
	}
	svc.Wait()
}

func TestSubmit_PersistFailureStillSucceeds(t *testing.T) {
	store := NewFileStore("/proc/no-such-dir", logging.Default())
	svc := NewService(store, ServiceOptions{}, logging.Default())

	lead, err := svc.Submit(validRequest("mario@test.com"), RequestMeta{})
	if err != nil {
		t.Fatalf("submit must succeed despite persist failure: %v", err)
	}
	if lead.ID != 1 {
		t.Errorf("unexpected lead id %d", lead.ID)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(2 * time.Hour), base.Add(time.Hour)}
	emails := []string{"a@test.com", "b@test.com", "c@test.com"}
	for i, ts := range times {
		ts := ts
		svc.now = func() time.Time { return ts }
		if _, err := svc.Submit(validRequest(emails[i]), RequestMeta{}); err != nil {
			t.Fatal(err)
		}
	}

	got := svc.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 leads, got %d", len(got))
	}
	if got[0].Email != "b@test.com" || got[1].Email != "c@test.com" || got[2].Email != "a@test.com" {
		t.Errorf("not newest-first: %s, %s, %s", got[0].Email, got[1].Email, got[2].Email)
	}
}

func TestGetAndDelete(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})
	created, err := svc.Submit(validRequest("mario@test.com"), RequestMeta{})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "mario@test.com" {
		t.Errorf("unexpected lead %+v", got)
	}

	if _, err := svc.Get(99); err != ErrLeadNotFound {
		t.Errorf("expected ErrLeadNotFound, got %v", err)
	}

	if err := svc.Delete(99); err != ErrLeadNotFound {
		t.Errorf("expected ErrLeadNotFound, got %v", err)
	}
	if got := svc.store.Count(); got != 1 {
		t.Errorf("failed delete must not change size, got %d", got)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := svc.store.Count(); got != 0 {
		t.Errorf("expected empty store, size %d", got)
	}
}

func TestStats_Windows(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	// Fixed "now" mid-month, mid-day.
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

	offsets := map[string]time.Time{
		"two-hours-ago@test.com":  now.Add(-2 * time.Hour),
		"ten-days-ago@test.com":   now.AddDate(0, 0, -10),
		"forty-days-ago@test.com": now.AddDate(0, 0, -40),
	}
	for email, ts := range offsets {
		ts := ts
		svc.now = func() time.Time { return ts }
		if _, err := svc.Submit(validRequest(email), RequestMeta{}); err != nil {
			t.Fatal(err)
		}
	}

	svc.now = func() time.Time { return now }
	stats := svc.Stats()

	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.Today != 1 {
		t.Errorf("today = %d, want 1", stats.Today)
	}
	if stats.ThisWeek != 1 {
		t.Errorf("thisWeek = %d, want 1", stats.ThisWeek)
	}
	// Ten days ago is June 5th, inside the current calendar month.
	if stats.ThisMonth != 2 {
		t.Errorf("thisMonth = %d, want 2", stats.ThisMonth)
	}
}
