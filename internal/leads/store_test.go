package leads

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/socialboost/leads-api/pkg/logging"
)

func strPtr(s string) *string { return &s }

func sampleLead(id int, email string, createdAt time.Time) Lead {
	return Lead{
		ID:        id,
		Name:      "Mario Rossi",
		Email:     email,
		Phone:     "333123456",
		Company:   strPtr("Rossi SRL"),
		Budget:    strPtr("1000-5000"),
		Message:   strPtr("Vorrei maggiori informazioni"),
		Timestamp: createdAt.Format(time.RFC3339),
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
		CreatedAt: createdAt,
	}
}

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir(), logging.Default())

	if err := store.Load(); err == nil {
		t.Error("expected error for missing file")
	}
	if got := store.All(); len(got) != 0 {
		t.Errorf("expected empty collection, got %d leads", len(got))
	}
}

func TestLoad_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "leads.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(dir, logging.Default())
	if err := store.Load(); err == nil {
		t.Error("expected error for corrupt file")
	}
	if got := store.All(); len(got) != 0 {
		t.Errorf("expected empty collection, got %d leads", len(got))
	}
}

func TestPersistLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, logging.Default())

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	want := sampleLead(1, "mario@test.com", created)
	store.Append(want)
	if err := store.Persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}

	reloaded := NewFileStore(dir, logging.Default())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	got := reloaded.All()
	if len(got) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got[0], want)
	}
}

func TestNextID(t *testing.T) {
	store := NewFileStore(t.TempDir(), logging.Default())

	if got := store.NextID(); got != 1 {
		t.Errorf("empty store NextID = %d, want 1", got)
	}

	store.Append(sampleLead(1, "a@test.com", time.Now()))
	store.Append(sampleLead(7, "b@test.com", time.Now()))

	if got := store.NextID(); got != 8 {
		t.Errorf("NextID = %d, want 8 (max existing + 1)", got)
	}
}

func TestFindByEmail_CaseInsensitive(t *testing.T) {
	store := NewFileStore(t.TempDir(), logging.Default())
	store.Append(sampleLead(1, "mario@test.com", time.Now()))

	if _, ok := store.FindByEmail("MARIO@TEST.COM"); !ok {
		t.Error("lookup must be case-insensitive")
	}
	if _, ok := store.FindByEmail("other@test.com"); ok {
		t.Error("unexpected match for unknown email")
	}
}

func TestRemove(t *testing.T) {
	store := NewFileStore(t.TempDir(), logging.Default())
	store.Append(sampleLead(1, "a@test.com", time.Now()))
	store.Append(sampleLead(2, "b@test.com", time.Now()))

	if err := store.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := store.Count(); got != 1 {
		t.Errorf("expected 1 lead after remove, got %d", got)
	}

	if err := store.Remove(99); err != ErrLeadNotFound {
		t.Errorf("expected ErrLeadNotFound, got %v", err)
	}
	if got := store.Count(); got != 1 {
		t.Errorf("failed remove must not change size, got %d", got)
	}
}

func TestPersist_UnwritableDirReturnsError(t *testing.T) {
	store := NewFileStore("/proc/no-such-dir", logging.Default())
	store.Append(sampleLead(1, "a@test.com", time.Now()))

	if err := store.Persist(); err == nil {
		t.Error("expected error on unwritable path")
	}
	// In-memory state survives regardless.
	if got := store.Count(); got != 1 {
		t.Errorf("in-memory collection must be intact, got %d", got)
	}
}
