package leads

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/socialboost/leads-api/pkg/logging"
)

// FileStore owns the canonical lead collection: a mutable in-memory slice
// mirrored to a JSON document on every Persist. The CSV file is a derived
// projection regenerated in full after each mutation, never patched.
type FileStore struct {
	mu       sync.Mutex
	jsonPath string
	csvPath  string
	logger   *logging.Logger
	leads    []Lead
}

// document is the persisted shape of the collection.
type document struct {
	Leads []Lead `json:"leads"`
}

// NewFileStore creates a store backed by <dataDir>/leads.json with a CSV
// mirror at <dataDir>/leads.csv.
func NewFileStore(dataDir string, logger *logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &FileStore{
		jsonPath: filepath.Join(dataDir, "leads.json"),
		csvPath:  filepath.Join(dataDir, "leads.csv"),
		logger:   logger,
	}
}

// Load reads the persisted collection into memory. A missing or unreadable
// file leaves the store empty and returns the error for logging; startup
// continues either way, since a fresh deploy has no file yet.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.jsonPath)
	if err != nil {
		s.leads = nil
		return fmt.Errorf("read %s: %w", s.jsonPath, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.leads = nil
		return fmt.Errorf("parse %s: %w", s.jsonPath, err)
	}

	s.leads = doc.Leads
	return nil
}

// All returns a snapshot copy of the collection, empty when uninitialized.
func (s *FileStore) All() []Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Append adds a lead to the in-memory collection. Disk is untouched until
// Persist.
func (s *FileStore) Append(lead Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, lead)
}

// Remove deletes the lead with the given id, reporting ErrLeadNotFound when
// no record matches.
func (s *FileStore) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, lead := range s.leads {
		if lead.ID == id {
			s.leads = append(s.leads[:i], s.leads[i+1:]...)
			return nil
		}
	}
	return ErrLeadNotFound
}

// FindByEmail looks up a lead by email, case-insensitively.
func (s *FileStore) FindByEmail(email string) (Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lead := range s.leads {
		if strings.EqualFold(lead.Email, email) {
			return lead, true
		}
	}
	return Lead{}, false
}

// NextID returns max existing id + 1, or 1 for an empty collection.
func (s *FileStore) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 1
	for _, lead := range s.leads {
		if lead.ID >= next {
			next = lead.ID + 1
		}
	}
	return next
}

// Count returns the number of leads currently held.
func (s *FileStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

// Persist rewrites the whole JSON document. The in-memory collection is the
// source of truth; a write failure is the caller's to log, never to roll back.
func (s *FileStore) Persist() error {
	s.mu.Lock()
	doc := document{Leads: s.leads}
	if doc.Leads == nil {
		doc.Leads = []Lead{}
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal leads: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.jsonPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.jsonPath, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.jsonPath, err)
	}
	return nil
}
