package leads

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/socialboost/leads-api/internal/crm"
	"github.com/socialboost/leads-api/internal/observability/metrics"
	"github.com/socialboost/leads-api/pkg/logging"
)

// Notifier receives best-effort notifications about captured leads.
type Notifier interface {
	LeadCaptured(ctx context.Context, lead Lead)
}

// Service orchestrates validation, deduplication, durable persistence and
// background CRM sync for lead submissions.
type Service struct {
	store       *FileStore
	syncers     []crm.Syncer
	notifier    Notifier
	metrics     *metrics.LeadMetrics
	logger      *logging.Logger
	syncTimeout time.Duration

	// now is swappable so stats windows can be tested against a fixed clock.
	now func() time.Time

	wg sync.WaitGroup
}

// ServiceOptions configures a Service. Syncers and Notifier may be empty;
// the corresponding dispatch steps are skipped.
type ServiceOptions struct {
	Syncers     []crm.Syncer
	Notifier    Notifier
	Metrics     *metrics.LeadMetrics
	SyncTimeout time.Duration
}

// NewService creates a lead service over the given store.
func NewService(store *FileStore, opts ServiceOptions, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.SyncTimeout <= 0 {
		opts.SyncTimeout = 15 * time.Second
	}
	return &Service{
		store:       store,
		syncers:     opts.Syncers,
		notifier:    opts.Notifier,
		metrics:     opts.Metrics,
		logger:      logger,
		syncTimeout: opts.SyncTimeout,
		now:         time.Now,
	}
}

// Submit validates and persists a new lead, then dispatches the configured
// sync adapters in the background. Persistence and CSV export failures are
// logged but do not fail the submission; once the in-memory append succeeds
// the caller gets the lead back.
func (s *Service) Submit(req *CreateLeadRequest, meta RequestMeta) (*Lead, error) {
	if err := req.Validate(); err != nil {
		s.metrics.ObserveSubmission(statusForError(err))
		return nil, err
	}

	if _, exists := s.store.FindByEmail(req.Email); exists {
		s.metrics.ObserveSubmission("duplicate")
		return nil, ErrDuplicateEmail
	}

	now := s.now()
	timestamp := strings.TrimSpace(req.Timestamp)
	if timestamp == "" {
		timestamp = now.Format(time.RFC3339)
	}

	lead := Lead{
		ID:        s.store.NextID(),
		Name:      req.Name,
		Email:     strings.ToLower(req.Email),
		Phone:     req.Phone,
		Company:   req.Company,
		Budget:    req.Budget,
		Message:   req.Message,
		Timestamp: timestamp,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
	}

	s.store.Append(lead)
	if err := s.store.Persist(); err != nil {
		s.logger.Error("failed to persist leads", "error", err)
	}
	if err := s.store.ExportCSV(); err != nil {
		s.logger.Error("failed to export leads CSV", "error", err)
	}

	s.logger.Info("lead saved", "id", lead.ID, "email", lead.Email)
	s.metrics.ObserveSubmission("created")

	s.dispatchSync(lead)

	return &lead, nil
}

// dispatchSync fans the lead out to every adapter without blocking the
// request. Outcomes are logged and counted, never surfaced, never retried.
func (s *Service) dispatchSync(lead Lead) {
	contact := contactFromLead(lead)

	for _, syncer := range s.syncers {
		s.wg.Add(1)
		go func(sy crm.Syncer) {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
			defer cancel()

			ok := sy.SyncContact(ctx, contact)
			outcome := "failed"
			if ok {
				outcome = "ok"
			}
			s.metrics.ObserveSync(sy.Name(), outcome)
			s.logger.Info("lead sync finished", "adapter", sy.Name(), "outcome", outcome, "lead_id", lead.ID)
		}(syncer)
	}

	if s.notifier != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
			defer cancel()
			s.notifier.LeadCaptured(ctx, lead)
		}()
	}
}

// Wait blocks until in-flight background syncs complete. Called on shutdown
// and by tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

// List returns all leads, newest createdAt first.
func (s *Service) List() []Lead {
	out := s.store.All()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Get returns the lead with the given id.
func (s *Service) Get(id int) (*Lead, error) {
	for _, lead := range s.store.All() {
		if lead.ID == id {
			return &lead, nil
		}
	}
	return nil, ErrLeadNotFound
}

// Delete removes the lead with the given id and refreshes the persisted file
// and CSV mirror, best-effort.
func (s *Service) Delete(id int) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	if err := s.store.Persist(); err != nil {
		s.logger.Error("failed to persist leads", "error", err)
	}
	if err := s.store.ExportCSV(); err != nil {
		s.logger.Error("failed to export leads CSV", "error", err)
	}
	return nil
}

// Stats counts leads per window relative to the current server time:
// today = since local midnight, thisWeek = last 7x24h, thisMonth = since the
// first of the current month.
func (s *Service) Stats() Stats {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	all := s.store.All()
	stats := Stats{Total: len(all)}
	for _, lead := range all {
		if !lead.CreatedAt.Before(midnight) {
			stats.Today++
		}
		if !lead.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !lead.CreatedAt.Before(monthStart) {
			stats.ThisMonth++
		}
	}
	return stats
}

func contactFromLead(lead Lead) crm.Contact {
	first, last := crm.SplitName(lead.Name)
	return crm.Contact{
		FirstName: first,
		LastName:  last,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   deref(lead.Company),
		Notes:     deref(lead.Message),
		Budget:    deref(lead.Budget),
	}
}

func statusForError(err error) string {
	switch err {
	case ErrMissingFields, ErrInvalidEmail:
		return "invalid"
	case ErrDuplicateEmail:
		return "duplicate"
	default:
		return "error"
	}
}
