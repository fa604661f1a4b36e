// Package crm defines the narrow create-or-update contact capability the
// lead service uses to propagate submissions to external marketing systems.
package crm

import (
	"context"
	"strings"
)

// Contact is the vendor-neutral projection of a lead pushed to a CRM or
// mailing list. Optional fields are empty strings when the lead omitted them.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Notes     string
	Budget    string
}

// Syncer propagates a contact to one external system, best-effort.
// The return value reports success (including "already exists") or failure;
// implementations never return errors to callers, they log and report false.
type Syncer interface {
	Name() string
	SyncContact(ctx context.Context, contact Contact) bool
}

// SplitName breaks a full name into first and last parts: the first
// whitespace token becomes the first name, the remaining tokens joined by a
// space become the last name (empty when there is only one token).
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
