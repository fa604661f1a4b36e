package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/socialboost/leads-api/internal/leads"
	"github.com/socialboost/leads-api/pkg/logging"
)

// LeadNotifier emails the site owner a summary of every captured lead.
// Failures are logged and swallowed; a missed notification never affects the
// submission.
type LeadNotifier struct {
	sender EmailSender
	to     string
	logger *logging.Logger
}

// NewLeadNotifier creates a notifier, or nil when no sender or recipient is
// configured.
func NewLeadNotifier(sender EmailSender, to string, logger *logging.Logger) *LeadNotifier {
	if sender == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadNotifier{sender: sender, to: to, logger: logger}
}

// LeadCaptured sends the owner notification for a new lead.
func (n *LeadNotifier) LeadCaptured(ctx context.Context, lead leads.Lead) {
	msg := EmailMessage{
		To:      n.to,
		Subject: fmt.Sprintf("New lead: %s", lead.Name),
		Body:    formatLead(lead),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
		return
	}
	n.logger.Info("lead notification sent", "lead_id", lead.ID, "to", n.to)
}

func formatLead(lead leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", lead.Name, lead.Email, lead.Phone)
	if lead.Company != nil {
		fmt.Fprintf(&b, "Company: %s\n", *lead.Company)
	}
	if lead.Budget != nil {
		fmt.Fprintf(&b, "Budget: %s\n", *lead.Budget)
	}
	if lead.Message != nil {
		fmt.Fprintf(&b, "Message: %s\n", *lead.Message)
	}
	fmt.Fprintf(&b, "Submitted: %s\n", lead.CreatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
