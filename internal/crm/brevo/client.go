// Package brevo subscribes lead contacts to a Brevo mailing list.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/socialboost/leads-api/internal/crm"
	"github.com/socialboost/leads-api/pkg/logging"
)

const (
	defaultBaseURL = "https://api.brevo.com"
	defaultTimeout = 15 * time.Second
)

// Client upserts contacts through the Brevo (ex Sendinblue) v3 contacts API.
// A client without an API key is inert: every sync is skipped.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	listID     int
	logger     *logging.Logger
}

// NewClient constructs a Brevo contacts client. listID of 0 means the contact
// is created without a list assignment. baseURL is overridable for tests.
func NewClient(apiKey string, listID int, baseURL string, logger *logging.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		listID:     listID,
		logger:     logger,
	}
}

// Name identifies this adapter in logs and metrics.
func (c *Client) Name() string { return "brevo" }

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type contactAttributes struct {
	FirstName string `json:"FIRSTNAME"`
	LastName  string `json:"LASTNAME"`
	SMS       string `json:"SMS,omitempty"`
	Company   string `json:"COMPANY,omitempty"`
	Message   string `json:"MESSAGE,omitempty"`
	Budget    string `json:"BUDGET,omitempty"`
}

type createContactRequest struct {
	Email         string            `json:"email"`
	Attributes    contactAttributes `json:"attributes"`
	ListIDs       []int             `json:"listIds,omitempty"`
	UpdateEnabled bool              `json:"updateEnabled"`
}

type createContactResponse struct {
	ID int64 `json:"id"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SyncContact upserts the contact into the configured mailing list. Brevo's
// duplicate_parameter error means the contact is already subscribed, which is
// a success outcome. Any other failure is logged and reported as false.
func (c *Client) SyncContact(ctx context.Context, contact crm.Contact) bool {
	if !c.Configured() {
		c.logger.Info("brevo sync skipped (not configured)")
		return false
	}

	reqBody := createContactRequest{
		Email: contact.Email,
		Attributes: contactAttributes{
			FirstName: contact.FirstName,
			LastName:  contact.LastName,
			SMS:       contact.Phone,
			Company:   contact.Company,
			Message:   contact.Notes,
			Budget:    contact.Budget,
		},
		UpdateEnabled: true,
	}
	if c.listID > 0 {
		reqBody.ListIDs = []int{c.listID}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.logger.Error("brevo sync failed", "error", err, "email", contact.Email)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/contacts", bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("brevo sync failed", "error", err, "email", contact.Email)
		return false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("brevo sync failed", "error", err, "email", contact.Email)
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("brevo sync failed", "error", err, "email", contact.Email)
		return false
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		var created createContactResponse
		// A 204 update response has no body.
		_ = json.Unmarshal(respBody, &created)
		c.logger.Info("brevo contact created", "contact_id", created.ID, "email", contact.Email)
		return true
	}

	if isDuplicateContact(respBody) {
		c.logger.Info("brevo contact already exists", "email", contact.Email)
		return true
	}

	msg := string(respBody)
	if len(msg) > 300 {
		msg = msg[:300]
	}
	c.logger.Error("brevo sync failed", "error", fmt.Sprintf("brevo API returned %d: %s", resp.StatusCode, msg), "email", contact.Email)
	return false
}

// isDuplicateContact recognizes Brevo's vendor-specific conflict signal.
func isDuplicateContact(body []byte) bool {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return false
	}
	return apiErr.Code == "duplicate_parameter"
}
