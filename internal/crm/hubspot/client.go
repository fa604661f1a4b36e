// Package hubspot syncs lead contacts into HubSpot CRM.
package hubspot

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
	defaultBaseURL = "https://api.hubapi.com"
	defaultTimeout = 15 * time.Second

	contactsPath = "/crm/v3/objects/contacts"
)

// Client upserts contacts through the HubSpot CRM v3 REST API.
// A client without an access token is inert: every sync is skipped.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *logging.Logger
}

// NewClient constructs a HubSpot contacts client. baseURL is overridable for tests.
func NewClient(accessToken, baseURL string, logger *logging.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: strings.TrimSpace(accessToken),
		logger:      logger,
	}
}

// Name identifies this adapter in logs and metrics.
func (c *Client) Name() string { return "hubspot" }

// Configured reports whether an access token is present.
func (c *Client) Configured() bool { return c.accessToken != "" }

type contactProperties struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company"`
	Notes     string `json:"notes_last_contacted"`
	Website   string `json:"website"`
}

type createContactRequest struct {
	Properties contactProperties `json:"properties"`
	// HubSpot requires the key even when empty.
	Associations []any `json:"associations"`
}

type contactResponse struct {
	ID string `json:"id"`
}

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchResponse struct {
	Results []contactResponse `json:"results"`
}

// SyncContact creates the contact in HubSpot, falling back to a
// search-by-email plus update of the mutable fields when HubSpot reports the
// contact already exists. Failures are logged and reported as false, never
// returned.
func (c *Client) SyncContact(ctx context.Context, contact crm.Contact) bool {
	if !c.Configured() {
		c.logger.Info("hubspot sync skipped (not configured)")
		return false
	}

	props := contactProperties{
		Email:     contact.Email,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Phone:     contact.Phone,
		Company:   contact.Company,
		Notes:     contact.Notes,
		// The landing page parks the declared budget in the website
		// property; the portal's reporting reads it from there.
		Website: contact.Budget,
	}

	var created contactResponse
	status, err := c.doJSON(ctx, http.MethodPost, contactsPath, createContactRequest{
		Properties:   props,
		Associations: []any{},
	}, &created)
	if err == nil {
		c.logger.Info("hubspot contact created", "contact_id", created.ID, "email", contact.Email)
		return true
	}
	if status != http.StatusConflict {
		c.logger.Error("hubspot sync failed", "error", err, "email", contact.Email)
		return false
	}

	// Contact already exists: look it up by email and refresh the fields a
	// repeat submission is allowed to change.
	var found searchResponse
	if _, err := c.doJSON(ctx, http.MethodPost, contactsPath+"/search", searchRequest{
		FilterGroups: []filterGroup{{
			Filters: []filter{{PropertyName: "email", Operator: "EQ", Value: contact.Email}},
		}},
	}, &found); err != nil {
		c.logger.Error("hubspot contact search failed", "error", err, "email", contact.Email)
		return false
	}
	if len(found.Results) == 0 {
		// Exists but not searchable yet; the contact is already there, which
		// is all the caller needs.
		c.logger.Info("hubspot contact already exists", "email", contact.Email)
		return true
	}

	contactID := found.Results[0].ID
	update := struct {
		Properties map[string]string `json:"properties"`
	}{Properties: map[string]string{
		"phone":                contact.Phone,
		"company":              contact.Company,
		"notes_last_contacted": contact.Notes,
	}}
	if _, err := c.doJSON(ctx, http.MethodPatch, contactsPath+"/"+contactID, update, nil); err != nil {
		c.logger.Error("hubspot contact update failed", "error", err, "contact_id", contactID)
		return false
	}

	c.logger.Info("hubspot contact updated", "contact_id", contactID, "email", contact.Email)
	return true
}

// doJSON issues a JSON request and decodes a JSON response. The returned
// status code is valid whenever the server answered, including non-2xx.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) (int, error) {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return resp.StatusCode, fmt.Errorf("hubspot API returned %d: %s", resp.StatusCode, msg)
	}

	if len(respBody) == 0 || out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
