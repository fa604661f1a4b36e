package brevo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/socialboost/leads-api/internal/crm"
	"github.com/socialboost/leads-api/pkg/logging"
)

var testContact = crm.Contact{
	FirstName: "Mario",
	LastName:  "Rossi",
	Email:     "mario@test.com",
	Phone:     "333123456",
	Company:   "Rossi SRL",
	Notes:     "Vorrei maggiori informazioni",
	Budget:    "1000-5000",
}

func TestSyncContact_NotConfigured(t *testing.T) {
	client := NewClient("", 0, "", logging.Default())

	if client.SyncContact(context.Background(), testContact) {
		t.Error("unconfigured client must report false")
	}
}

func TestSyncContact_CreatesWithListID(t *testing.T) {
	var gotKey string
	var gotBody createContactRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/contacts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createContactResponse{ID: 55})
	}))
	defer srv.Close()

	client := NewClient("xkeysib-test", 7, srv.URL, logging.Default())

	if !client.SyncContact(context.Background(), testContact) {
		t.Fatal("expected sync to succeed")
	}
	if gotKey != "xkeysib-test" {
		t.Errorf("unexpected api key header %q", gotKey)
	}
	if !gotBody.UpdateEnabled {
		t.Error("updateEnabled must be set for upsert semantics")
	}
	if len(gotBody.ListIDs) != 1 || gotBody.ListIDs[0] != 7 {
		t.Errorf("unexpected list ids %v", gotBody.ListIDs)
	}
	if gotBody.Attributes.SMS != testContact.Phone {
		t.Errorf("phone not mapped to SMS attribute: %+v", gotBody.Attributes)
	}
}

func TestSyncContact_NoListID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body createContactRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.ListIDs != nil {
			t.Errorf("expected no listIds, got %v", body.ListIDs)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient("xkeysib-test", 0, srv.URL, logging.Default())

	if !client.SyncContact(context.Background(), testContact) {
		t.Error("204 update response must count as success")
	}
}

func TestSyncContact_DuplicateIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(apiError{Code: "duplicate_parameter", Message: "Contact already exist"})
	}))
	defer srv.Close()

	client := NewClient("xkeysib-test", 7, srv.URL, logging.Default())

	if !client.SyncContact(context.Background(), testContact) {
		t.Error("duplicate_parameter must count as success")
	}
}

func TestSyncContact_OtherErrorReportsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(apiError{Code: "unauthorized", Message: "Key not found"})
	}))
	defer srv.Close()

	client := NewClient("xkeysib-test", 7, srv.URL, logging.Default())

	if client.SyncContact(context.Background(), testContact) {
		t.Error("unauthorized must report false")
	}
}

func TestSyncContact_UnreachableHostReportsFalse(t *testing.T) {
	client := NewClient("xkeysib-test", 7, "http://127.0.0.1:1", logging.Default())

	if client.SyncContact(context.Background(), testContact) {
		t.Error("transport error must report false")
	}
}
