package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vectorcanvas/core/collab/session"
)

func TestHandleHealthReportsOK(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status = %q, want ok", body["status"])
	}
}

func TestHandleStatsReportsActiveSessions(t *testing.T) {
	manager := session.NewManager("server-actor")
	manager.GetOrCreateSession("doc-1")

	rec := httptest.NewRecorder()
	handleStats(manager)(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["activeSessions"].(float64) != 1 {
		t.Fatalf("activeSessions = %v, want 1", body["activeSessions"])
	}
}

func TestHandleWSRejectsMissingDocumentID(t *testing.T) {
	manager := session.NewManager("server-actor")
	rec := httptest.NewRecorder()
	handleWS(manager)(rec, httptest.NewRequest(http.MethodGet, "/ws/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
