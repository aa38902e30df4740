package forge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewWithBaseURL("test-token", server.URL)
}

func TestGetBranchSHA(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token test-token" {
			t.Errorf("missing auth header: %q", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/repos/acme/widget/branches/main" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Branch{Name: "main", Commit: struct {
			SHA string `json:"sha"`
		}{SHA: "abc123"}})
	})

	sha, err := c.GetBranchSHA(context.Background(), "acme/widget", "main")
	if err != nil {
		t.Fatalf("GetBranchSHA: %v", err)
	}
	if sha != "abc123" {
		t.Errorf("expected abc123, got %q", sha)
	}
}

func TestBranchExists_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Branch not found"}`))
	})

	exists, err := c.BranchExists(context.Background(), "acme/widget", "ghost")
	if err != nil {
		t.Fatalf("BranchExists: %v", err)
	}
	if exists {
		t.Error("expected branch to not exist")
	}
}

func TestTriggerWorkflow_SendsDispatchEvent(t *testing.T) {
	var gotBody map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/acme/widget/dispatches" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.TriggerWorkflow(context.Background(), "acme/widget", "package-build", DispatchPayload{
		PackageName: "my-package", Branch: "testing", BranchType: "testing", BuildEnv: "normal", RepoURL: "https://github.com/acme/widget",
	})
	if err != nil {
		t.Fatalf("TriggerWorkflow: %v", err)
	}
	if gotBody["event_type"] != "package-build" {
		t.Errorf("expected event_type package-build, got %v", gotBody["event_type"])
	}
}

func TestCreatePullRequest_PropagatesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation Failed"}`))
	})

	_, err := c.CreatePullRequest(context.Background(), "acme/widget", "feature", "main", "title", "body")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped *APIError, got %v", err)
	}
	if apiErr.StatusCode != 422 {
		t.Errorf("expected 422, got %d", apiErr.StatusCode)
	}
}

func TestCleanAllTags_DeletesEveryTag(t *testing.T) {
	deleted := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]Tag{{Name: "v1.0.0"}, {Name: "v1.0.1"}})
		case r.Method == http.MethodDelete:
			deleted++
			w.WriteHeader(http.StatusNoContent)
		}
	})

	count, err := c.CleanAllTags(context.Background(), "acme/widget")
	if err != nil {
		t.Fatalf("CleanAllTags: %v", err)
	}
	if count != 2 || deleted != 2 {
		t.Errorf("expected 2 tags deleted, got count=%d deleted=%d", count, deleted)
	}
}
