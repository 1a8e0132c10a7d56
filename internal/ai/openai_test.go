package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "github.com/mlakeland/timeblock/internal/errors"
)

func TestGenerate_ReturnsFirstChoice(t *testing.T) {
	var gotAuth, gotModel, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 2 {
			gotUser = req.Messages[1].Content
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"  [{\"raw\":\"rule\"}]  "}}]}`))
	}))
	defer srv.Close()

	client := NewWithBaseURL("sk-test", "gpt-4o-mini", srv.URL)
	got, err := client.Generate(context.Background(), "extract rules")
	if err != nil {
		t.Fatalf("Expected response, got %v", err)
	}
	if got != `[{"raw":"rule"}]` {
		t.Errorf("Expected trimmed first choice, got %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("Expected configured model, got %q", gotModel)
	}
	if gotUser != "extract rules" {
		t.Errorf("Expected prompt as user message, got %q", gotUser)
	}
}

func TestGenerate_Non200IsExternalUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewWithBaseURL("sk-test", "gpt-4o-mini", srv.URL).Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error on 429")
	}
	if !errors.Is(err, apierrors.ErrExternalUnavailable) {
		t.Errorf("Expected ErrExternalUnavailable, got %v", err)
	}
}

func TestGenerate_EmptyChoicesIsExternalUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewWithBaseURL("sk-test", "gpt-4o-mini", srv.URL).Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error on empty choices")
	}
	if !errors.Is(err, apierrors.ErrExternalUnavailable) {
		t.Errorf("Expected ErrExternalUnavailable, got %v", err)
	}
}
