package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crucial707/idle-clicker/internal/credential"
	"github.com/crucial707/idle-clicker/internal/models"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func sampleView() models.AccountView {
	return models.AccountView{
		Username:        "alice",
		Balance:         31,
		Level:           2,
		LastCollectedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Production:      3,
		NextLevelCost:   8,
	}
}

func TestCollect_TableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collect" || r.Method != http.MethodPatch {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		cred, err := credential.ParseBasic(r.Header.Get("Authorization"))
		if err != nil || cred.Username != "alice" || cred.Password != "pw:with:colons" {
			t.Errorf("unexpected credential: %v %v", cred, err)
		}
		_ = json.NewEncoder(w).Encode(sampleView())
	}))
	defer srv.Close()

	t.Setenv("IDLE_API_URL", srv.URL)

	cmd := collectCmd()
	cmd.SetArgs([]string{"--username", "alice", "--password", "pw:with:colons"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("execute: %v", err)
		}
	})

	for _, want := range []string{"alice", "31.00", "Next level cost"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestClaim_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/claim" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sampleView())
	}))
	defer srv.Close()

	t.Setenv("IDLE_API_URL", srv.URL)
	t.Setenv("IDLE_USERNAME", "alice")
	t.Setenv("IDLE_PASSWORD", "secret")

	cmd := claimCmd()
	cmd.SetArgs([]string{"--json"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("execute: %v", err)
		}
	})

	var got models.AccountView
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("expected JSON output, got: %s", out)
	}
	if got.Username != "alice" || got.Level != 2 {
		t.Errorf("unexpected view: %+v", got)
	}
}

func TestClaim_RequiresUsername(t *testing.T) {
	t.Setenv("IDLE_USERNAME", "")
	cmd := claimCmd()
	cmd.SetArgs([]string{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "username is required") {
		t.Fatalf("expected username error, got %v", err)
	}
}

func TestUpgrade_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"insufficient funds for the next level"}`))
	}))
	defer srv.Close()

	t.Setenv("IDLE_API_URL", srv.URL)

	cmd := upgradeCmd()
	cmd.SetArgs([]string{"-u", "alice", "-p", "pw"})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "insufficient funds for the next level" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestCallWithRetry_RetriesStale(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"account was modified concurrently, retry"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(sampleView())
	}))
	defer srv.Close()

	c := NewClient(srv.URL, credential.Credential{Username: "alice", Password: "pw"})
	c.Backoff = time.Millisecond

	view, err := c.CallWithRetry(context.Background(), http.MethodPatch, "/collect", 3)
	if err != nil {
		t.Fatalf("CallWithRetry: %v", err)
	}
	if view.Balance != 31 {
		t.Errorf("unexpected balance %v", view.Balance)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got %d, want 3", got)
	}
}

func TestCallWithRetry_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"account was modified concurrently, retry"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, credential.Credential{Username: "alice", Password: "pw"})
	c.Backoff = time.Millisecond

	_, err := c.CallWithRetry(context.Background(), http.MethodPatch, "/upgrade", 2)
	if !isStale(err) {
		t.Fatalf("expected stale conflict, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got %d, want 3", got)
	}
}

func TestCallWithRetry_NoRetryOnOtherErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, credential.Credential{Username: "alice", Password: "pw"})
	_, err := c.CallWithRetry(context.Background(), http.MethodPatch, "/collect", 5)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "not json" {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls: got %d, want 1", got)
	}
}
