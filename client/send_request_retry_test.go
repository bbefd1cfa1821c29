package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func shortBackoff(t *testing.T) {
	t.Helper()
	saved := retryBackoff
	retryBackoff = 10 * time.Millisecond
	t.Cleanup(func() { retryBackoff = saved })
}

func TestSendRequest_RetriesOn500ThenSucceeds(t *testing.T) {
	shortBackoff(t)
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	resp, err := sendRequest(server.Client(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if time.Since(start) < retryBackoff {
		t.Fatalf("expected a backoff before the retry, got quick return")
	}
	_ = resp.Body.Close()
}

func TestSendRequest_GivesUpAfterMaxAttempts(t *testing.T) {
	shortBackoff(t)
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	req, _ := http.NewRequest("GET", server.URL, nil)
	if _, err := sendRequest(server.Client(), req); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, attempts)
	}
}

func TestSendRequest_DoesNotRetryClientErrors(t *testing.T) {
	shortBackoff(t)
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	req, _ := http.NewRequest("GET", server.URL, nil)
	if _, err := sendRequest(server.Client(), req); err == nil {
		t.Fatal("expected an error for 404")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}
