package httpapi

import (
	"net/http"
	"strings"
	"testing"
)

func TestSecurityHeadersPresent(t *testing.T) {
	srv := newTestAPI(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	expected := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, want := range expected {
		if got := resp.Header.Get(header); got != want {
			t.Fatalf("header %s: expected %q, got %q", header, want, got)
		}
	}
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestAPI(t)

	var last int
	for i := 0; i < 6; i++ {
		resp, err := http.Post(srv.URL+"/api/v1/auth/login", "application/json", strings.NewReader(`{"username":"admin","password":"wrong"}`))
		if err != nil {
			t.Fatalf("login attempt %d: %v", i, err)
		}
		last = resp.StatusCode
		resp.Body.Close()
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on sixth attempt, got %d", last)
	}
}

func TestOversizedJSONBodyRejected(t *testing.T) {
	srv := newTestAPI(t)

	// Slightly over the 1MB request body cap.
	huge := `{"username":"` + strings.Repeat("a", 1<<20) + `","password":"x"}`
	resp, err := http.Post(srv.URL+"/api/v1/auth/login", "application/json", strings.NewReader(huge))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", resp.StatusCode)
	}
}

func TestMutationWithoutCSRFTokenRejected(t *testing.T) {
	srv := newTestAPI(t)
	token := loginAs(t, srv, "staff", "staff123")

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/carts", token, "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
}

func TestMutationWithBogusCSRFTokenRejected(t *testing.T) {
	srv := newTestAPI(t)
	token := loginAs(t, srv, "staff", "staff123")

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/carts", token, "not-a-real-token", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 with bogus csrf token, got %d", resp.StatusCode)
	}
}

func TestManagerPINAttemptsRateLimited(t *testing.T) {
	srv := newTestAPI(t)
	adminToken := loginAs(t, srv, "admin", "admin123")
	csrf := fetchCSRFToken(t, srv)

	var last int
	for i := 0; i < 9; i++ {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/bills/BILL-2026-08-001", nil)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+adminToken)
		req.Header.Set("X-CSRF-Token", csrf)
		req.Header.Set("X-Manager-PIN", "000000")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		last = resp.StatusCode
		resp.Body.Close()
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after exhausting pin attempts, got %d", last)
	}
}

func TestCSRFTokenValidation(t *testing.T) {
	api := &API{csrfSecret: []byte("test-csrf-secret")}
	current := api.generateCSRFToken()
	if !api.validateCSRFToken(current) {
		t.Fatalf("current-hour token must validate")
	}
	if api.validateCSRFToken("deadbeef") {
		t.Fatalf("garbage token must not validate")
	}
}

func TestOptionsPreflightShortCircuits(t *testing.T) {
	srv := newTestAPI(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/medicines", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers on preflight response")
	}
}
