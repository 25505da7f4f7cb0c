package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func decodeRequest(t *testing.T, body string, dest any) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return DecodeJSONBody(req, dest)
}

func TestDecodeJSONBodyValid(t *testing.T) {
	var payload loginPayload
	if err := decodeRequest(t, `{"email":"admin@blackliving.tw","password":"secret"}`, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "admin@blackliving.tw" {
		t.Fatalf("unexpected email: %q", payload.Email)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var payload loginPayload
	err := decodeRequest(t, `{"email":"admin@blackliving.tw","password":"secret","role":"admin"}`, &payload)
	if err == nil {
		t.Fatal("expected unknown field rejection")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code got %s", code)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	var payload loginPayload
	err := decodeRequest(t, `{"email":"not-an-email","password":"secret"}`, &payload)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("expected json-tag field name in details, got %v", details)
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	var payload loginPayload
	err := decodeRequest(t, `{"email":`, &payload)
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code got %s", code)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=50", nil)
	got, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err = ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 25 {
		t.Fatalf("expected default when absent, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected range error")
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
}

func TestCartTokenHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(CartTokenHeader, "  session-abc  ")
	if got := CartToken(req); got != "session-abc" {
		t.Fatalf("expected trimmed token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if got := CartToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}
