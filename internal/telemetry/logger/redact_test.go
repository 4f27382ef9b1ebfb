package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestRedact_SensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("login", "email", "admin@example.com", "password", "hunter22", "Set-Cookie", "rd_session=abc")

	out := buf.String()
	if strings.Contains(out, "hunter22") || strings.Contains(out, "rd_session=abc") {
		t.Errorf("credentials leaked: %s", out)
	}
	if !strings.Contains(out, "admin@example.com") {
		t.Errorf("email should not be redacted: %s", out)
	}
	if !strings.Contains(out, redactedValue) {
		t.Errorf("placeholder missing: %s", out)
	}
}

func TestRedact_ValuePrefix(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "text", Output: &buf})

	l.Info("cookie loaded", "value", "rd_0123456789abcdef")

	out := buf.String()
	if strings.Contains(out, "0123456789abcdef") {
		t.Errorf("value leaked: %s", out)
	}
	if !strings.Contains(out, "rd_012...def") {
		t.Errorf("masked value missing: %s", out)
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"rd_0123456789abcdef", "rd_012...def"},
		{"rd_abc", "rd_***"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := RedactString(tt.in); got != tt.want {
			t.Errorf("RedactString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSensitiveKey(t *testing.T) {
	sensitive := []string{"password", "Authorization", "cookie", "session_key", "api_token", "client_secret"}
	for _, k := range sensitive {
		if !IsSensitiveKey(k) {
			t.Errorf("IsSensitiveKey(%q) = false", k)
		}
	}
	plain := []string{"email", "user_id", "route", "status"}
	for _, k := range plain {
		if IsSensitiveKey(k) {
			t.Errorf("IsSensitiveKey(%q) = true", k)
		}
	}
}
