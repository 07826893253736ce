package idempotency

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"plain", "abc-123", "abc-123"},
		{"trimmed", "  abc  ", "abc"},
		{"absent", "", ""},
		{"too long", strings.Repeat("x", 65), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/orders", nil)
			if tt.header != "" {
				r.Header.Set(Header, tt.header)
			}
			if got := Key(r); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}
