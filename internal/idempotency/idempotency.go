// Package idempotency extracts the client-supplied idempotency key used to
// deduplicate checkout submissions.
package idempotency

import (
	"net/http"
	"strings"
)

const Header = "Idempotency-Key"

// maxLen bounds what we store; longer keys are treated as absent.
const maxLen = 64

// Key returns the trimmed idempotency key, or "" when absent.
func Key(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get(Header))
	if len(k) > maxLen {
		return ""
	}
	return k
}
