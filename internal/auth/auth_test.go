package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 42)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("ParseSession = (%d, %v), want (42, true)", uid, ok)
	}
}

func TestParseSession_TamperedCookie(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 42)
	cookie := w.Result().Cookies()[0]

	// Swap the user id but keep the signature.
	parts := strings.SplitN(cookie.Value, ".", 2)
	cookie.Value = "7." + parts[1]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if _, ok := ParseSession(req); ok {
		t.Fatal("tampered cookie should not parse")
	}
}

func TestParseSession_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := ParseSession(req); ok {
		t.Fatal("missing cookie should not parse")
	}
}

func TestMiddleware_PopulatesContext(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 9)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}

	var got uint
	var ok bool
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = UserIDFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !ok || got != 9 {
		t.Fatalf("context user = (%d, %v), want (9, true)", got, ok)
	}
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestClearSession(t *testing.T) {
	w := httptest.NewRecorder()
	ClearSession(w)
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" {
		t.Fatal("expected an emptied session cookie")
	}
}
