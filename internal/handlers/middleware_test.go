package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/cache"
)

type stubSession struct {
	calls int
	err   error
}

func (s *stubSession) EnsureSession(_ context.Context) error {
	s.calls++
	return s.err
}

func TestRequireSession_PassesThrough(t *testing.T) {
	session := &stubSession{}
	var handled bool
	h := RequireSession(session, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/poster?query=x", nil))

	if !handled {
		t.Fatal("handler not invoked")
	}
	if session.calls != 1 {
		t.Fatalf("EnsureSession calls = %d, want 1", session.calls)
	}
}

func TestRequireSession_LoginFailureIsBadGateway(t *testing.T) {
	session := &stubSession{err: errors.New("dial tcp: connection refused")}
	h := RequireSession(session, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/poster?query=x", nil))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
}

func TestCacheRedirects_MissThenHit(t *testing.T) {
	c := cache.NewRedirects(16, time.Minute)
	var calls int
	h := CacheRedirects(c, "query")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Redirect(w, r, "https://a/p.jpg", http.StatusTemporaryRedirect)
	}))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/poster?query=Toradora", nil))
		if rr.Code != http.StatusTemporaryRedirect {
			t.Fatalf("request %d: status = %d, want 307", i, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "https://a/p.jpg" {
			t.Fatalf("request %d: Location = %q", i, loc)
		}
	}
	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
}

func TestCacheRedirects_OnlyRedirectsAreStored(t *testing.T) {
	c := cache.NewRedirects(16, time.Minute)
	var calls int
	h := CacheRedirects(c, "query")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "not found", http.StatusNotFound)
	}))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/poster?query=Unknown", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("request %d: status = %d, want 404", i, rr.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("handler calls = %d, want 2", calls)
	}
}

func TestCacheRedirects_KeyIsLiteralParam(t *testing.T) {
	c := cache.NewRedirects(16, time.Minute)
	var calls int
	h := CacheRedirects(c, "query")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Redirect(w, r, "https://a/p.jpg", http.StatusTemporaryRedirect)
	}))

	// Same title, different raw spellings: distinct cache entries.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/poster?query=Toradora", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/poster?query=toradora", nil))

	if calls != 2 {
		t.Fatalf("handler calls = %d, want 2", calls)
	}
}

func TestCacheRedirects_MissingParamBypasses(t *testing.T) {
	c := cache.NewRedirects(16, time.Minute)
	var calls int
	h := CacheRedirects(c, "query")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Redirect(w, r, "https://a/p.jpg", http.StatusTemporaryRedirect)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/poster", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/poster", nil))

	if calls != 2 {
		t.Fatalf("handler calls = %d, want 2", calls)
	}
	if c.Len() != 0 {
		t.Fatalf("cache len = %d, want 0", c.Len())
	}
}

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	rl := NewRateLimiter(100, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 3)
	for i := range codes {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/poster?query=x", nil))
		codes[i] = rr.Code
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent {
		t.Fatalf("burst requests = %v, want first two 204", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", codes[2])
	}

	time.Sleep(50 * time.Millisecond)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/poster?query=x", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("after refill = %d, want 204", rr.Code)
	}
}
