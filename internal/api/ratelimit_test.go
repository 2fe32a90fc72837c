package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/faqpilot/faqpilot/internal/log"
)

func TestRateLimiter_Burst(t *testing.T) {
	t.Parallel()

	rl := newRateLimiter(1, 3)

	for i := range 3 {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request beyond burst should be denied")
	}

	// A different IP has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("different IP should not share the bucket")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	rl := newRateLimiter(0.001, 1)
	handler := rateLimitMiddleware(rl, false, log.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.1:1234",
			want:       "192.0.2.1",
		},
		{
			name:       "proxy headers ignored when not trusted",
			remoteAddr: "192.0.2.1:1234",
			realIP:     "203.0.113.9",
			want:       "192.0.2.1",
		},
		{
			name:       "x-real-ip preferred when trusted",
			remoteAddr: "192.0.2.1:1234",
			realIP:     "203.0.113.9",
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "x-forwarded-for first hop",
			remoteAddr: "192.0.2.1:1234",
			forwarded:  "203.0.113.7, 70.41.3.18",
			trustProxy: true,
			want:       "203.0.113.7",
		},
		{
			name:       "non-IP header value falls through",
			remoteAddr: "192.0.2.1:1234",
			realIP:     "evil-string",
			trustProxy: true,
			want:       "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := clientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
