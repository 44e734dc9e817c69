package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(3, time.Minute))
	router.GET("/api/contracts/:id/pdf", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name           string
		remoteAddr     string
		expectedStatus int
	}{
		{"first", "192.168.1.1:12345", http.StatusOK},
		{"second", "192.168.1.1:12345", http.StatusOK},
		{"third", "192.168.1.1:23456", http.StatusOK},
		{"over the limit", "192.168.1.1:12345", http.StatusTooManyRequests},
		{"other client", "192.168.1.2:12345", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/contracts/c1/pdf", nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusTooManyRequests && w.Header().Get("Retry-After") != "20" {
				t.Errorf("Expected Retry-After 20, got %q", w.Header().Get("Retry-After"))
			}
		})
	}
}

func TestNewRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(100, time.Minute)

	if limiter == nil {
		t.Fatal("Expected non-nil limiter")
	}
	if limiter.burst != 100 {
		t.Errorf("Expected burst 100, got %d", limiter.burst)
	}
	if limiter.RetryAfter() != 600*time.Millisecond {
		t.Errorf("Expected retry after 600ms, got %v", limiter.RetryAfter())
	}
}

func TestRateLimiterRefills(t *testing.T) {
	limiter := NewRateLimiter(2, 100*time.Millisecond)

	if !limiter.Allow("a") || !limiter.Allow("a") {
		t.Fatal("Expected burst of 2 to be allowed")
	}
	if limiter.Allow("a") {
		t.Error("Expected third request to be limited")
	}

	time.Sleep(120 * time.Millisecond)
	if !limiter.Allow("a") {
		t.Error("Expected bucket to refill after the window")
	}
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond)
	limiter.Allow("idle")

	time.Sleep(30 * time.Millisecond)
	limiter.Allow("fresh")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.limiters["idle"]; ok {
		t.Error("Expected idle client to be pruned")
	}
	if len(limiter.limiters) != 1 {
		t.Errorf("Expected 1 tracked client, got %d", len(limiter.limiters))
	}
}
