package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/pkg/logger"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated", "", false},
		{"caller supplied", "existing-request-id-123", true},
		{"oversized", strings.Repeat("x", 500), false},
		{"control characters", "abc\x01def", false},
		{"spaces", "two words", false},
	}

	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if got == "" || len(got) > maxRequestIDLength {
				t.Fatalf("Expected a usable request id, got %q", got)
			}
			if tt.keep && got != tt.incoming {
				t.Errorf("Expected request ID '%s', got '%s'", tt.incoming, got)
			}
			if !tt.keep && got == tt.incoming {
				t.Errorf("Expected a generated request ID, got '%s'", got)
			}
			if w.Body.String() != got {
				t.Errorf("Expected context id %s to match header, got %s", got, w.Body.String())
			}
		})
	}
}

func TestRequestIDTagsContract(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/contracts/:id/pdf", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.ContractIDKey).(string)
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/contracts/c-77/pdf", nil))

	if w.Body.String() != "c-77" {
		t.Errorf("Expected contract id c-77 in context, got %q", w.Body.String())
	}
}

func TestGetRequestIDEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if requestID := GetRequestID(c); requestID != "" {
		t.Errorf("Expected empty string, got '%s'", requestID)
	}
}
