package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingStore struct {
	service.ContractStore
}

func (failingStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RateLimit: 1000},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 1},
		Delivery: config.DeliveryConfig{
			TimeoutSeconds: 1,
			Filename:       "contrato.pdf",
		},
		Render: config.RenderConfig{LogoTimeoutSeconds: 1, LogoMaxBytes: 1 << 20},
	}
}

func memoryStores() *stores {
	return &stores{
		contracts: service.NewMemoryContractStore(),
		users:     service.NewMemoryUserStore(),
		close:     func() {},
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		store          service.ContractStore
		expectedStatus int
	}{
		{"healthy", service.NewMemoryContractStore(), http.StatusOK},
		{"store down", failingStore{}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memoryStores()
			st.contracts = tt.store
			router := setupRouter(testConfig(), st, service.NewUserService(st.users))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	st := memoryStores()
	router := setupRouter(testConfig(), st, service.NewUserService(st.users))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "contractpro_http_requests_total") {
		t.Error("Expected request counter in metrics output")
	}
}

func TestCORSPreflight(t *testing.T) {
	st := memoryStores()
	router := setupRouter(testConfig(), st, service.NewUserService(st.users))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/contracts", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected request id header")
	}
}

func TestAPIResponsesAreNotCached(t *testing.T) {
	st := memoryStores()
	router := setupRouter(testConfig(), st, service.NewUserService(st.users))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/contracts", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Cache-Control"), "no-store") {
		t.Errorf("Expected no-store, got %q", w.Header().Get("Cache-Control"))
	}
}

func TestContractFlow(t *testing.T) {
	st := memoryStores()
	router := setupRouter(testConfig(), st, service.NewUserService(st.users))

	send := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send("POST", "/api/auth/signup", "", `{"email":"ana@example.com","password":"secret1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected signup status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = send("POST", "/api/auth/login", "", `{"email":"ana@example.com","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected login status 200, got %d", w.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("Expected a token, got %s", w.Body.String())
	}

	w = send("POST", "/api/contracts", login.Token, `{
		"project_name": "Website",
		"client_name": "Maria Souza",
		"client_cpf": "123.456.789-00",
		"client_email": "maria@example.com",
		"provider_name": "Ana Lima",
		"provider_cpf": "987.654.321-00",
		"provider_email": "ana@example.com",
		"web_design": true,
		"service_scope": "Landing page",
		"start_date": "2025-03-05",
		"delivery_date": "2025-04-05",
		"total_value": "R$ 1.234,56",
		"payment_method": "PIX",
		"revision_count": "2",
		"court_city": "Recife"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected create status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode contract: %v", err)
	}

	w = send("GET", "/api/contracts/"+created.ID+"/pdf?lang=pt", login.Token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected pdf status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("Expected PDF body")
	}

	w = send("POST", "/api/logos", login.Token, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected logo upload to be unavailable without object storage, got %d", w.Code)
	}
}
