package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/locale"
	"github.com/srvalle/contract-pro/middleware"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/render"
	"github.com/srvalle/contract-pro/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubArchive struct {
	objects map[string][]byte
	logos   int
}

func (s *stubArchive) PutPDF(ctx context.Context, ownerID, contractID string, lang locale.Lang, pdf []byte) (string, error) {
	name := "contracts/" + ownerID + "/" + contractID + "/" + string(lang) + ".pdf"
	s.objects[name] = pdf
	return name, nil
}

func (s *stubArchive) PresignedURL(ctx context.Context, objectName string) (string, error) {
	return "https://files.example.com/" + objectName + "?sig=abc", nil
}

func (s *stubArchive) PutLogo(ctx context.Context, ownerID string, reader io.Reader, size int64, contentType string) (string, error) {
	s.logos++
	if _, err := io.ReadAll(reader); err != nil {
		return "", err
	}
	return "https://files.example.com/logos/" + ownerID + "/logo.png", nil
}

type testEnv struct {
	router    *gin.Engine
	cfg       *config.Config
	users     *service.UserService
	contracts *service.ContractService
	archive   *stubArchive
}

func newTestEnv(t *testing.T, webhookURL string) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 1},
		Delivery: config.DeliveryConfig{
			WebhookURL:     webhookURL,
			PaymentLink:    "https://pagamento.com/123",
			TimeoutSeconds: 5,
			Filename:       "contrato.pdf",
		},
		Render: config.RenderConfig{LogoTimeoutSeconds: 1, LogoMaxBytes: 1 << 20},
	}

	store := service.NewMemoryContractStore()
	users := service.NewUserService(service.NewMemoryUserStore())
	contracts := service.NewContractService(store)
	target := render.NewTarget(nil)
	archive := &stubArchive{objects: make(map[string][]byte)}
	revocations := middleware.NewRevocations()
	dispatcher := service.NewDispatcher(cfg.Delivery)
	contracts.WithArtifacts(dispatcher)

	h := &Handlers{
		Auth:      NewAuthHandler(users, &cfg.Auth, revocations),
		Contract:  NewContractHandler(contracts),
		Document:  NewDocumentHandler(contracts, target, archive, cfg.Delivery.Filename),
		Dispatch:  NewDispatchHandler(contracts, target, dispatcher),
		Dashboard: NewDashboardHandler(service.NewStatsService(store)),
		Logo:      NewLogoHandler(archive, cfg.Render.LogoMaxBytes),
	}

	router := gin.New()
	h.Register(router.Group("/api"), middleware.AuthMiddleware(&cfg.Auth, revocations))

	return &testEnv{
		router:    router,
		cfg:       cfg,
		users:     users,
		contracts: contracts,
		archive:   archive,
	}
}

// signup creates an account and returns its id and a bearer token
func (e *testEnv) signup(t *testing.T, email string) (string, string) {
	t.Helper()

	u, err := e.users.Signup(context.Background(), email, "secret1", "Test")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	token, _, err := middleware.GenerateToken(u.ID, u.Email, &e.cfg.Auth)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return u.ID, token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func completeContract() *model.Contract {
	return &model.Contract{
		ProjectName:     "Website Redesign",
		ClientName:      "Maria Souza",
		ClientTaxID:     "123.456.789-00",
		ClientAddress:   "Rua das Flores, 10, Curitiba",
		ClientEmail:     "maria@example.com",
		ProviderName:    "João Lima",
		ProviderTaxID:   "12.345.678/0001-99",
		ProviderAddress: "Av. Brasil, 200, São Paulo",
		ProviderEmail:   "joao@example.com",
		Services:        model.Services{WebDesign: true, Others: "Packaging"},
		ServiceScope:    "Full redesign of the marketing site.",
		StartDate:       "2025-03-05",
		DeliveryDate:    "2025-04-30",
		TotalValue:      "R$ 1.234,56",
		PaymentMethod:   "PIX",
		RevisionCount:   "3",
		CourtCity:       "Curitiba",
		ContractDate:    "2025-03-01",
	}
}

// createContract stores c for ownerID through the service
func (e *testEnv) createContract(t *testing.T, ownerID string, c *model.Contract) *model.Contract {
	t.Helper()
	created, err := e.contracts.Create(context.Background(), ownerID, c)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return created
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to parse response: %v (%s)", err, w.Body.String())
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d: %s", expected, w.Code, w.Body.String())
	}
}
