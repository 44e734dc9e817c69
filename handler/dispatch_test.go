package handler

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/srvalle/contract-pro/model"
)

func TestDispatchHandlerSuccess(t *testing.T) {
	var (
		calls    atomic.Int32
		received []byte
		fields   = map[string]string{}
	)
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, _, err := r.FormFile("pdf")
		if err == nil {
			received, _ = io.ReadAll(f)
			f.Close()
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	env := newTestEnv(t, webhook.URL)
	ana, token := env.signup(t, "ana@example.com")
	c := env.createContract(t, ana, completeContract())

	w := env.do("GET", "/api/contracts/"+c.ID+"/dispatch", token, nil)
	expectStatus(t, w, http.StatusOK)
	var idle struct {
		State string `json:"state"`
	}
	decode(t, w, &idle)
	if idle.State != "idle" {
		t.Errorf("Expected idle before any dispatch, got %s", idle.State)
	}

	w = env.do("POST", "/api/contracts/"+c.ID+"/dispatch?lang=pt", token, nil)
	expectStatus(t, w, http.StatusOK)

	var outcome struct {
		State string `json:"state"`
	}
	decode(t, w, &outcome)
	if outcome.State != "succeeded" {
		t.Errorf("Expected succeeded, got %s", outcome.State)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 webhook call, got %d", calls.Load())
	}
	if fields["contract_id"] != c.ID || fields["client_email"] != "maria@example.com" {
		t.Errorf("Unexpected form fields %v", fields)
	}
	if fields["payment_link"] != "https://pagamento.com/123" {
		t.Errorf("Expected payment link, got %s", fields["payment_link"])
	}

	// The delivered PDF is the same artifact the pdf endpoint serves
	w = env.do("GET", "/api/contracts/"+c.ID+"/pdf?lang=pt", token, nil)
	if !bytes.Equal(received, w.Body.Bytes()) {
		t.Error("Expected delivered PDF to match the rendered PDF")
	}

	w = env.do("GET", "/api/contracts/"+c.ID+"/dispatch", token, nil)
	decode(t, w, &outcome)
	if outcome.State != "succeeded" {
		t.Errorf("Expected stored outcome succeeded, got %s", outcome.State)
	}
}

func TestDispatchHandlerWebhookFailure(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer webhook.Close()

	env := newTestEnv(t, webhook.URL)
	ana, token := env.signup(t, "ana@example.com")
	c := env.createContract(t, ana, completeContract())

	w := env.do("POST", "/api/contracts/"+c.ID+"/dispatch", token, nil)
	expectStatus(t, w, http.StatusBadGateway)

	var response struct {
		Error   string `json:"error"`
		Outcome struct {
			State string `json:"state"`
		} `json:"outcome"`
	}
	decode(t, w, &response)
	if response.Outcome.State != "failed" {
		t.Errorf("Expected failed, got %s", response.Outcome.State)
	}
	if response.Error == "" {
		t.Error("Expected an error message for the user")
	}

	// The record is untouched
	w = env.do("GET", "/api/contracts/"+c.ID, token, nil)
	var stored model.Contract
	decode(t, w, &stored)
	if stored.Status != model.StatusPending {
		t.Errorf("Expected status pending, got %s", stored.Status)
	}
}

func TestDispatchHandlerRejectsBeforeSending(t *testing.T) {
	var calls atomic.Int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer webhook.Close()

	env := newTestEnv(t, webhook.URL)
	ana, token := env.signup(t, "ana@example.com")
	_, biaToken := env.signup(t, "bia@example.com")

	incomplete := completeContract()
	incomplete.TotalValue = ""
	bad := env.createContract(t, ana, incomplete)
	good := env.createContract(t, ana, completeContract())

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
	}{
		{"incomplete record", "/api/contracts/" + bad.ID + "/dispatch", token, http.StatusUnprocessableEntity},
		{"invalid language", "/api/contracts/" + good.ID + "/dispatch?lang=es", token, http.StatusBadRequest},
		{"other owner", "/api/contracts/" + good.ID + "/dispatch", biaToken, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", tt.path, tt.token, nil)
			expectStatus(t, w, tt.expectedStatus)
		})
	}

	if calls.Load() != 0 {
		t.Errorf("Expected no webhook calls, got %d", calls.Load())
	}
}
