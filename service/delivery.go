package service

import (
	"bytes"
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
	"github.com/srvalle/contract-pro/pkg/metrics"
)

// DispatchState is the lifecycle of one delivery attempt
type DispatchState string

const (
	DispatchIdle      DispatchState = "idle"
	DispatchSending   DispatchState = "sending"
	DispatchSucceeded DispatchState = "succeeded"
	DispatchFailed    DispatchState = "failed"
)

// DispatchOutcome reports the latest delivery attempt of a contract
type DispatchOutcome struct {
	State      DispatchState `json:"state"`
	Message    string        `json:"message,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	UpdatedAt  time.Time     `json:"updated_at,omitempty"`
}

// RenderFunc produces the PDF to deliver
type RenderFunc func(ctx context.Context) ([]byte, error)

// Dispatcher posts rendered contracts to the delivery webhook. At most one
// delivery per key is in flight at a time.
type Dispatcher struct {
	client *resty.Client
	config config.DeliveryConfig

	mu       sync.Mutex
	outcomes map[string]*DispatchOutcome
	now      func() time.Time
}

func NewDispatcher(cfg config.DeliveryConfig) *Dispatcher {
	return &Dispatcher{
		client:   resty.New().SetTimeout(cfg.Timeout()),
		config:   cfg,
		outcomes: make(map[string]*DispatchOutcome),
		now:      time.Now,
	}
}

// DispatchKey identifies the view a delivery belongs to
func DispatchKey(ownerID, contractID string) string {
	return ownerID + ":" + contractID
}

// Status returns the latest outcome for key
func (d *Dispatcher) Status(key string) DispatchOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	if o, ok := d.outcomes[key]; ok {
		return *o
	}
	return DispatchOutcome{State: DispatchIdle}
}

// Dispatch renders the contract and sends it in a single webhook call.
// The call runs to completion even if ctx is cancelled, bounded by the
// configured timeout. It fails with model.ErrDispatchInFlight when a
// delivery for key is already running.
func (d *Dispatcher) Dispatch(ctx context.Context, key string, c *model.Contract, render RenderFunc) (DispatchOutcome, error) {
	if !d.begin(key) {
		return d.Status(key), model.ErrDispatchInFlight
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.config.Timeout())
	defer cancel()

	outcome, err := d.guardedSend(sendCtx, c, render)
	d.finish(key, outcome)

	metrics.DispatchOutcomes.WithLabelValues(string(outcome.State)).Inc()
	if err != nil {
		logger.Warn(ctx, "contract delivery failed", "contract_id", c.ID, "error", err)
		return outcome, err
	}

	logger.Info(ctx, "contract delivered", "contract_id", c.ID, "status_code", outcome.StatusCode)
	return outcome, nil
}

// guardedSend turns a panic while rendering or building the request into a
// failed outcome, so the key never stays in sending.
func (d *Dispatcher) guardedSend(ctx context.Context, c *model.Contract, render RenderFunc) (outcome DispatchOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "panic during contract delivery", "contract_id", c.ID, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			outcome = d.failed("unexpected error during delivery", 0)
			err = fmt.Errorf("%w: unexpected error: %v", model.ErrDispatchFailure, r)
		}
	}()
	return d.send(ctx, c, render)
}

func (d *Dispatcher) send(ctx context.Context, c *model.Contract, render RenderFunc) (DispatchOutcome, error) {
	pdf, err := render(ctx)
	if err != nil {
		return d.failed("could not generate the contract PDF", 0),
			fmt.Errorf("%w: %v", model.ErrDispatchFailure, err)
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_email":   c.ClientEmail,
			"provider_email": c.ProviderEmail,
			"payment_link":   d.paymentLink(c),
			"contract_id":    c.ID,
		}).
		SetMultipartField("pdf", d.config.Filename, "application/pdf", bytes.NewReader(pdf)).
		Post(d.config.WebhookURL)
	if err != nil {
		return d.failed(err.Error(), 0), fmt.Errorf("%w: %v", model.ErrDispatchFailure, err)
	}
	if !resp.IsSuccess() {
		return d.failed(resp.Status(), resp.StatusCode()),
			fmt.Errorf("%w: webhook responded %s", model.ErrDispatchFailure, resp.Status())
	}

	return DispatchOutcome{
		State:      DispatchSucceeded,
		StatusCode: resp.StatusCode(),
		UpdatedAt:  d.now().UTC(),
	}, nil
}

func (d *Dispatcher) failed(message string, code int) DispatchOutcome {
	return DispatchOutcome{
		State:      DispatchFailed,
		Message:    message,
		StatusCode: code,
		UpdatedAt:  d.now().UTC(),
	}
}

func (d *Dispatcher) begin(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if o, ok := d.outcomes[key]; ok && o.State == DispatchSending {
		return false
	}
	d.outcomes[key] = &DispatchOutcome{State: DispatchSending, UpdatedAt: d.now().UTC()}
	return true
}

func (d *Dispatcher) finish(key string, outcome DispatchOutcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes[key] = &outcome
}

// DeleteContractArtifacts drops the stored outcome of a deleted contract.
// A delivery still in flight keeps its entry until it finishes.
func (d *Dispatcher) DeleteContractArtifacts(ctx context.Context, ownerID, contractID string) error {
	key := DispatchKey(ownerID, contractID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if o, ok := d.outcomes[key]; ok && o.State != DispatchSending {
		delete(d.outcomes, key)
	}
	return nil
}

func (d *Dispatcher) paymentLink(c *model.Contract) string {
	return strings.NewReplacer(
		"{contract_id}", c.ID,
		"{contract_number}", c.ContractNumber,
	).Replace(d.config.PaymentLink)
}
