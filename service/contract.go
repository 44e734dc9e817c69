package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
)

const maxNumberAttempts = 5

// ArtifactCleaner removes stored files that belong to a contract
type ArtifactCleaner interface {
	DeleteContractArtifacts(ctx context.Context, ownerID, contractID string) error
}

// ContractService implements contract CRUD on top of a ContractStore
type ContractService struct {
	store    ContractStore
	cleaners []ArtifactCleaner

	now       func() time.Time
	newNumber func(time.Time) string
	newID     func() string
}

func NewContractService(store ContractStore) *ContractService {
	return &ContractService{
		store:     store,
		now:       time.Now,
		newNumber: model.NewContractNumber,
		newID:     func() string { return uuid.New().String() },
	}
}

// WithArtifacts makes Delete also remove what each cleaner keeps for the
// contract (archived files, delivery outcomes)
func (s *ContractService) WithArtifacts(cleaners ...ArtifactCleaner) *ContractService {
	s.cleaners = append(s.cleaners, cleaners...)
	return s
}

// Create stores a new contract for ownerID. The id, contract number and
// owner in c are replaced; status defaults to pending and the contract
// date to today.
func (s *ContractService) Create(ctx context.Context, ownerID string, c *model.Contract) (*model.Contract, error) {
	if ownerID == "" {
		return nil, model.ErrNotAuthorized
	}

	now := s.now()
	c.OwnerID = ownerID
	if c.Status == "" {
		c.Status = model.StatusPending
	}
	if strings.TrimSpace(c.ContractDate) == "" {
		c.ContractDate = now.Format(model.DateLayout)
	}
	if err := validateContract(c); err != nil {
		return nil, err
	}

	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		c.ID = s.newID()
		c.ContractNumber = s.newNumber(now)

		err = s.store.Insert(ctx, c)
		if err == nil {
			logger.Info(ctx, "contract created",
				"contract_id", c.ID,
				"contract_number", c.ContractNumber,
			)
			return c, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return nil, err
		}
		logger.Warn(ctx, "contract number collision", "contract_number", c.ContractNumber, "attempt", attempt)
	}
	return nil, fmt.Errorf("failed to allocate a contract number: %w", err)
}

func (s *ContractService) Get(ctx context.Context, ownerID, id string) (*model.Contract, error) {
	if ownerID == "" {
		return nil, model.ErrNotAuthorized
	}
	return s.store.GetByID(ctx, ownerID, id)
}

func (s *ContractService) List(ctx context.Context, ownerID string) ([]*model.Contract, error) {
	if ownerID == "" {
		return nil, model.ErrNotAuthorized
	}
	return s.store.ListByOwner(ctx, ownerID)
}

// Update overwrites the editable fields of contract id. An empty status or
// contract date keeps the stored value.
func (s *ContractService) Update(ctx context.Context, ownerID, id string, edit *model.Contract) (*model.Contract, error) {
	if ownerID == "" {
		return nil, model.ErrNotAuthorized
	}

	existing, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.ApplyEdit(edit)
	if updated.Status == "" {
		updated.Status = existing.Status
	}
	if strings.TrimSpace(updated.ContractDate) == "" {
		updated.ContractDate = existing.ContractDate
	}
	if err := validateContract(&updated); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}

	logger.Info(ctx, "contract updated", "contract_id", id, "status", updated.Status)
	return &updated, nil
}

func (s *ContractService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return model.ErrNotAuthorized
	}
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	for _, cleaner := range s.cleaners {
		if err := cleaner.DeleteContractArtifacts(ctx, ownerID, id); err != nil {
			logger.Warn(ctx, "failed to delete contract artifacts", "contract_id", id, "error", err)
		}
	}

	logger.Info(ctx, "contract deleted", "contract_id", id)
	return nil
}

func validateContract(c *model.Contract) error {
	if strings.TrimSpace(c.ProjectName) == "" {
		return fmt.Errorf("%w: project_name is required", model.ErrInvalidInput)
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrInvalidInput, c.Status)
	}

	dates := []struct {
		field string
		value string
	}{
		{"start_date", c.StartDate},
		{"delivery_date", c.DeliveryDate},
		{"contract_date", c.ContractDate},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := model.ParseDate(d.value); err != nil {
			return fmt.Errorf("%w: %s must be YYYY-MM-DD", model.ErrInvalidInput, d.field)
		}
	}

	emails := []struct {
		field string
		value string
	}{
		{"client_email", c.ClientEmail},
		{"provider_email", c.ProviderEmail},
	}
	for _, e := range emails {
		if e.value == "" {
			continue
		}
		if err := validateEmail(e.value); err != nil {
			return fmt.Errorf("%w: %s is malformed", model.ErrInvalidInput, e.field)
		}
	}
	return nil
}
