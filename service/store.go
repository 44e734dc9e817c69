package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/srvalle/contract-pro/model"
)

// ContractStore persists contract records. Every method is scoped to the
// owning user; a contract of another owner behaves as missing.
type ContractStore interface {
	// Insert stores a new contract and assigns its creation timestamp.
	// Duplicate ids or contract numbers yield model.ErrConflict.
	Insert(ctx context.Context, c *model.Contract) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Contract, error)
	// ListByOwner returns the owner's contracts, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Contract, error)
	// Update overwrites the editable fields of an existing contract.
	Update(ctx context.Context, c *model.Contract) error
	Delete(ctx context.Context, ownerID, id string) error
	Ping(ctx context.Context) error
}

// MemoryContractStore keeps contracts in process memory. Records are
// copied on the way in and out.
type MemoryContractStore struct {
	contracts map[string]*model.Contract
	numbers   map[string]string // contract number -> id
	mu        sync.RWMutex
	now       func() time.Time
}

// NewMemoryContractStore creates an empty store
func NewMemoryContractStore() *MemoryContractStore {
	return &MemoryContractStore{
		contracts: make(map[string]*model.Contract),
		numbers:   make(map[string]string),
		now:       time.Now,
	}
}

func (s *MemoryContractStore) Insert(ctx context.Context, c *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[c.ID]; ok {
		return fmt.Errorf("%w: contract %s already exists", model.ErrConflict, c.ID)
	}
	if _, ok := s.numbers[c.ContractNumber]; ok {
		return fmt.Errorf("%w: contract number %s already taken", model.ErrConflict, c.ContractNumber)
	}

	// Microsecond precision matches what the database keeps
	now := s.now().UTC().Truncate(time.Microsecond)
	c.CreatedAt = now
	c.UpdatedAt = now

	stored := *c
	s.contracts[c.ID] = &stored
	s.numbers[c.ContractNumber] = c.ID
	return nil
}

func (s *MemoryContractStore) GetByID(ctx context.Context, ownerID, id string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *MemoryContractStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Contract, 0)
	for _, c := range s.contracts {
		if c.OwnerID == ownerID {
			out := *c
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryContractStore) Update(ctx context.Context, c *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contracts[c.ID]
	if !ok || existing.OwnerID != c.OwnerID {
		return model.ErrNotFound
	}

	updated := *existing
	updated.ApplyEdit(c)
	updated.UpdatedAt = s.now().UTC().Truncate(time.Microsecond)
	s.contracts[c.ID] = &updated

	c.ContractNumber = updated.ContractNumber
	c.CreatedAt = updated.CreatedAt
	c.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *MemoryContractStore) Delete(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[id]
	if !ok || c.OwnerID != ownerID {
		return model.ErrNotFound
	}
	delete(s.numbers, c.ContractNumber)
	delete(s.contracts, id)
	return nil
}

func (s *MemoryContractStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Count returns the number of contracts in the store
func (s *MemoryContractStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}
