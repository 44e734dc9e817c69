package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srvalle/contract-pro/config"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// UserStore persists accounts. Emails are unique case-insensitively.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
}

// MemoryUserStore keeps accounts in process memory
type MemoryUserStore struct {
	users   map[string]*model.User
	byEmail map[string]string // lower(email) -> id
	mu      sync.RWMutex
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := s.byEmail[key]; ok {
		return fmt.Errorf("%w: email %s already registered", model.ErrConflict, u.Email)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	s.users[u.ID] = &stored
	s.byEmail[key] = u.ID
	return nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *s.users[id]
	return &out, nil
}

func (s *MemoryUserStore) Update(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		return model.ErrNotFound
	}

	oldKey := strings.ToLower(existing.Email)
	newKey := strings.ToLower(u.Email)
	if oldKey != newKey {
		if _, taken := s.byEmail[newKey]; taken {
			return fmt.Errorf("%w: email %s already registered", model.ErrConflict, u.Email)
		}
		delete(s.byEmail, oldKey)
		s.byEmail[newKey] = u.ID
	}

	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

// UserUpdate carries the optional changes of a profile edit. Empty fields
// are left untouched.
type UserUpdate struct {
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserService handles signup, login and profile edits
type UserService struct {
	store UserStore
	cost  int
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, cost: bcrypt.DefaultCost}
}

// Signup creates an account with a hashed password
func (s *UserService) Signup(ctx context.Context, email, password, displayName string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", model.ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info(ctx, "account created", "user_id", u.ID)
	return u, nil
}

// Authenticate checks an email and password pair. Unknown accounts and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", model.ErrNotAuthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", model.ErrNotAuthorized)
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a profile edit. A password change requires a matching
// confirmation.
func (s *UserService) Update(ctx context.Context, id string, in UserUpdate) (*model.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != "" {
		u.DisplayName = strings.TrimSpace(in.DisplayName)
	}
	if in.Email != "" {
		email := strings.TrimSpace(in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		u.Email = email
	}
	if in.Password != "" || in.ConfirmPassword != "" {
		if in.Password != in.ConfirmPassword {
			return nil, fmt.Errorf("%w: passwords do not match", model.ErrInvalidInput)
		}
		if len(in.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must have at least %d characters", model.ErrInvalidInput, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SeedUsers creates the configured accounts. Accounts that already exist
// are skipped.
func (s *UserService) SeedUsers(ctx context.Context, users []config.User) error {
	for _, cu := range users {
		_, err := s.Signup(ctx, cu.Email, cu.Password, cu.DisplayName)
		if errors.Is(err, model.ErrConflict) {
			logger.Debug(ctx, "seed user already exists", "email", cu.Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", cu.Email, err)
		}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: malformed email %q", model.ErrInvalidInput, email)
	}
	return nil
}
