// Package memstore is an in-memory services.AccountStore for tests and local
// experiments. It keeps the same uniqueness and atomicity guarantees as the
// PostgreSQL store.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/usermanagement/internal/common"
	"github.com/dmitrijs2005/usermanagement/internal/server/models"
)

type Store struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.Account
	roles  map[int64][]models.RoleName
	now    func() time.Time
}

func New() *Store {
	return &Store{
		byID:  make(map[int64]*models.Account),
		roles: make(map[int64][]models.RoleName),
		now:   time.Now,
	}
}

func (s *Store) CreateAccount(ctx context.Context, username, email, passwordHash string) (*models.Account, error) {
	return s.CreateAccountWithRoles(ctx, username, email, passwordHash)
}

// CreateAccountWithRoles stores the account with the default role plus extra.
func (s *Store) CreateAccountWithRoles(_ context.Context, username, email, passwordHash string, extra ...models.RoleName) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(0, username, email); err != nil {
		return nil, err
	}

	s.nextID++
	now := s.now().UTC()
	a := &models.Account{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[a.ID] = a
	roles := []models.RoleName{models.DefaultRole}
	for _, r := range extra {
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	s.roles[a.ID] = roles

	cp := *a
	return &cp, nil
}

func (s *Store) UpdateAccount(_ context.Context, id int64, username, email, passwordHash string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := s.checkUnique(id, username, email); err != nil {
		return nil, err
	}

	a.Username, a.Email, a.PasswordHash = username, email, passwordHash
	a.UpdatedAt = s.now().UTC()

	cp := *a
	return &cp, nil
}

func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(s.byID, id)
	delete(s.roles, id)
	return nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *Store) RolesOf(_ context.Context, id int64) ([]models.RoleName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.RoleName, 0, len(s.roles[id])), s.roles[id]...), nil
}

// AssignRole grants role to an existing account; repeated grants are no-ops.
func (s *Store) AssignRole(_ context.Context, id int64, role models.RoleName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return common.ErrorNotFound
	}
	for _, r := range s.roles[id] {
		if r == role {
			return nil
		}
	}
	s.roles[id] = append(s.roles[id], role)
	return nil
}

func (s *Store) checkUnique(self int64, username, email string) error {
	for id, a := range s.byID {
		if id == self {
			continue
		}
		if a.Username == username || a.Email == email {
			return fmt.Errorf("%w: username or email taken", common.ErrAlreadyExists)
		}
	}
	return nil
}
