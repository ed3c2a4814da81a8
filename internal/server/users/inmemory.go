package users

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

// InMemoryRepository is a map-backed Repository used by tests and local
// development. Conditional updates run under one mutex, which gives the
// same at-most-one-winner semantics the Postgres implementation gets from
// conditional UPDATE statements.
type InMemoryRepository struct {
	mu    sync.Mutex
	users map[string]*User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

func clone(u *User) *User {
	c := *u
	return &c
}

func (r *InMemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, common.ErrDuplicateEmail
		}
	}

	stored := clone(user)
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()
	r.users[stored.ID] = stored

	return clone(stored), nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(u), nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, clone(u))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) UpdateProfile(_ context.Context, id, firstName, lastName string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	return clone(u), nil
}

func (r *InMemoryRepository) RotatePendingToken(_ context.Context, email, newToken string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email && u.ConfirmationLevel == ConfirmationPending {
			u.ConfirmationToken = newToken
			return clone(u), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) ConsumeConfirmationToken(_ context.Context, token, newToken string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ConfirmationToken == token && u.ConfirmationLevel == ConfirmationPending {
			u.ConfirmationToken = newToken
			u.ConfirmationLevel = ConfirmationConfirmed
			return clone(u), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) RotateTokenByEmail(_ context.Context, email, newToken string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			u.ConfirmationToken = newToken
			return clone(u), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) UpdatePasswordByToken(_ context.Context, token, passwordHash, newToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ConfirmationToken == token {
			u.PasswordHash = passwordHash
			u.ConfirmationToken = newToken
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *InMemoryRepository) SetTwoFactorSecret(_ context.Context, id, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.TwoFactorSecret = secret
	return nil
}

func (r *InMemoryRepository) ActivateTwoFactor(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.TwoFactorAuth.Active = true
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
