package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

// InMemoryRepository backs tests and local development.
type InMemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, accounts: make(map[int64]*Account)}
}

func cloneAccount(a *Account) *Account {
	c := *a
	return &c
}

func (r *InMemoryRepository) Create(_ context.Context, name string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Name == name {
			return nil, common.ErrDuplicateEntry
		}
	}

	a := &Account{ID: r.nextID, Name: name, CreatedAt: time.Now()}
	r.nextID++
	r.accounts[a.ID] = a
	return cloneAccount(a), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *InMemoryRepository) GetByName(_ context.Context, name string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Name == name {
			return cloneAccount(a), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*Account, 0, len(r.accounts))
	for id := int64(1); id < r.nextID; id++ {
		if a, ok := r.accounts[id]; ok {
			result = append(result, cloneAccount(a))
		}
	}
	return result, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}
