package memberships

import (
	"context"
	"sync"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

type InMemoryRepository struct {
	mu          sync.Mutex
	nextID      int64
	memberships map[int64]*Membership
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, memberships: make(map[int64]*Membership)}
}

func cloneMembership(m *Membership) *Membership {
	c := *m
	return &c
}

func (r *InMemoryRepository) Create(_ context.Context, accountID int64, userID string, isManager bool) (*Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.memberships {
		if m.AccountID == accountID && m.UserID == userID {
			return nil, common.ErrDuplicateEntry
		}
	}

	m := &Membership{ID: r.nextID, AccountID: accountID, UserID: userID, IsManager: isManager}
	r.nextID++
	r.memberships[m.ID] = m
	return cloneMembership(m), nil
}

// AddManager satisfies accounts.MemberAdder.
func (r *InMemoryRepository) AddManager(ctx context.Context, accountID int64, userID string) error {
	_, err := r.Create(ctx, accountID, userID, true)
	return err
}

func (r *InMemoryRepository) Get(_ context.Context, accountID int64, userID string) (*Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.memberships {
		if m.AccountID == accountID && m.UserID == userID {
			return cloneMembership(m), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) collect(match func(*Membership) bool) []*Membership {
	var result []*Membership
	for id := int64(1); id < r.nextID; id++ {
		if m, ok := r.memberships[id]; ok && match(m) {
			result = append(result, cloneMembership(m))
		}
	}
	return result
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(*Membership) bool { return true }), nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]*Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(m *Membership) bool { return m.UserID == userID }), nil
}

func (r *InMemoryRepository) ListByAccount(_ context.Context, accountID int64) ([]*Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(m *Membership) bool { return m.AccountID == accountID }), nil
}

func (r *InMemoryRepository) SetManager(_ context.Context, accountID int64, userID string, isManager bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.memberships {
		if m.AccountID == accountID && m.UserID == userID {
			m.IsManager = isManager
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *InMemoryRepository) Delete(_ context.Context, accountID int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.memberships {
		if m.AccountID == accountID && m.UserID == userID {
			delete(r.memberships, id)
			return nil
		}
	}
	return common.ErrNotFound
}
