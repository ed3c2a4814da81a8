package budgets

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

type InMemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	budgets map[int64]*Budget
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, budgets: make(map[int64]*Budget)}
}

func cloneBudget(b *Budget) *Budget {
	c := *b
	return &c
}

func (r *InMemoryRepository) Create(_ context.Context, b *Budget) (*Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.budgets {
		if existing.AccountID == b.AccountID && existing.Year == b.Year && existing.Month == b.Month {
			return nil, common.ErrDuplicateEntry
		}
	}

	stored := cloneBudget(b)
	stored.ID = r.nextID
	r.nextID++
	r.budgets[stored.ID] = stored
	return cloneBudget(stored), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.budgets[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneBudget(b), nil
}

func (r *InMemoryRepository) GetByDate(_ context.Context, accountID int64, year, month int) (*Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.budgets {
		if b.AccountID == accountID && b.Year == year && b.Month == month {
			return cloneBudget(b), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) collect(match func(*Budget) bool) []*Budget {
	var result []*Budget
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.budgets[id]; ok && match(b) {
			result = append(result, cloneBudget(b))
		}
	}
	return result
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(*Budget) bool { return true }), nil
}

func (r *InMemoryRepository) ListByAccount(_ context.Context, accountID int64) ([]*Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.collect(func(b *Budget) bool { return b.AccountID == accountID })
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

func (r *InMemoryRepository) ListByYear(_ context.Context, accountID int64, year int) ([]*Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.collect(func(b *Budget) bool { return b.AccountID == accountID && b.Year == year })
	sort.Slice(result, func(i, j int) bool { return result[i].Value > result[j].Value })
	return result, nil
}

func (r *InMemoryRepository) UpdateValue(_ context.Context, id int64, value float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.budgets[id]
	if !ok {
		return common.ErrNotFound
	}
	b.Value = value
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.budgets[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.budgets, id)
	return nil
}
