package expenses

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

type InMemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	expenses map[int64]*Expense
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, expenses: make(map[int64]*Expense)}
}

func cloneExpense(e *Expense) *Expense {
	c := *e
	return &c
}

func (r *InMemoryRepository) Create(_ context.Context, e *Expense) (*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneExpense(e)
	stored.ID = r.nextID
	r.nextID++
	r.expenses[stored.ID] = stored
	return cloneExpense(stored), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.expenses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneExpense(e), nil
}

func (r *InMemoryRepository) collect(match func(*Expense) bool) []*Expense {
	var result []*Expense
	for id := int64(1); id < r.nextID; id++ {
		if e, ok := r.expenses[id]; ok && match(e) {
			result = append(result, cloneExpense(e))
		}
	}
	return result
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(*Expense) bool { return true }), nil
}

func (r *InMemoryRepository) ListByAccount(_ context.Context, accountID int64) ([]*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.collect(func(e *Expense) bool { return e.AccountID == accountID })
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		if result[i].Month != result[j].Month {
			return result[i].Month < result[j].Month
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *InMemoryRepository) ListByDate(_ context.Context, accountID int64, year, month int) ([]*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(e *Expense) bool {
		return e.AccountID == accountID && e.Year == year && e.Month == month
	}), nil
}

func (r *InMemoryRepository) ListByYear(_ context.Context, accountID int64, year int) ([]*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(e *Expense) bool {
		return e.AccountID == accountID && e.Year == year
	}), nil
}

func (r *InMemoryRepository) Update(_ context.Context, id int64, value float64, description string, category Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.expenses[id]
	if !ok {
		return common.ErrNotFound
	}
	e.Value = value
	e.Description = description
	e.Category = category
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.expenses[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.expenses, id)
	return nil
}
