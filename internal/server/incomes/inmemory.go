package incomes

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

type InMemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	incomes map[int64]*Income
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, incomes: make(map[int64]*Income)}
}

func cloneIncome(in *Income) *Income {
	c := *in
	return &c
}

func (r *InMemoryRepository) Create(_ context.Context, in *Income) (*Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.incomes {
		if existing.AccountID == in.AccountID && existing.Year == in.Year && existing.Month == in.Month {
			return nil, common.ErrDuplicateEntry
		}
	}

	stored := cloneIncome(in)
	stored.ID = r.nextID
	r.nextID++
	r.incomes[stored.ID] = stored
	return cloneIncome(stored), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.incomes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneIncome(in), nil
}

func (r *InMemoryRepository) GetByDate(_ context.Context, accountID int64, year, month int) (*Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, in := range r.incomes {
		if in.AccountID == accountID && in.Year == year && in.Month == month {
			return cloneIncome(in), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) collect(match func(*Income) bool) []*Income {
	var result []*Income
	for id := int64(1); id < r.nextID; id++ {
		if in, ok := r.incomes[id]; ok && match(in) {
			result = append(result, cloneIncome(in))
		}
	}
	return result
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(*Income) bool { return true }), nil
}

func (r *InMemoryRepository) ListByAccount(_ context.Context, accountID int64) ([]*Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.collect(func(in *Income) bool { return in.AccountID == accountID })
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

func (r *InMemoryRepository) ListByYear(_ context.Context, accountID int64, year int) ([]*Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.collect(func(in *Income) bool { return in.AccountID == accountID && in.Year == year })
	sort.Slice(result, func(i, j int) bool { return result[i].Value > result[j].Value })
	return result, nil
}

func (r *InMemoryRepository) UpdateValue(_ context.Context, id int64, value float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.incomes[id]
	if !ok {
		return common.ErrNotFound
	}
	in.Value = value
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.incomes[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.incomes, id)
	return nil
}
