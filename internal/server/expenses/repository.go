package expenses

import "context"

// Repository stores expenses. The date- and category-scoped queries feed the
// report aggregation.
type Repository interface {
	Create(ctx context.Context, e *Expense) (*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context) ([]*Expense, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*Expense, error)
	ListByDate(ctx context.Context, accountID int64, year, month int) ([]*Expense, error)
	ListByYear(ctx context.Context, accountID int64, year int) ([]*Expense, error)
	Update(ctx context.Context, id int64, value float64, description string, category Category) error
	Delete(ctx context.Context, id int64) error
}
