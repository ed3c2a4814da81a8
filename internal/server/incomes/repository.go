package incomes

import "context"

// Repository stores incomes. GetByDate returns common.ErrNotFound when the
// account has no income for the month; ListByYear orders by value descending
// so callers can read off the highest and lowest months.
type Repository interface {
	Create(ctx context.Context, in *Income) (*Income, error)
	GetByID(ctx context.Context, id int64) (*Income, error)
	GetByDate(ctx context.Context, accountID int64, year, month int) (*Income, error)
	List(ctx context.Context) ([]*Income, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*Income, error)
	ListByYear(ctx context.Context, accountID int64, year int) ([]*Income, error)
	UpdateValue(ctx context.Context, id int64, value float64) error
	Delete(ctx context.Context, id int64) error
}
