package budgets

import "context"

// Repository stores budgets. GetByDate returns common.ErrNotFound when the
// account has no budget for the month; ListByYear orders by value descending
// so callers can read off the highest and lowest months.
type Repository interface {
	Create(ctx context.Context, b *Budget) (*Budget, error)
	GetByID(ctx context.Context, id int64) (*Budget, error)
	GetByDate(ctx context.Context, accountID int64, year, month int) (*Budget, error)
	List(ctx context.Context) ([]*Budget, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*Budget, error)
	ListByYear(ctx context.Context, accountID int64, year int) ([]*Budget, error)
	UpdateValue(ctx context.Context, id int64, value float64) error
	Delete(ctx context.Context, id int64) error
}
