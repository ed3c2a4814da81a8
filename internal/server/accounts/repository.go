package accounts

import "context"

// Repository stores accounts. Create returns common.ErrDuplicateEntry when
// the name is taken; lookups return common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, name string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByName(ctx context.Context, name string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Delete(ctx context.Context, id int64) error
}
