package memberships

import "context"

// Repository stores account memberships. Get returns common.ErrNotFound
// when the user is not a member of the account; Create returns
// common.ErrDuplicateEntry when the pair already exists.
type Repository interface {
	Create(ctx context.Context, accountID int64, userID string, isManager bool) (*Membership, error)
	// AddManager enrolls a manager member; also satisfies accounts.MemberAdder.
	AddManager(ctx context.Context, accountID int64, userID string) error
	Get(ctx context.Context, accountID int64, userID string) (*Membership, error)
	List(ctx context.Context) ([]*Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*Membership, error)
	SetManager(ctx context.Context, accountID int64, userID string, isManager bool) error
	Delete(ctx context.Context, accountID int64, userID string) error
}
