// Package memberships links users to accounts. Every account has at least
// one manager member; only managers may change the member list.
package memberships

type Membership struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"accountId"`
	UserID    string `json:"userId"`
	IsManager bool   `json:"isManager"`
}
