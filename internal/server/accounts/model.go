// Package accounts manages bookkeeping accounts. An account groups incomes,
// budgets and expenses and is shared between users through memberships.
package accounts

import "time"

type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
