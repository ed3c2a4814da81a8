// Package budgets stores the planned spending of an account, one value per
// account and month.
package budgets

type Budget struct {
	ID        int64   `json:"id"`
	AccountID int64   `json:"accountId"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
}
