// Package incomes stores the money coming into an account, one value per
// account and month.
package incomes

type Income struct {
	ID        int64   `json:"id"`
	AccountID int64   `json:"accountId"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
}
