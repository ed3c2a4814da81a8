// Package expenses stores the individual expenses of an account. Unlike
// budgets and incomes, any number of expenses may share a month; each one
// carries a description and a spending category.
package expenses

import "github.com/ledgerkeep/ledgerkeep/internal/common"

type Category string

const (
	CategoryPersonal      Category = "PERSONAL"
	CategoryHealth        Category = "HEALTH"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryHouse         Category = "HOUSE"
	CategoryTransport     Category = "TRANSPORT"
	CategoryFood          Category = "FOOD"
)

// Categories lists every valid category in report display order.
var Categories = []Category{
	CategoryHouse, CategoryFood, CategoryTransport,
	CategoryHealth, CategoryEntertainment, CategoryPersonal,
}

// ParseCategory validates a raw category string.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", common.ErrInvalidInput
}

type Expense struct {
	ID          int64    `json:"id"`
	AccountID   int64    `json:"accountId"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	Value       float64  `json:"value"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}
