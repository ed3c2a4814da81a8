// Package reports aggregates the finance data of an account into month and
// year summaries, renders them to PDF and hands the document to the caller
// as a presigned download URL.
package reports

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/server/expenses"
)

// CategoryBreakdown is the spending of one category with its share of the
// total. Percentage is zero when there are no expenses at all.
type CategoryBreakdown struct {
	Category   expenses.Category `json:"category"`
	Value      float64           `json:"value"`
	Percentage float64           `json:"percentage"`
}

type MonthReport struct {
	AccountName   string              `json:"accountName"`
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	Income        float64             `json:"income"`
	Budget        float64             `json:"budget"`
	TotalExpenses float64             `json:"totalExpenses"`
	Balance       float64             `json:"balance"`
	Breakdown     []CategoryBreakdown `json:"breakdown"`
}

// MonthExtreme names a month together with its value, used for the
// highest/lowest rows of the year report.
type MonthExtreme struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type YearReport struct {
	AccountName   string              `json:"accountName"`
	Year          int                 `json:"year"`
	TotalIncome   float64             `json:"totalIncome"`
	TotalBudget   float64             `json:"totalBudget"`
	TotalExpenses float64             `json:"totalExpenses"`
	TotalBalance  float64             `json:"totalBalance"`
	HighestIncome MonthExtreme        `json:"highestIncome"`
	LowestIncome  MonthExtreme        `json:"lowestIncome"`
	HighestBudget MonthExtreme        `json:"highestBudget"`
	LowestBudget  MonthExtreme        `json:"lowestBudget"`
	Breakdown     []CategoryBreakdown `json:"breakdown"`
}

func monthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// breakdown sums the expenses per category and computes each category's
// share of total. A zero total yields zero percentages, not NaN.
func breakdown(items []*expenses.Expense, total float64) []CategoryBreakdown {
	sums := make(map[expenses.Category]float64, len(expenses.Categories))
	for _, e := range items {
		sums[e.Category] += e.Value
	}

	result := make([]CategoryBreakdown, 0, len(expenses.Categories))
	for _, c := range expenses.Categories {
		b := CategoryBreakdown{Category: c, Value: sums[c]}
		if total > 0 {
			b.Percentage = sums[c] / total * 100
		}
		result = append(result, b)
	}
	return result
}

func sumExpenses(items []*expenses.Expense) float64 {
	var total float64
	for _, e := range items {
		total += e.Value
	}
	return total
}
