// Package report derives presentation views from a snapshot.
//
// Everything here is pure and recomputed on every call: inputs are small
// and local, so there is no cache to invalidate.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"finanza/internal/core"
)

// alertThreshold is the fraction of a budget limit at which an alert fires.
var alertThreshold = decimal.NewFromFloat(0.8)

type (
	// Totals holds the income/expense sums for a filtered set of transactions.
	Totals struct {
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	// CategoryAmount is an expense sum for one category.
	CategoryAmount struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	// BudgetAlert reports a category whose spending reached the alert
	// threshold of its limit.
	BudgetAlert struct {
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
		Spent    decimal.Decimal `json:"spent"`
	}

	// GoalStatus pairs a goal with its clamped progress percentage.
	GoalStatus struct {
		Goal     core.Goal `json:"goal"`
		Progress float64   `json:"progress"`
	}

	// MonthOverview is the dashboard summary for one reference month.
	MonthOverview struct {
		Year       int              `json:"year"`
		Month      int              `json:"month"` // 1-12
		Totals     Totals           `json:"totals"`
		ByCategory []CategoryAmount `json:"byCategory"`
		Alerts     []BudgetAlert    `json:"alerts"`
		Goals      []GoalStatus     `json:"goals"`
	}
)

// Balance returns income minus expense.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// FilterMonth returns the transactions whose calendar month and year match
// the reference date. Both sides are compared in UTC so a transaction at
// 23:59 on the last day of a month never drifts across the boundary with
// the local timezone.
func FilterMonth(txs []core.Transaction, ref time.Time) []core.Transaction {
	refUTC := ref.UTC()
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		d := t.Date.UTC()
		if d.Month() == refUTC.Month() && d.Year() == refUTC.Year() {
			out = append(out, t)
		}
	}
	return out
}

// MonthTotals sums amounts by transaction type.
func MonthTotals(txs []core.Transaction) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			totals.Income = totals.Income.Add(t.Amount)
		case core.Expense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	return totals
}

// SpentByCategory sums expense amounts grouped by category.
func SpentByCategory(txs []core.Transaction) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		sum, ok := spent[t.Category]
		if !ok {
			sum = decimal.Zero
		}
		spent[t.Category] = sum.Add(t.Amount)
	}
	return spent
}

// BudgetAlerts returns an alert for every budget whose limit is positive
// and whose spent total reached alertThreshold of that limit.
func BudgetAlerts(budgets []core.Budget, spent map[string]decimal.Decimal) []BudgetAlert {
	var alerts []BudgetAlert
	for _, b := range budgets {
		if !b.Limit.IsPositive() {
			continue
		}
		s, ok := spent[b.Category]
		if !ok {
			continue
		}
		if s.GreaterThanOrEqual(b.Limit.Mul(alertThreshold)) {
			alerts = append(alerts, BudgetAlert{Category: b.Category, Limit: b.Limit, Spent: s})
		}
	}
	return alerts
}

// GoalProgress returns the goal's completion percentage clamped to [0, 100].
// A non-positive target yields 0 so the division is never undefined; the
// stored CurrentAmount is left untouched.
func GoalProgress(g core.Goal) float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	ratio, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if ratio > 100 {
		return 100
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

// Overview assembles the full dashboard for a snapshot and reference month.
func Overview(snap core.Snapshot, ref time.Time) MonthOverview {
	refUTC := ref.UTC()
	monthTxs := FilterMonth(snap.Transactions, refUTC)
	spent := SpentByCategory(monthTxs)

	overview := MonthOverview{
		Year:   refUTC.Year(),
		Month:  int(refUTC.Month()),
		Totals: MonthTotals(monthTxs),
		Alerts: BudgetAlerts(snap.Budgets, spent),
	}

	// Category order follows the budget set so the dashboard is stable
	// across renders; categories without a budget entry come last.
	seen := make(map[string]bool, len(spent))
	for _, b := range snap.Budgets {
		if s, ok := spent[b.Category]; ok {
			overview.ByCategory = append(overview.ByCategory, CategoryAmount{Category: b.Category, Amount: s})
			seen[b.Category] = true
		}
	}
	for _, t := range monthTxs {
		if t.Type == core.Expense && !seen[t.Category] {
			overview.ByCategory = append(overview.ByCategory, CategoryAmount{Category: t.Category, Amount: spent[t.Category]})
			seen[t.Category] = true
		}
	}

	for _, g := range snap.Goals {
		overview.Goals = append(overview.Goals, GoalStatus{Goal: g, Progress: GoalProgress(g)})
	}

	return overview
}
