package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finanza/internal/core"
)

func tx(typ core.TransactionType, category, amount string, date time.Time) core.Transaction {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:          core.NewID(),
		Type:        typ,
		Category:    category,
		Amount:      amt,
		Date:        date,
		Description: "test",
	}
}

func TestFilterMonthBoundary(t *testing.T) {
	// Last second of January in UTC. In a local zone west of UTC this
	// instant reads as January 31st too, but east of UTC it already looks
	// like February 1st; the filter must not care either way.
	lastSecond := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	east := time.FixedZone("east", 10*3600)
	txs := []core.Transaction{tx(core.Expense, "Food", "10", lastSecond.In(east))}

	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := FilterMonth(txs, jan); len(got) != 1 {
		t.Fatalf("expected transaction in January, got %d", len(got))
	}

	feb := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	if got := FilterMonth(txs, feb); len(got) != 0 {
		t.Fatalf("expected no transactions in February, got %d", len(got))
	}

	// Reference date in a non-UTC zone must behave identically
	janLocal := time.Date(2024, 1, 15, 12, 0, 0, 0, east)
	if got := FilterMonth(txs, janLocal); len(got) != 1 {
		t.Fatalf("expected transaction for local January reference, got %d", len(got))
	}
}

func TestMonthTotals(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Income, "Salary", "3000", date),
		tx(core.Income, "Extra Income", "250.50", date),
		tx(core.Expense, "Food", "120.25", date),
		tx(core.Expense, "Transport", "80", date),
	}

	totals := MonthTotals(txs)
	if totals.Income.String() != "3250.5" {
		t.Fatalf("income: expected 3250.5, got %s", totals.Income)
	}
	if totals.Expense.String() != "200.25" {
		t.Fatalf("expense: expected 200.25, got %s", totals.Expense)
	}
	if totals.Balance().String() != "3050.25" {
		t.Fatalf("balance: expected 3050.25, got %s", totals.Balance())
	}
}

func TestSpentByCategory(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Expense, "Food", "10", date),
		tx(core.Expense, "Food", "15", date),
		tx(core.Expense, "Transport", "5", date),
		tx(core.Income, "Salary", "100", date), // income never counts as spend
	}

	spent := SpentByCategory(txs)
	if spent["Food"].String() != "25" {
		t.Fatalf("Food: expected 25, got %s", spent["Food"])
	}
	if spent["Transport"].String() != "5" {
		t.Fatalf("Transport: expected 5, got %s", spent["Transport"])
	}
	if _, ok := spent["Salary"]; ok {
		t.Fatalf("income category must not appear in spend map")
	}
}

func TestBudgetAlerts(t *testing.T) {
	cases := []struct {
		limit string
		spent string
		alert bool
	}{
		{"100", "80", true},     // exactly at threshold
		{"100", "79.99", false}, // just under
		{"100", "100", true},
		{"100", "150", true},
		{"0", "1000", false}, // no limit set, never alerts
	}
	for i, tc := range cases {
		budgets := []core.Budget{{Category: "Food", Limit: decimal.RequireFromString(tc.limit)}}
		spent := map[string]decimal.Decimal{"Food": decimal.RequireFromString(tc.spent)}
		alerts := BudgetAlerts(budgets, spent)
		if tc.alert && len(alerts) != 1 {
			t.Fatalf("case %d (limit=%s spent=%s) expected alert", i, tc.limit, tc.spent)
		}
		if !tc.alert && len(alerts) != 0 {
			t.Fatalf("case %d (limit=%s spent=%s) expected no alert", i, tc.limit, tc.spent)
		}
	}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		target  string
		current string
		want    float64
	}{
		{"5000", "2500", 50},
		{"5000", "6000", 100}, // clamped for display
		{"5000", "0", 0},
		{"0", "1000", 0}, // zero target defined as 0%
	}
	for i, tc := range cases {
		g := core.Goal{
			Title:         "g",
			TargetAmount:  decimal.RequireFromString(tc.target),
			CurrentAmount: decimal.RequireFromString(tc.current),
		}
		if got := GoalProgress(g); got != tc.want {
			t.Fatalf("case %d expected %.2f, got %.2f", i, tc.want, got)
		}
	}
}

func TestGoalProgressKeepsStoredAmount(t *testing.T) {
	g := core.Goal{
		Title:         "over",
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.NewFromInt(6000),
	}
	if GoalProgress(g) != 100 {
		t.Fatalf("expected clamped progress")
	}
	if !g.CurrentAmount.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("stored current amount must not be clamped")
	}
}

func TestOverview(t *testing.T) {
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	snap := core.Snapshot{
		Transactions: []core.Transaction{
			tx(core.Income, "Salary", "1000", may.AddDate(0, 0, 5)),
			tx(core.Expense, "Food", "90", may.AddDate(0, 0, 6)),
			tx(core.Expense, "Food", "200", may.AddDate(0, -1, 0)), // April, filtered out
		},
		Budgets: []core.Budget{{Category: "Food", Limit: decimal.NewFromInt(100)}},
		Goals: []core.Goal{{
			ID:            "g1",
			Title:         "Fund",
			TargetAmount:  decimal.NewFromInt(200),
			CurrentAmount: decimal.NewFromInt(50),
		}},
	}

	o := Overview(snap, may)
	if o.Year != 2024 || o.Month != 5 {
		t.Fatalf("unexpected reference: %d-%d", o.Year, o.Month)
	}
	if o.Totals.Expense.String() != "90" {
		t.Fatalf("expected April spend excluded, got %s", o.Totals.Expense)
	}
	if len(o.Alerts) != 1 {
		t.Fatalf("expected budget alert at 90/100, got %d", len(o.Alerts))
	}
	if len(o.ByCategory) != 1 || o.ByCategory[0].Category != "Food" {
		t.Fatalf("unexpected category breakdown: %+v", o.ByCategory)
	}
	if len(o.Goals) != 1 || o.Goals[0].Progress != 25 {
		t.Fatalf("unexpected goal status: %+v", o.Goals)
	}
}
