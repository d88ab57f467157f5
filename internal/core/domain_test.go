package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:        Expense,
		Category:    "Food",
		Amount:      decimal.NewFromInt(10),
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "groceries",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Category: "Food", Amount: decimal.NewFromInt(1), Date: good.Date, Description: "a"},
		{Type: Expense, Category: "", Amount: decimal.NewFromInt(1), Date: good.Date, Description: "a"},
		{Type: Expense, Category: "Food", Amount: decimal.NewFromInt(-1), Date: good.Date, Description: "a"},
		{Type: Expense, Category: "Food", Amount: decimal.NewFromInt(1), Date: time.Time{}, Description: "a"},
		{Type: Expense, Category: "Food", Amount: decimal.NewFromInt(1), Date: good.Date, Description: " "},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Category: "Food", Limit: decimal.Zero}).Validate(); err != nil {
		t.Fatalf("zero limit must be valid (means no budget set), got %v", err)
	}
	if err := (Budget{Category: "", Limit: decimal.NewFromInt(10)}).Validate(); err == nil {
		t.Fatalf("expected error for empty category")
	}
	if err := (Budget{Category: "Food", Limit: decimal.NewFromInt(-1)}).Validate(); err == nil {
		t.Fatalf("expected error for negative limit")
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{Title: "Car", TargetAmount: decimal.NewFromInt(100), CurrentAmount: decimal.NewFromInt(150)}
	if err := good.Validate(); err != nil {
		t.Fatalf("current over target must be valid, got %v", err)
	}
	if err := (Goal{Title: ""}).Validate(); err == nil {
		t.Fatalf("expected error for empty title")
	}
}

func TestDefaultBudgets(t *testing.T) {
	budgets := DefaultBudgets()
	if len(budgets) != len(ExpenseCategories) {
		t.Fatalf("expected %d budgets, got %d", len(ExpenseCategories), len(budgets))
	}
	seen := map[string]bool{}
	for _, b := range budgets {
		if !b.Limit.IsZero() {
			t.Fatalf("default budget for %s should have zero limit", b.Category)
		}
		if seen[b.Category] {
			t.Fatalf("duplicate category %s", b.Category)
		}
		seen[b.Category] = true
	}
}

func TestSeededSnapshot(t *testing.T) {
	snap := SeededSnapshot(true)
	if !snap.DarkMode {
		t.Fatalf("dark mode flag must carry over")
	}
	if len(snap.Goals) != 1 {
		t.Fatalf("expected one seeded goal, got %d", len(snap.Goals))
	}
	if snap.Goals[0].ID == "" {
		t.Fatalf("seeded goal needs an id")
	}
	if !snap.Goals[0].TargetAmount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected seeded target: %s", snap.Goals[0].TargetAmount)
	}
}

func TestSnapshotNormalize(t *testing.T) {
	snap := Snapshot{}.Normalize()
	if snap.Transactions == nil || snap.Goals == nil {
		t.Fatalf("nil slices must become empty")
	}
	if len(snap.Budgets) != len(ExpenseCategories) {
		t.Fatalf("absent budgets must fall back to defaults")
	}

	// Existing budgets survive
	custom := Snapshot{Budgets: []Budget{{Category: "Food", Limit: decimal.NewFromInt(5)}}}.Normalize()
	if len(custom.Budgets) != 1 || custom.Budgets[0].Category != "Food" {
		t.Fatalf("existing budgets must not be replaced")
	}
}

func TestCredentialSanitized(t *testing.T) {
	cred := Credential{ID: "1", Name: "a", Email: "a@b.c", Password: "secret"}
	if got := cred.Sanitized().Password; got != "" {
		t.Fatalf("sanitized credential leaked password: %q", got)
	}
	if cred.Password != "secret" {
		t.Fatalf("original credential must be untouched")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id after %d draws", i)
		}
		seen[id] = true
	}
}
