package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is a single income or expense entry. Immutable once
	// created; removal is the only mutation.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
	}

	// Budget is a monthly spending limit for one expense category.
	// A zero limit means no budget set.
	Budget struct {
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
	}

	// Goal is a savings target. CurrentAmount may exceed TargetAmount;
	// progress clamps for display only.
	Goal struct {
		ID            string          `json:"id"`
		Title         string          `json:"title"`
		TargetAmount  decimal.Decimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
		Deadline      time.Time       `json:"deadline"`
	}

	// Credential identifies a registered user. Email is the unique key.
	// The password is stored as-is: there is no server boundary in this
	// system, so the credential check only gates the local snapshot.
	Credential struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password,omitempty"`
	}

	// Snapshot is the unit of persistence: everything a user owns,
	// keyed by email in the store. It never carries the credential.
	Snapshot struct {
		Transactions []Transaction `json:"transactions"`
		Budgets      []Budget      `json:"budgets"`
		Goals        []Goal        `json:"goals"`
		DarkMode     bool          `json:"darkMode"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyEmail       = errors.New("empty email")
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrEmptyDescription = errors.New("empty description")
)

// ExpenseCategories are the categories a Budget can be set for.
var ExpenseCategories = []string{
	"Housing",
	"Food",
	"Transport",
	"Leisure",
	"Health",
	"Education",
	"Other",
}

// IncomeCategories are the categories available for income entries.
var IncomeCategories = []string{
	"Salary",
	"Extra Income",
	"Other",
}

// NewID returns a fresh unique id for transactions, goals and credentials.
func NewID() string {
	return uuid.NewString()
}

// DefaultBudgets returns one zero-limit Budget per expense category,
// the starting set for a fresh snapshot.
func DefaultBudgets() []Budget {
	budgets := make([]Budget, len(ExpenseCategories))
	for i, cat := range ExpenseCategories {
		budgets[i] = Budget{Category: cat, Limit: decimal.Zero}
	}
	return budgets
}

// DefaultSnapshot is the state a user starts from before any data is
// loaded or after logout.
func DefaultSnapshot(darkMode bool) Snapshot {
	return Snapshot{
		Transactions: []Transaction{},
		Budgets:      DefaultBudgets(),
		Goals:        []Goal{},
		DarkMode:     darkMode,
	}
}

// SeededSnapshot is the state for a brand-new user: default budgets plus
// one emergency-fund goal to get them started.
func SeededSnapshot(darkMode bool) Snapshot {
	snap := DefaultSnapshot(darkMode)
	snap.Goals = []Goal{{
		ID:            NewID(),
		Title:         "Emergency Fund",
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.Zero,
		Deadline:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}}
	return snap
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Limit.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if g.TargetAmount.IsNegative() || g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (c Credential) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

// Sanitized returns a copy safe to embed in responses and tokens:
// everything except the password.
func (c Credential) Sanitized() Credential {
	c.Password = ""
	return c
}

// Normalize applies per-field defaults to a snapshot read from storage.
// Older records may miss fields entirely; nil slices become empty and an
// absent budget set falls back to the defaults so every expense category
// always has exactly one entry.
func (s Snapshot) Normalize() Snapshot {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if len(s.Budgets) == 0 {
		s.Budgets = DefaultBudgets()
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	return s
}
