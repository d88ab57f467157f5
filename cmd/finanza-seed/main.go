// finanza-seed fills a store with demo data: one user, a few months of
// random transactions, budgets on every expense category and a couple of
// goals. Useful for trying the dashboard without typing data in by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"finanza/internal/backend"
	"finanza/internal/config"
	"finanza/internal/core"
	applog "finanza/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New("finanza-seed", applog.ParseLevel(os.Getenv("LOG_LEVEL")))
	applog.SetDefault(logger)

	email := flag.String("email", "demo@finanza.local", "email for the demo account")
	password := flag.String("password", "demo", "password for the demo account")
	months := flag.Int("months", 3, "months of transaction history to generate")
	perMonth := flag.Int("per-month", 25, "transactions per month")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.Logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err)
		os.Exit(1)
	}
	defer result.Cleanup()

	ctx := context.Background()

	cred := core.Credential{
		ID:       core.NewID(),
		Name:     gofakeit.Name(),
		Email:    *email,
		Password: *password,
	}
	if err := result.Store.UpsertCredential(ctx, cred); err != nil {
		logger.Error("Failed to save demo credential", "error", err)
		os.Exit(1)
	}

	snap := buildSnapshot(*months, *perMonth)
	if err := result.Store.PutSnapshot(ctx, cred.Email, snap); err != nil {
		logger.Error("Failed to save demo snapshot", "error", err)
		os.Exit(1)
	}

	logger.Info("Demo data generated",
		"email", cred.Email,
		"transactions", len(snap.Transactions),
		"goals", len(snap.Goals))
	fmt.Printf("Log in with %s / %s\n", cred.Email, *password)
}

func buildSnapshot(months, perMonth int) core.Snapshot {
	snap := core.DefaultSnapshot(false)

	now := time.Now().UTC()
	for m := 0; m < months; m++ {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -m, 0)

		// One salary entry per month plus random expenses
		snap.Transactions = append(snap.Transactions, core.Transaction{
			ID:          core.NewID(),
			Type:        core.Income,
			Category:    "Salary",
			Amount:      decimal.NewFromFloat(gofakeit.Price(2500, 4500)),
			Date:        monthStart.AddDate(0, 0, 4),
			Description: "Monthly salary",
		})

		for i := 0; i < perMonth; i++ {
			day := rand.Intn(28)
			snap.Transactions = append(snap.Transactions, core.Transaction{
				ID:          core.NewID(),
				Type:        core.Expense,
				Category:    core.ExpenseCategories[rand.Intn(len(core.ExpenseCategories))],
				Amount:      decimal.NewFromFloat(gofakeit.Price(3, 250)),
				Date:        monthStart.AddDate(0, 0, day),
				Description: gofakeit.ProductName(),
			})
		}
	}

	for i := range snap.Budgets {
		snap.Budgets[i].Limit = decimal.NewFromFloat(gofakeit.Price(100, 800)).Round(0)
	}

	snap.Goals = []core.Goal{
		{
			ID:            core.NewID(),
			Title:         "Emergency Fund",
			TargetAmount:  decimal.NewFromInt(5000),
			CurrentAmount: decimal.NewFromFloat(gofakeit.Price(0, 5000)),
			Deadline:      now.AddDate(1, 0, 0),
		},
		{
			ID:            core.NewID(),
			Title:         "Trip to " + gofakeit.City(),
			TargetAmount:  decimal.NewFromInt(2000),
			CurrentAmount: decimal.NewFromFloat(gofakeit.Price(0, 1500)),
			Deadline:      now.AddDate(0, 8, 0),
		},
	}

	return snap
}
