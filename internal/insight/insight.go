// Package insight turns the current financial picture into a short
// natural-language summary via an OpenAI-compatible chat model. The call is
// strictly best-effort: any failure degrades to a fixed fallback string and
// is never propagated.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"finanza/internal/core"
	"finanza/internal/report"
)

// Fallback is returned whenever the model cannot be reached or answers
// with nothing usable.
const Fallback = "The spending summary is unavailable right now. Keep tracking your expenses and try again later."

const defaultModel = openai.GPT4oMini

// requestTimeout bounds the model call; there is no retry.
const requestTimeout = 30 * time.Second

// Config holds generator configuration.
type Config struct {
	APIKey  string
	BaseURL string // optional, for OpenAI-compatible endpoints
	Model   string
}

// Generator produces spending summaries.
type Generator struct {
	client *openai.Client
	model  string
}

// New builds a Generator. With an empty API key the generator is disabled
// and always returns the fallback.
func New(cfg Config) *Generator {
	if cfg.APIKey == "" {
		return &Generator{}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Enabled reports whether a model is configured.
func (g *Generator) Enabled() bool {
	return g.client != nil
}

// Generate returns a free-text summary of the user's current month. It
// never returns an error; degraded paths all end in Fallback.
func (g *Generator) Generate(ctx context.Context, transactions []core.Transaction, budgets []core.Budget, goals []core.Goal) string {
	if g.client == nil {
		return Fallback
	}

	prompt := buildPrompt(transactions, budgets, goals, time.Now())

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "Insight generation failed", "error", err)
		return Fallback
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		slog.WarnContext(ctx, "Insight model returned empty response", "model", g.model)
		return Fallback
	}

	return resp.Choices[0].Message.Content
}

func buildPrompt(transactions []core.Transaction, budgets []core.Budget, goals []core.Goal, now time.Time) string {
	monthTxs := report.FilterMonth(transactions, now)
	totals := report.MonthTotals(monthTxs)

	var b strings.Builder
	b.WriteString("Act as a friendly personal-finance educator. Analyze the user's data for the current month:\n\n")
	fmt.Fprintf(&b, "Summary:\n- Total income: %s\n- Total expenses: %s\n- Balance: %s\n\n",
		totals.Income.StringFixed(2), totals.Expense.StringFixed(2), totals.Balance().StringFixed(2))

	b.WriteString("Budgets set:\n")
	for _, budget := range budgets {
		if budget.Limit.IsPositive() {
			fmt.Fprintf(&b, "- %s: limit %s\n", budget.Category, budget.Limit.StringFixed(2))
		}
	}

	b.WriteString("\nCurrent goals:\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s: %s of %s\n", g.Title, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2))
	}

	b.WriteString(`
Instructions:
1. Keep the analysis short (150 words max).
2. Be motivating and educational.
3. Point out categories where the user overspends, or confirm they are on track.
4. Give one practical saving tip.
5. Use a friendly tone and Markdown bold for emphasis.`)

	return b.String()
}
