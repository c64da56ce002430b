// Package ledger builds monthly aggregates over an account's transactions.
// Transaction storage itself belongs to the CRUD layer behind Source.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/visibility"
	"github.com/shopspring/decimal"
)

const monthLayout = "2006-01"

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Date      time.Time       `json:"date"`
	Kind      Kind            `json:"kind"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type Summary struct {
	Month        string          `json:"month"`
	Currency     string          `json:"currency"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Categories   []CategoryTotal `json:"categories"`
}

// Source is the read side of the transaction store.
type Source interface {
	Transactions(ctx context.Context, accountID string, from, to time.Time) ([]Transaction, error)
}

// ParseMonth parses YYYY-MM. An empty string means the current month.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	m, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return m, nil
}

// Summarize totals txs by kind and expense category.
func Summarize(month time.Time, currency string, txs []Transaction) Summary {
	s := Summary{
		Month:        month.Format(monthLayout),
		Currency:     currency,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Balance:      decimal.Zero,
		Categories:   []CategoryTotal{},
	}

	byCategory := map[string]decimal.Decimal{}
	for _, tx := range txs {
		amount := tx.Amount.Abs()
		switch tx.Kind {
		case KindIncome:
			s.TotalIncome = s.TotalIncome.Add(amount)
		case KindExpense:
			s.TotalExpense = s.TotalExpense.Add(amount)
			byCategory[tx.Category] = byCategory[tx.Category].Add(amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	for name, amount := range byCategory {
		s.Categories = append(s.Categories, CategoryTotal{Category: name, Amount: amount})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if c := s.Categories[i].Amount.Cmp(s.Categories[j].Amount); c != 0 {
			return c > 0
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})
	return s
}

// Restrict applies a data scope. A restricted summary keeps its shape but
// every total is zero and no categories are listed.
func Restrict(s Summary, scope visibility.DataScope) Summary {
	if scope == visibility.ScopeFull {
		return s
	}
	return Summary{
		Month:        s.Month,
		Currency:     s.Currency,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Balance:      decimal.Zero,
		Categories:   []CategoryTotal{},
	}
}

type Service struct {
	source   Source
	currency string
	now      func() time.Time
}

func NewService(source Source, currency string) *Service {
	return &Service{source: source, currency: currency, now: time.Now}
}

// MonthSummary returns the summary for the month starting at month, already
// filtered by scope. A restricted scope never reads the source.
func (s *Service) MonthSummary(ctx context.Context, accountID string, month time.Time, scope visibility.DataScope) (Summary, error) {
	if scope != visibility.ScopeFull {
		return Restrict(Summarize(month, s.currency, nil), scope), nil
	}

	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	txs, err := s.source.Transactions(ctx, accountID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(from, s.currency, txs), nil
}

func (s *Service) ParseMonth(v string) (time.Time, error) {
	return ParseMonth(v, s.now())
}
