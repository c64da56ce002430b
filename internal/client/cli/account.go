package cli

import (
	"context"
	"flag"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/session"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type meCmd struct{ app *App }

func (*meCmd) Name() string     { return "me" }
func (*meCmd) Synopsis() string { return "show the current account" }
func (*meCmd) Usage() string {
	return `me

  Prints the account of the current session and, when visible, its settings.
`
}
func (*meCmd) SetFlags(*flag.FlagSet) {}

func (c *meCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	acc, err := c.app.api.Me(ctx)
	if err != nil {
		return c.app.fail(err)
	}

	// read after Me, which may have refreshed the token
	badge := ""
	if t, err := c.app.tokens.Load(ctx); err == nil && t.AccessToken != "" {
		badge, _ = session.Badge(t.AccessToken)
	}

	if badge != "" {
		c.app.printf("%s [%s]\n", acc.Username, badge)
	} else {
		c.app.printf("%s\n", acc.Username)
	}
	c.app.printf("  id:      %s\n", acc.ID)
	c.app.printf("  created: %s\n", acc.CreatedAt.Format(time.DateOnly))

	if s := acc.Settings; s != nil {
		c.app.printf("  travel mode: %s\n", onOff(s.TravelMode.Enabled))
		c.app.printf("  hide stats:  %s\n", onOff(s.TravelMode.HideStats))
		if s.TravelMode.Until != nil {
			c.app.printf("  until:       %s\n", s.TravelMode.Until.Format(time.RFC3339))
		}
		if s.DuressUsername != "" {
			c.app.printf("  duress user: %s\n", s.DuressUsername)
		}
	}
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	app   *App
	month string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show monthly totals" }
func (*summaryCmd) Usage() string {
	return `summary [-month YYYY-MM]

  Prints income, expenses and balance of a month, per category.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month to summarize (defaults to the current month)")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := c.app.api.Summary(ctx, c.month)
	if err != nil {
		return c.app.fail(err)
	}

	c.app.printf("%s\n", s.Month)
	c.app.printf("  income:  %s\n", formatMoney(s.TotalIncome, s.Currency))
	c.app.printf("  expense: %s\n", formatMoney(s.TotalExpense, s.Currency))
	c.app.printf("  balance: %s\n", formatMoney(s.Balance, s.Currency))
	for _, ct := range s.Categories {
		c.app.printf("  %-16s %s\n", ct.Category, formatMoney(ct.Amount, s.Currency))
	}
	return subcommands.ExitSuccess
}

// formatMoney renders amount in the currency's display format. Unknown
// currency codes fall back to the plain decimal followed by the code.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
