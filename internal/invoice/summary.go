package invoice

import (
	"fmt"

	gdecimal "github.com/govalues/decimal"
	"github.com/govalues/money"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Totals accumulates the three headline figures of a set of invoices.
type Totals struct {
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
}

func (t *Totals) add(total, paid, due decimal.Decimal) {
	t.Total = t.Total.Add(total)
	t.AmountPaid = t.AmountPaid.Add(paid)
	t.BalanceDue = t.BalanceDue.Add(due)
}

type CurrencyTotals struct {
	Currency money.Currency
	Count    int
	Totals
}

// Summary is the owner's dashboard. USD holds the roll-up of every invoice
// that could be converted with its own stored rate; Unconverted counts the
// ones that could not.
type Summary struct {
	Count       int
	ByCurrency  []CurrencyTotals
	USD         Totals
	Unconverted int
}

// maxUSD bounds a converted figure: 17 integer digits still fit a
// two-decimal govalues amount.
var maxUSD = decimal.New(1, 17)

// Summarize groups invoices per currency, in SupportedCurrencies order, and
// converts each one to US dollars at its own saved rate. An invoice that
// cannot be converted is counted in Unconverted rather than failing the
// whole summary.
func Summarize(invoices []*Invoice) *Summary {
	s := &Summary{Count: len(invoices)}

	groups := lo.GroupBy(invoices, func(inv *Invoice) money.Currency {
		return inv.Currency
	})

	for _, curr := range SupportedCurrencies {
		group, ok := groups[curr]
		if !ok {
			continue
		}

		ct := CurrencyTotals{Currency: curr, Count: len(group)}
		for _, inv := range group {
			ct.add(inv.Total, inv.AmountPaid, inv.BalanceDue)
		}

		s.ByCurrency = append(s.ByCurrency, ct)
	}

	for _, inv := range invoices {
		usd, ok, err := invoiceInUSD(inv)
		if err != nil {
			log.Warn().Err(err).Str("invoice", inv.Number).Msg("leaving invoice out of the USD summary")
		}

		if !ok {
			s.Unconverted++
			continue
		}

		s.USD.add(usd.Total, usd.AmountPaid, usd.BalanceDue)
	}

	return s
}

// invoiceInUSD converts the three headline figures of inv. ok is false when
// the invoice has no rate or a figure does not fit once converted.
func invoiceInUSD(inv *Invoice) (Totals, bool, error) {
	rate, ok, err := USDExchangeRate(inv)
	if err != nil || !ok {
		return Totals{}, false, err
	}

	factor := decimal.NewFromInt(1)
	if inv.Currency != money.USD {
		factor = *inv.CurrencyUSDRate
	}

	var t Totals

	for _, f := range []struct {
		from decimal.Decimal
		to   *decimal.Decimal
	}{
		{inv.Total, &t.Total},
		{inv.AmountPaid, &t.AmountPaid},
		{inv.BalanceDue, &t.BalanceDue},
	} {
		if !f.from.Mul(factor).Abs().LessThan(maxUSD) {
			return Totals{}, false, fmt.Errorf("%s %s is too large to convert", inv.Currency, f.from)
		}

		converted, err := toUSD(rate, inv.Currency, f.from)
		if err != nil {
			return Totals{}, false, err
		}

		*f.to = converted
	}

	return t, true, nil
}

// toUSD converts d with rate. The caller bounds the product first: Conv
// panics on overflow.
func toUSD(rate money.ExchangeRate, curr money.Currency, d decimal.Decimal) (decimal.Decimal, error) {
	value, err := gdecimal.Parse(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %s: %w", d, err)
	}

	amount, err := money.NewAmountFromDecimal(curr, value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building %s amount: %w", curr, err)
	}

	if !rate.CanConv(amount) {
		return decimal.Zero, fmt.Errorf("rate %s cannot convert %s", rate, amount)
	}

	converted := rate.Conv(amount).RoundToCurr()

	return decimal.RequireFromString(converted.Decimal().String()), nil
}
