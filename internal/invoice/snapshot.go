package invoice

import (
	"fmt"

	gdecimal "github.com/govalues/decimal"
	"github.com/govalues/money"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/openfacture/internal/round"
)

// CurrencySnapshot is the rate bookkeeping stored alongside an invoice.
// USDRate is how many US dollars one unit of Currency was worth at save time.
type CurrencySnapshot struct {
	Currency money.Currency
	USDRate  *decimal.Decimal
	Rates    RateSnapshot
}

// BuildCurrencySnapshot validates the authoritative USD rate and keeps the
// free-form rates map untouched.
func (e *Engine) BuildCurrencySnapshot(code string, usdRate *decimal.Decimal, rates RateSnapshot) (CurrencySnapshot, error) {
	curr, err := money.ParseCurr(code)
	if err != nil || !lo.Contains(SupportedCurrencies, curr) {
		return CurrencySnapshot{}, badRequest("unsupported currency",
			Issue{Path: "currency", Message: fmt.Sprintf("unknown currency %q", code)})
	}

	s := CurrencySnapshot{Currency: curr, Rates: rates}

	if usdRate == nil {
		return s, nil
	}

	if !usdRate.IsPositive() {
		return CurrencySnapshot{}, nonPositiveRate()
	}

	if err := e.checkScale(*usdRate, "currencyUsdRate"); err != nil {
		return CurrencySnapshot{}, err
	}

	if exceeds(*usdRate, e.cfg.MaxRate, false) {
		return CurrencySnapshot{}, tooLarge("currencyUsdRate", e.cfg.MaxRate, false)
	}

	rate := round.To(*usdRate, e.cfg.RateScale)
	if !rate.IsPositive() {
		return CurrencySnapshot{}, nonPositiveRate()
	}

	if !rate.LessThan(e.cfg.MaxRate) {
		return CurrencySnapshot{}, tooLarge("currencyUsdRate", e.cfg.MaxRate, false)
	}

	s.USDRate = &rate

	return s, nil
}

func nonPositiveRate() *Error {
	return unprocessable(
		"currency rate must be positive",
		"currencyUsdRate",
		"must be greater than 0",
	)
}

// ExchangeRate converts amounts in the snapshot currency to US dollars. ok is
// false when a non-USD snapshot carries no rate.
func (s CurrencySnapshot) ExchangeRate() (money.ExchangeRate, bool, error) {
	if s.Currency == money.USD {
		r, err := money.NewExchRate(money.USD, money.USD, gdecimal.One)
		return r, true, err
	}

	if s.USDRate == nil {
		return money.ExchangeRate{}, false, nil
	}

	value, err := gdecimal.Parse(s.USDRate.String())
	if err != nil {
		return money.ExchangeRate{}, false, fmt.Errorf("parsing usd rate: %w", err)
	}

	r, err := money.NewExchRate(s.Currency, money.USD, value)
	if err != nil {
		return money.ExchangeRate{}, false, fmt.Errorf("building %s/USD rate: %w", s.Currency, err)
	}

	return r, true, nil
}

func USDExchangeRate(inv *Invoice) (money.ExchangeRate, bool, error) {
	return CurrencySnapshot{Currency: inv.Currency, USDRate: inv.CurrencyUSDRate}.ExchangeRate()
}
