package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/openfacture/internal/round"
)

// Config fixes the scales, the tolerance band and the input bounds used by
// an Engine. The defaults match the column precisions in schema.sql.
type Config struct {
	MoneyScale int32
	RateScale  int32
	Tolerance  decimal.Decimal

	// MaxAmount is the exclusive bound on quantities, unit costs, amounts
	// paid and every computed aggregate (NUMERIC(14,2)).
	MaxAmount decimal.Decimal
	// MaxTaxRate is the inclusive bound on the tax percentage (NUMERIC(7,2)).
	MaxTaxRate decimal.Decimal
	// MaxRate is the exclusive bound on the USD rate (NUMERIC(18,6)).
	MaxRate decimal.Decimal
	// MaxInputScale caps the decimals accepted on any client number.
	MaxInputScale int32
}

func DefaultConfig() Config {
	return Config{
		MoneyScale:    round.MoneyScale,
		RateScale:     round.RateScale,
		Tolerance:     decimal.New(2, -2),
		MaxAmount:     decimal.New(1, 12),
		MaxTaxRate:    decimal.New(9999999, -2),
		MaxRate:       decimal.New(1, 12),
		MaxInputScale: 12,
	}
}

// Engine turns payloads into canonical invoices. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Build runs the whole pipeline: shape validation, item normalization,
// aggregates checked against the client's claims, and the currency snapshot.
// The stored tax rate is rounded to MoneyScale; the tax itself is computed
// from the rate as sent. Nothing is persisted; the draft has no ID or owner yet.
func (e *Engine) Build(p Payload) (*Draft, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	items, err := e.NormalizeItems(p.Items)
	if err != nil {
		return nil, err
	}

	// subtotal and tax claims are checked before the payment, total and
	// balance claims after it
	computed, err := e.computeTotals(items, p.TaxRate)
	if err != nil {
		return nil, err
	}

	if err := e.CheckConsistency(Claims{Subtotal: p.Subtotal, TaxAmount: p.TaxAmount}, computed); err != nil {
		return nil, err
	}

	if computed, err = e.applyPayment(computed, p.AmountPaid); err != nil {
		return nil, err
	}

	if err := e.CheckConsistency(Claims{Total: p.Total, BalanceDue: p.BalanceDue}, computed); err != nil {
		return nil, err
	}

	snapshot, err := e.BuildCurrencySnapshot(p.Currency, p.CurrencyUSDRate, p.ExchangeRatesSnapshot)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Amount = e.LineAmount(items[i])
	}

	inv := &Invoice{
		Number:                p.Number,
		Title:                 sanitize(p.Title),
		IssueDate:             *p.IssueDate,
		DueDate:               p.DueDate,
		Terms:                 sanitize(p.Terms),
		CustomerName:          p.CustomerName,
		CustomerEmail:         sanitize(p.CustomerEmail),
		CustomerAddress:       sanitize(p.CustomerAddress),
		ShipTo:                sanitize(p.ShipTo),
		Notes:                 sanitize(p.Notes),
		AdditionalTerms:       sanitize(p.AdditionalTerms),
		Currency:              snapshot.Currency,
		Subtotal:              computed.Subtotal,
		Total:                 computed.Total,
		AmountPaid:            e.money(computed.AmountPaid),
		BalanceDue:            computed.BalanceDue,
		CurrencyUSDRate:       snapshot.USDRate,
		ExchangeRatesSnapshot: snapshot.Rates,
		Items:                 items,
	}

	if computed.TaxRate != nil {
		rate := e.money(*computed.TaxRate)
		tax := computed.TaxAmount
		inv.TaxRate = &rate
		inv.TaxAmount = &tax
	}

	return &Draft{Invoice: inv, Computed: computed}, nil
}

func (e *Engine) money(d decimal.Decimal) decimal.Decimal {
	return round.To(d, e.cfg.MoneyScale)
}

func sanitize(s string) string {
	return strings.TrimSpace(s)
}
