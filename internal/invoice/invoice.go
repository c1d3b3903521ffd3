package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"
)

// SupportedCurrencies lists the currencies an invoice can be issued in.
var SupportedCurrencies = []money.Currency{
	money.USD,
	money.EUR,
	money.CDF,
	money.GBP,
	money.CAD,
}

// RateSnapshot maps currency codes to USD rates captured when the invoice was
// saved. It is kept for audit and never re-validated.
type RateSnapshot map[string]any

// Invoice is the canonical monetary record. Optional text fields are empty
// when absent.
type Invoice struct {
	ID     uuid.UUID
	UserID uuid.UUID

	Number          string
	Title           string
	IssueDate       time.Time
	DueDate         *time.Time
	Terms           string
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	ShipTo          string
	Notes           string
	AdditionalTerms string

	Currency   money.Currency
	Subtotal   decimal.Decimal
	TaxRate    *decimal.Decimal // nil when the invoice carries no tax
	TaxAmount  *decimal.Decimal // nil exactly when TaxRate is nil
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal

	CurrencyUSDRate       *decimal.Decimal
	ExchangeRatesSnapshot RateSnapshot

	Items []LineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem belongs to exactly one invoice and has no identity outside it.
type LineItem struct {
	ID          uuid.UUID
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Amount      decimal.Decimal
}

// Computed holds the server-side aggregates echoed back to clients.
type Computed struct {
	Subtotal   decimal.Decimal
	TaxRate    *decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
}

// Draft is what the engine hands to persistence: the canonical record plus
// the computed side channel.
type Draft struct {
	Invoice  *Invoice
	Computed Computed
}

// Result is returned by create and update.
type Result struct {
	Invoice  *Invoice
	Computed Computed
}

type ListFilter struct {
	Currency *money.Currency
	From     *time.Time
	To       *time.Time
}
