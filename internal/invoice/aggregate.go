package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComputeAggregates derives subtotal, tax, total and balance due.
//
// The subtotal is the sum of the raw quantity × unit cost products rounded
// once. It is deliberately not the sum of the rounded per-item amounts, so
// the two may drift apart by up to the tolerance band. Items must come from
// NormalizeItems so that their magnitudes are already bounded.
func (e *Engine) ComputeAggregates(items []LineItem, taxRate, amountPaid *decimal.Decimal) (Computed, error) {
	c, err := e.computeTotals(items, taxRate)
	if err != nil {
		return Computed{}, err
	}

	return e.applyPayment(c, amountPaid)
}

// computeTotals fills subtotal, tax rate, tax amount and total. The tax is
// computed from the rate as sent, not from its rounded stored form.
func (e *Engine) computeTotals(items []LineItem, taxRate *decimal.Decimal) (Computed, error) {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Quantity.Mul(item.UnitCost))
	}

	c := Computed{Subtotal: e.money(sum)}
	if !c.Subtotal.LessThan(e.cfg.MaxAmount) {
		return Computed{}, tooLarge("subtotal", e.cfg.MaxAmount, false)
	}

	if taxRate != nil {
		rate, err := e.bounded(*taxRate, "taxRate", e.cfg.MaxTaxRate, true)
		if err != nil {
			return Computed{}, err
		}

		c.TaxRate = &rate
		c.TaxAmount = e.money(c.Subtotal.Mul(rate).Shift(-2))
	}

	c.Total = e.money(c.Subtotal.Add(c.TaxAmount))
	if !c.Total.LessThan(e.cfg.MaxAmount) {
		return Computed{}, tooLarge("total", e.cfg.MaxAmount, false)
	}

	return c, nil
}

// applyPayment validates the amount paid against the total and sets the
// balance due.
func (e *Engine) applyPayment(c Computed, amountPaid *decimal.Decimal) (Computed, error) {
	c.AmountPaid = decimal.Zero

	if amountPaid != nil {
		paid, err := e.bounded(*amountPaid, "amountPaid", e.cfg.MaxAmount, false)
		if err != nil {
			return Computed{}, err
		}

		// the stored value is rounded, and must still fit
		if !e.money(paid).LessThan(e.cfg.MaxAmount) {
			return Computed{}, tooLarge("amountPaid", e.cfg.MaxAmount, false)
		}

		c.AmountPaid = paid
	}

	if c.AmountPaid.Sub(c.Total).GreaterThan(e.cfg.Tolerance) {
		return Computed{}, unprocessable(
			"amount paid exceeds the computed total",
			"amountPaid",
			fmt.Sprintf("amount paid must be less than or equal to %s", c.Total.StringFixed(e.cfg.MoneyScale)),
		)
	}

	c.BalanceDue = e.money(decimal.Max(c.Total.Sub(c.AmountPaid), decimal.Zero))

	return c, nil
}

// LineAmount is the stored per-item amount, rounded on its own.
func (e *Engine) LineAmount(item LineItem) decimal.Decimal {
	return e.money(item.Quantity.Mul(item.UnitCost))
}
