package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Claims are the aggregates a client computed on its side. A nil field is
// not checked.
type Claims struct {
	Subtotal   *decimal.Decimal
	TaxAmount  *decimal.Decimal
	Total      *decimal.Decimal
	BalanceDue *decimal.Decimal
}

// CheckConsistency rejects the first claim that differs from the computed
// value by more than the tolerance. A claim too large to compare is rejected
// outright. It never mutates either argument.
func (e *Engine) CheckConsistency(claims Claims, computed Computed) error {
	checks := []struct {
		field    string
		provided *decimal.Decimal
		expected decimal.Decimal
	}{
		{"subtotal", claims.Subtotal, computed.Subtotal},
		{"taxAmount", claims.TaxAmount, computed.TaxAmount},
		{"total", claims.Total, computed.Total},
		{"balanceDue", claims.BalanceDue, computed.BalanceDue},
	}

	for _, c := range checks {
		if c.provided == nil {
			continue
		}

		provided := *c.provided
		if provided.IsZero() {
			provided = decimal.Zero
		}

		if err := e.checkScale(provided, c.field); err != nil {
			return err
		}

		if huge(provided) || provided.Sub(c.expected).Abs().GreaterThan(e.cfg.Tolerance) {
			return unprocessable(
				fmt.Sprintf("field %s does not match the computed value", c.field),
				c.field,
				"expected value: "+c.expected.StringFixed(e.cfg.MoneyScale),
			)
		}
	}

	return nil
}
