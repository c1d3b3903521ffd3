package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultItemDescription = "Item"

// NormalizeItems trims descriptions, defaults missing numbers to zero and
// rejects negative or out-of-range quantities, unit costs and client amounts.
// The returned items carry no Amount yet.
func (e *Engine) NormalizeItems(raw []ItemPayload) ([]LineItem, error) {
	if len(raw) == 0 {
		return nil, badRequest("an invoice must contain at least one item",
			Issue{Path: "items", Message: "must contain at least one item"})
	}

	items := make([]LineItem, 0, len(raw))

	for i, r := range raw {
		description := strings.TrimSpace(r.Description)
		if description == "" {
			description = defaultItemDescription
		}

		quantity, err := e.bounded(valueOrZero(r.Quantity), fmt.Sprintf("items.%d.quantity", i), e.cfg.MaxAmount, false)
		if err != nil {
			return nil, err
		}

		unitCost, err := e.bounded(valueOrZero(r.UnitCost), fmt.Sprintf("items.%d.unitCost", i), e.cfg.MaxAmount, false)
		if err != nil {
			return nil, err
		}

		if r.Amount != nil {
			if _, err := e.bounded(*r.Amount, fmt.Sprintf("items.%d.amount", i), e.cfg.MaxAmount, false); err != nil {
				return nil, err
			}
		}

		items = append(items, LineItem{
			Position:    i,
			Description: description,
			Quantity:    quantity,
			UnitCost:    unitCost,
		})
	}

	return items, nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}

	return *d
}

func nonNegative(d decimal.Decimal, field string) error {
	if d.IsNegative() {
		return unprocessable(
			fmt.Sprintf("field %s must be positive", field),
			field,
			"must be greater than or equal to 0",
		)
	}

	return nil
}
