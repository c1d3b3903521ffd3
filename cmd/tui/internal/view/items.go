package view

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

// ParseItemLines reads one item per non-blank line in the form
// "description; quantity; unit cost". Numbers are passed through unchecked so
// that the engine reports range problems itself.
func ParseItemLines(text string) ([]invoice.ItemPayload, error) {
	var items []invoice.ItemPayload

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: expected \"description; quantity; unit cost\"", i+1)
		}

		quantity, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q", i+1, strings.TrimSpace(parts[1]))
		}

		unitCost, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid unit cost %q", i+1, strings.TrimSpace(parts[2]))
		}

		items = append(items, invoice.ItemPayload{
			Description: strings.TrimSpace(parts[0]),
			Quantity:    &quantity,
			UnitCost:    &unitCost,
		})
	}

	return items, nil
}

// ParseOptionalDecimal returns nil for blank input.
func ParseOptionalDecimal(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}

	return &d, nil
}
