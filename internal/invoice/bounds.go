package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Past these sizes a value is out of range whatever the limit, so the
// comparison never has to expand a huge exponent or coefficient.
const (
	maxExponent        = 32
	maxCoefficientBits = 128
	outOfRange         = "field %s is out of range"
)

// bounded checks a client number before any arithmetic touches it: it must
// be non-negative, carry at most MaxInputScale decimals and stay under limit
// (or at it, when inclusive). Zero is returned canonical whatever exponent
// it was written with.
func (e *Engine) bounded(d decimal.Decimal, field string, limit decimal.Decimal, inclusive bool) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}

	if err := nonNegative(d, field); err != nil {
		return decimal.Zero, err
	}

	if err := e.checkScale(d, field); err != nil {
		return decimal.Zero, err
	}

	if exceeds(d, limit, inclusive) {
		return decimal.Zero, tooLarge(field, limit, inclusive)
	}

	return d, nil
}

func (e *Engine) checkScale(d decimal.Decimal, field string) error {
	if d.IsZero() || -d.Exponent() <= e.cfg.MaxInputScale {
		return nil
	}

	return unprocessable(
		fmt.Sprintf(outOfRange, field),
		field,
		fmt.Sprintf("must have at most %d decimal places", e.cfg.MaxInputScale),
	)
}

// exceeds reports whether |d| is past limit. d must already have passed
// checkScale.
func exceeds(d, limit decimal.Decimal, inclusive bool) bool {
	if d.IsZero() {
		return false
	}

	if huge(d) {
		return true
	}

	if inclusive {
		return d.Abs().GreaterThan(limit)
	}

	return d.Abs().GreaterThanOrEqual(limit)
}

func tooLarge(field string, limit decimal.Decimal, inclusive bool) *Error {
	detail := "must be less than " + limit.String()
	if inclusive {
		detail = "must be less than or equal to " + limit.String()
	}

	return unprocessable(fmt.Sprintf(outOfRange, field), field, detail)
}

// huge reports whether d is far beyond every column precision in schema.sql.
// It looks at the representation only, so it stays cheap for inputs such as
// 1e20000000.
func huge(d decimal.Decimal) bool {
	return d.Exponent() > maxExponent || d.Coefficient().BitLen() > maxCoefficientBits
}
