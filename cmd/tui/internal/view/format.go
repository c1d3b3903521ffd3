package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/govalues/money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/openfacture/internal/round"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with digit grouping, e.g. "USD 1,234.50".
// It works on the decimal string, so large amounts keep every cent.
func FormatAmount(d decimal.Decimal, curr money.Currency) string {
	fixed := round.Fixed(d)

	sign := ""
	if rest, ok := strings.CutPrefix(fixed, "-"); ok {
		sign, fixed = "-", rest
	}

	whole, frac, _ := strings.Cut(fixed, ".")

	return curr.Code() + " " + sign + groupDigits(whole) + "." + frac
}

// groupDigits inserts thousands separators into a run of ASCII digits.
func groupDigits(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return printer.Sprintf("%d", n)
	}

	var b strings.Builder
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}

	return b.String()
}

func FormatOptional(d *decimal.Decimal, curr money.Currency) string {
	if d == nil {
		return "-"
	}

	return FormatAmount(*d, curr)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
