package invoice

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Payload is the client's create/update request. Aggregate fields are
// optional claims checked against the computed values.
type Payload struct {
	Number          string     `json:"number" validate:"required,max=64"`
	Title           string     `json:"title"`
	IssueDate       *time.Time `json:"issueDate" validate:"required"`
	DueDate         *time.Time `json:"dueDate"`
	Terms           string     `json:"terms"`
	CustomerName    string     `json:"customerName" validate:"required"`
	CustomerEmail   string     `json:"customerEmail" validate:"omitempty,email"`
	CustomerAddress string     `json:"customerAddress"`
	ShipTo          string     `json:"shipTo"`
	Currency        string     `json:"currency" validate:"required,oneof=USD EUR CDF GBP CAD"`

	Subtotal   *decimal.Decimal `json:"subtotal"`
	TaxRate    *decimal.Decimal `json:"taxRate"`
	TaxAmount  *decimal.Decimal `json:"taxAmount"`
	Total      *decimal.Decimal `json:"total"`
	AmountPaid *decimal.Decimal `json:"amountPaid"`
	BalanceDue *decimal.Decimal `json:"balanceDue"`

	Notes           string `json:"notes"`
	AdditionalTerms string `json:"additionalTerms"`

	CurrencyUSDRate       *decimal.Decimal `json:"currencyUsdRate"`
	ExchangeRatesSnapshot RateSnapshot     `json:"exchangeRatesSnapshot"`

	Items []ItemPayload `json:"items" validate:"dive"`
}

// ItemPayload is one raw line item. Amount is accepted but never trusted.
type ItemPayload struct {
	Description string           `json:"description" validate:"max=500"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unitCost"`
	Amount      *decimal.Decimal `json:"amount"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks the payload shape. Every failing field becomes one Issue of
// a single KindBadRequest error.
func (p *Payload) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating payload: %w", err)
	}

	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{
			Path:    fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}

	return badRequest("invalid invoice payload", issues...)
}

// fieldPath turns "Payload.items[0].description" into "items.0.description".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}

	return strings.NewReplacer("[", ".", "]", "").Replace(namespace)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}

	return "is invalid"
}
