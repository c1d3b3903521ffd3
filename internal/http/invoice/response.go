package invoice

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
	"github.com/MrJamesThe3rd/openfacture/internal/round"
)

// Amounts are rendered as JSON numbers with a fixed number of decimals, so
// 125 goes out as 125.00.
func fixed(d decimal.Decimal) json.Number {
	return json.Number(round.Fixed(d))
}

func fixedPtr(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}

	return new(fixed(*d))
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// numberPtr keeps every decimal the client sent.
func numberPtr(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}

	return new(number(*d))
}

type itemResponse struct {
	ID          uuid.UUID   `json:"id"`
	Position    int         `json:"position"`
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	UnitCost    json.Number `json:"unitCost"`
	Amount      json.Number `json:"amount"`
}

type invoiceResponse struct {
	ID                    uuid.UUID            `json:"id"`
	Number                string               `json:"number"`
	Title                 string               `json:"title,omitempty"`
	IssueDate             time.Time            `json:"issueDate"`
	DueDate               *time.Time           `json:"dueDate,omitempty"`
	Terms                 string               `json:"terms,omitempty"`
	CustomerName          string               `json:"customerName"`
	CustomerEmail         string               `json:"customerEmail,omitempty"`
	CustomerAddress       string               `json:"customerAddress,omitempty"`
	ShipTo                string               `json:"shipTo,omitempty"`
	Notes                 string               `json:"notes,omitempty"`
	AdditionalTerms       string               `json:"additionalTerms,omitempty"`
	Currency              string               `json:"currency"`
	Subtotal              json.Number          `json:"subtotal"`
	TaxRate               *json.Number         `json:"taxRate"`
	TaxAmount             *json.Number         `json:"taxAmount"`
	Total                 json.Number          `json:"total"`
	AmountPaid            json.Number          `json:"amountPaid"`
	BalanceDue            json.Number          `json:"balanceDue"`
	CurrencyUSDRate       *json.Number         `json:"currencyUsdRate"`
	ExchangeRatesSnapshot invoice.RateSnapshot `json:"exchangeRatesSnapshot,omitempty"`
	Items                 []itemResponse       `json:"items"`
	CreatedAt             time.Time            `json:"createdAt"`
	UpdatedAt             time.Time            `json:"updatedAt"`
}

type computedResponse struct {
	Subtotal   json.Number  `json:"subtotal"`
	TaxRate    *json.Number `json:"taxRate"`
	TaxAmount  json.Number  `json:"taxAmount"`
	Total      json.Number  `json:"total"`
	AmountPaid json.Number  `json:"amountPaid"`
	BalanceDue json.Number  `json:"balanceDue"`
}

type resultResponse struct {
	Invoice  invoiceResponse  `json:"invoice"`
	Computed computedResponse `json:"computed"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:                    inv.ID,
		Number:                inv.Number,
		Title:                 inv.Title,
		IssueDate:             inv.IssueDate,
		DueDate:               inv.DueDate,
		Terms:                 inv.Terms,
		CustomerName:          inv.CustomerName,
		CustomerEmail:         inv.CustomerEmail,
		CustomerAddress:       inv.CustomerAddress,
		ShipTo:                inv.ShipTo,
		Notes:                 inv.Notes,
		AdditionalTerms:       inv.AdditionalTerms,
		Currency:              inv.Currency.Code(),
		Subtotal:              fixed(inv.Subtotal),
		TaxRate:               fixedPtr(inv.TaxRate),
		TaxAmount:             fixedPtr(inv.TaxAmount),
		Total:                 fixed(inv.Total),
		AmountPaid:            fixed(inv.AmountPaid),
		BalanceDue:            fixed(inv.BalanceDue),
		ExchangeRatesSnapshot: inv.ExchangeRatesSnapshot,
		Items:                 make([]itemResponse, len(inv.Items)),
		CreatedAt:             inv.CreatedAt,
		UpdatedAt:             inv.UpdatedAt,
	}

	if inv.CurrencyUSDRate != nil {
		resp.CurrencyUSDRate = new(json.Number(inv.CurrencyUSDRate.StringFixed(round.RateScale)))
	}

	for i, item := range inv.Items {
		resp.Items[i] = itemResponse{
			ID:          item.ID,
			Position:    item.Position,
			Description: item.Description,
			Quantity:    number(item.Quantity),
			UnitCost:    number(item.UnitCost),
			Amount:      fixed(item.Amount),
		}
	}

	return resp
}

func toComputed(c invoice.Computed) computedResponse {
	return computedResponse{
		Subtotal:   fixed(c.Subtotal),
		TaxRate:    numberPtr(c.TaxRate),
		TaxAmount:  fixed(c.TaxAmount),
		Total:      fixed(c.Total),
		AmountPaid: fixed(c.AmountPaid),
		BalanceDue: fixed(c.BalanceDue),
	}
}

func toResult(res *invoice.Result) resultResponse {
	return resultResponse{
		Invoice:  toResponse(res.Invoice),
		Computed: toComputed(res.Computed),
	}
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}

type totalsResponse struct {
	Total      json.Number `json:"total"`
	AmountPaid json.Number `json:"amountPaid"`
	BalanceDue json.Number `json:"balanceDue"`
}

type currencyTotalsResponse struct {
	Currency string `json:"currency"`
	Count    int    `json:"count"`
	totalsResponse
}

type summaryResponse struct {
	TotalInvoices int                      `json:"totalInvoices"`
	ByCurrency    []currencyTotalsResponse `json:"byCurrency"`
	USD           totalsResponse           `json:"usd"`
	Unconverted   int                      `json:"unconverted"`
}

func toTotals(t invoice.Totals) totalsResponse {
	return totalsResponse{
		Total:      fixed(t.Total),
		AmountPaid: fixed(t.AmountPaid),
		BalanceDue: fixed(t.BalanceDue),
	}
}

func toSummary(s *invoice.Summary) summaryResponse {
	resp := summaryResponse{
		TotalInvoices: s.Count,
		ByCurrency:    make([]currencyTotalsResponse, len(s.ByCurrency)),
		USD:           toTotals(s.USD),
		Unconverted:   s.Unconverted,
	}

	for i, ct := range s.ByCurrency {
		resp.ByCurrency[i] = currencyTotalsResponse{
			Currency:       ct.Currency.Code(),
			Count:          ct.Count,
			totalsResponse: toTotals(ct.Totals),
		}
	}

	return resp
}
