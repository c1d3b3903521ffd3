package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	id, user_id, number, title, issue_date, due_date, terms,
	customer_name, customer_email, customer_address, ship_to, notes, additional_terms,
	currency, subtotal, tax_rate, tax_amount, total, amount_paid, balance_due,
	currency_usd_rate, exchange_rates_snapshot, created_at, updated_at
`

// scanInvoice reads one header row in selectInvoiceColumns order. Items are
// loaded separately.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var title, terms, email, address, shipTo, notes, additional sql.NullString

	var taxRate, taxAmount, usdRate decimal.NullDecimal

	var snapshot []byte

	if err := s.Scan(
		&inv.ID, &inv.UserID, &inv.Number, &title, &inv.IssueDate, &inv.DueDate, &terms,
		&inv.CustomerName, &email, &address, &shipTo, &notes, &additional,
		&inv.Currency, &inv.Subtotal, &taxRate, &taxAmount, &inv.Total, &inv.AmountPaid, &inv.BalanceDue,
		&usdRate, &snapshot, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Title = title.String
	inv.Terms = terms.String
	inv.CustomerEmail = email.String
	inv.CustomerAddress = address.String
	inv.ShipTo = shipTo.String
	inv.Notes = notes.String
	inv.AdditionalTerms = additional.String
	inv.TaxRate = decimalPtr(taxRate)
	inv.TaxAmount = decimalPtr(taxAmount)
	inv.CurrencyUSDRate = decimalPtr(usdRate)

	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &inv.ExchangeRatesSnapshot); err != nil {
			return nil, fmt.Errorf("decoding rates snapshot: %w", err)
		}
	}

	return &inv, nil
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func encodeSnapshot(s invoice.RateSnapshot) (any, error) {
	if s == nil {
		return nil, nil
	}

	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding rates snapshot: %w", err)
	}

	return string(b), nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	snapshot, err := encodeSnapshot(inv.ExchangeRatesSnapshot)
	if err != nil {
		return err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO invoices (
			user_id, number, title, issue_date, due_date, terms,
			customer_name, customer_email, customer_address, ship_to, notes, additional_terms,
			currency, subtotal, tax_rate, tax_amount, total, amount_paid, balance_due,
			currency_usd_rate, exchange_rates_snapshot, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		inv.UserID,
		inv.Number,
		nullString(inv.Title),
		inv.IssueDate,
		inv.DueDate,
		nullString(inv.Terms),
		inv.CustomerName,
		nullString(inv.CustomerEmail),
		nullString(inv.CustomerAddress),
		nullString(inv.ShipTo),
		nullString(inv.Notes),
		nullString(inv.AdditionalTerms),
		inv.Currency,
		inv.Subtotal,
		inv.TaxRate,
		inv.TaxAmount,
		inv.Total,
		inv.AmountPaid,
		inv.BalanceDue,
		inv.CurrencyUSDRate,
		snapshot,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	if err := insertItems(ctx, dbTx, inv); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ReplaceInvoice updates the header and swaps the whole item set. The three
// statements share one transaction so no reader sees an invoice without
// items or with items that disagree with its totals.
func (s *Store) ReplaceInvoice(ctx context.Context, inv *invoice.Invoice) error {
	snapshot, err := encodeSnapshot(inv.ExchangeRatesSnapshot)
	if err != nil {
		return err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE invoices
		SET number = $1, title = $2, issue_date = $3, due_date = $4, terms = $5,
			customer_name = $6, customer_email = $7, customer_address = $8, ship_to = $9,
			notes = $10, additional_terms = $11, currency = $12, subtotal = $13,
			tax_rate = $14, tax_amount = $15, total = $16, amount_paid = $17, balance_due = $18,
			currency_usd_rate = $19, exchange_rates_snapshot = $20, updated_at = NOW()
		WHERE id = $21 AND user_id = $22
		RETURNING updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		inv.Number,
		nullString(inv.Title),
		inv.IssueDate,
		inv.DueDate,
		nullString(inv.Terms),
		inv.CustomerName,
		nullString(inv.CustomerEmail),
		nullString(inv.CustomerAddress),
		nullString(inv.ShipTo),
		nullString(inv.Notes),
		nullString(inv.AdditionalTerms),
		inv.Currency,
		inv.Subtotal,
		inv.TaxRate,
		inv.TaxAmount,
		inv.Total,
		inv.AmountPaid,
		inv.BalanceDue,
		inv.CurrencyUSDRate,
		snapshot,
		inv.ID,
		inv.UserID,
	).Scan(&inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice.ErrNotFound
		}

		return fmt.Errorf("updating invoice: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("deleting items: %w", err)
	}

	if err := insertItems(ctx, dbTx, inv); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_cost, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range inv.Items {
		item := &inv.Items[i]

		err := tx.QueryRowContext(ctx, query,
			inv.ID,
			item.Position,
			item.Description,
			item.Quantity,
			item.UnitCost,
			item.Amount,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("creating item %d: %w", item.Position, err)
		}
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, owner, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE id = $1 AND user_id = $2`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	if err := s.loadItems(ctx, []*invoice.Invoice{inv}); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, owner uuid.UUID, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE user_id = $1`

	args := []any{owner}

	argIdx := 2

	if filter.Currency != nil {
		query += fmt.Sprintf(" AND currency = $%d", argIdx)

		args = append(args, *filter.Currency)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND issue_date >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND issue_date <= $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	query += " ORDER BY issue_date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	if err := s.loadItems(ctx, invoices); err != nil {
		return nil, err
	}

	return invoices, nil
}

// loadItems fills Items for every invoice with a single query.
func (s *Store) loadItems(ctx context.Context, invoices []*invoice.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	byID := lo.KeyBy(invoices, func(inv *invoice.Invoice) uuid.UUID {
		return inv.ID
	})

	ids := lo.Map(invoices, func(inv *invoice.Invoice, _ int) string {
		return inv.ID.String()
	})

	query := `
		SELECT invoice_id, id, position, description, quantity, unit_cost, amount
		FROM invoice_items
		WHERE invoice_id = ANY($1::uuid[])
		ORDER BY invoice_id, position
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID uuid.UUID

		var item invoice.LineItem

		if err := rows.Scan(
			&invoiceID, &item.ID, &item.Position, &item.Description,
			&item.Quantity, &item.UnitCost, &item.Amount,
		); err != nil {
			return fmt.Errorf("scanning item: %w", err)
		}

		if inv, ok := byID[invoiceID]; ok {
			inv.Items = append(inv.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating items: %w", err)
	}

	return nil
}

// DeleteInvoice is a hard delete; items go with it through the foreign key.
func (s *Store) DeleteInvoice(ctx context.Context, owner, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}
