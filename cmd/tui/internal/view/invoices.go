package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateDetail
	listStateConfirmDelete
)

type InvoiceListModel struct {
	CommonModel
	svc   *invoice.Service
	owner uuid.UUID

	state    listState
	table    table.Model
	invoices []*invoice.Invoice

	// Filter cycling; index 0 of currencyFilterIdx means every currency.
	currencyFilterIdx int
	timeframe         Timeframe

	filter  invoice.ListFilter
	loading bool
	err     error
	status  string
}

func NewInvoiceListModel(svc *invoice.Service, owner uuid.UUID) InvoiceListModel {
	columns := []table.Column{
		{Title: "Number", Width: 14},
		{Title: "Issued", Width: 12},
		{Title: "Customer", Width: 24},
		{Title: "Total", Width: 18},
		{Title: "Paid", Width: 18},
		{Title: "Balance", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return InvoiceListModel{
		svc:     svc,
		owner:   owner,
		table:   t,
		loading: true,
	}
}

func (m InvoiceListModel) Title() string { return "Invoices" }
func (m InvoiceListModel) ShortHelp() string {
	switch m.state {
	case listStateDetail:
		return "Esc: close"
	case listStateConfirmDelete:
		return "y: delete | n: cancel"
	}

	return "Esc: back | enter: details | d: delete | c: currency filter | t: date filter | r: refresh"
}

func (m InvoiceListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoiceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case deleteInvoiceMsg:
		m.state = listStateBrowse
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Deleted invoice %s", msg.number)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)

	switch m.state {
	case listStateDetail:
		if ok && (keyMsg.String() == "esc" || keyMsg.String() == "enter") {
			m.state = listStateBrowse
			m.table.Focus()
		}

		return m, nil

	case listStateConfirmDelete:
		if !ok {
			return m, nil
		}

		switch keyMsg.String() {
		case "y", "Y":
			return m, m.deleteCmd()
		case "n", "N", "esc":
			m.state = listStateBrowse
			m.table.Focus()
		}

		return m, nil
	}

	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			if m.selected() != nil {
				m.state = listStateDetail
				m.table.Blur()
			}

			return m, nil
		case "d":
			if m.selected() != nil {
				m.state = listStateConfirmDelete
				m.table.Blur()
			}

			return m, nil
		case "c":
			m.currencyFilterIdx = (m.currencyFilterIdx + 1) % (len(invoice.SupportedCurrencies) + 1)
			m.applyFilter(time.Now())

			return m, m.loadCmd()
		case "t":
			m.timeframe = m.timeframe.Next()
			m.applyFilter(time.Now())

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoiceListModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoiceListModel) currencyLabel() string {
	if m.currencyFilterIdx == 0 {
		return "All"
	}

	return invoice.SupportedCurrencies[m.currencyFilterIdx-1].Code()
}

func (m *InvoiceListModel) applyFilter(now time.Time) {
	m.filter.Currency = nil
	if m.currencyFilterIdx > 0 {
		m.filter.Currency = new(invoice.SupportedCurrencies[m.currencyFilterIdx-1])
	}

	m.filter.From, m.filter.To = nil, nil
	if start, end, ok := m.timeframe.DateRange(now); ok {
		m.filter.From = &start
		m.filter.To = &end
	}
}

func (m *InvoiceListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			FormatDate(inv.IssueDate),
			inv.CustomerName,
			FormatAmount(inv.Total, inv.Currency),
			FormatAmount(inv.AmountPaid, inv.Currency),
			FormatAmount(inv.BalanceDue, inv.Currency),
		})
	}

	m.table.SetRows(rows)
}

func (m InvoiceListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [c] Currency: %s | [t] Issued: %s",
		activeStyle(m.currencyLabel()),
		activeStyle(m.timeframe.String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if inv := m.selected(); inv != nil {
		switch m.state {
		case listStateDetail:
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(RenderInvoice(inv)))
		case listStateConfirmDelete:
			content = lipgloss.JoinHorizontal(lipgloss.Top, content,
				panel(fmt.Sprintf("Delete invoice %s for %s?\n\n[y] yes  [n] no", inv.Number, inv.CustomerName)))
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func panel(s string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(56).
		Render(s)
}

// RenderInvoice is the plain-text detail block shared by the list and the
// new-invoice screen.
func RenderInvoice(inv *invoice.Invoice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Invoice %s\n", inv.Number)
	if inv.Title != "" {
		fmt.Fprintf(&b, "%s\n", inv.Title)
	}

	fmt.Fprintf(&b, "\nCustomer: %s\n", inv.CustomerName)
	if inv.CustomerEmail != "" {
		fmt.Fprintf(&b, "Email:    %s\n", inv.CustomerEmail)
	}

	fmt.Fprintf(&b, "Issued:   %s\n", FormatDate(inv.IssueDate))
	if inv.DueDate != nil {
		fmt.Fprintf(&b, "Due:      %s\n", FormatDate(*inv.DueDate))
	}

	b.WriteString("\n")

	for _, item := range inv.Items {
		fmt.Fprintf(&b, "  %s  %s x %s = %s\n",
			item.Description, item.Quantity, item.UnitCost, FormatAmount(item.Amount, inv.Currency))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", FormatAmount(inv.Subtotal, inv.Currency))
	if inv.TaxRate != nil {
		fmt.Fprintf(&b, "Tax %s%%: %s\n", inv.TaxRate.StringFixed(2), FormatOptional(inv.TaxAmount, inv.Currency))
	}

	fmt.Fprintf(&b, "Total:    %s\n", FormatAmount(inv.Total, inv.Currency))
	fmt.Fprintf(&b, "Paid:     %s\n", FormatAmount(inv.AmountPaid, inv.Currency))
	fmt.Fprintf(&b, "Balance:  %s\n", FormatAmount(inv.BalanceDue, inv.Currency))

	if inv.Currency != money.USD && inv.CurrencyUSDRate != nil {
		fmt.Fprintf(&b, "\n1 %s = %s USD\n", inv.Currency.Code(), inv.CurrencyUSDRate.String())
	}

	return b.String()
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoiceListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.svc.List(ctx, m.owner, filter)

		return loadInvoicesMsg{invoices: invoices, err: err}
	}
}

type deleteInvoiceMsg struct {
	number string
	err    error
}

func (m InvoiceListModel) deleteCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteInvoiceMsg{number: inv.Number, err: m.svc.Delete(ctx, m.owner, inv.ID)}
	}
}
