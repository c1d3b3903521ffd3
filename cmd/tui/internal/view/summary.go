package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

type SummaryModel struct {
	CommonModel
	svc   *invoice.Service
	owner uuid.UUID

	table   table.Model
	summary *invoice.Summary
	loading bool
	err     error
}

func NewSummaryModel(svc *invoice.Service, owner uuid.UUID) SummaryModel {
	columns := []table.Column{
		{Title: "Currency", Width: 10},
		{Title: "Count", Width: 7},
		{Title: "Total", Width: 18},
		{Title: "Paid", Width: 18},
		{Title: "Balance", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return SummaryModel{
		svc:     svc,
		owner:   owner,
		table:   t,
		loading: true,
	}
}

func (m SummaryModel) Title() string     { return "Summary" }
func (m SummaryModel) ShortHelp() string { return "r: refresh | Esc: back" }

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSummaryMsg:
		m.loading = false
		m.err = msg.err
		m.summary = msg.summary

		if msg.summary != nil {
			m.table.SetRows(summaryRows(msg.summary))
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func summaryRows(s *invoice.Summary) []table.Row {
	rows := make([]table.Row, 0, len(s.ByCurrency))
	for _, ct := range s.ByCurrency {
		rows = append(rows, table.Row{
			ct.Currency.Code(),
			fmt.Sprint(ct.Count),
			FormatAmount(ct.Total, ct.Currency),
			FormatAmount(ct.AmountPaid, ct.Currency),
			FormatAmount(ct.BalanceDue, ct.Currency),
		})
	}

	return rows
}

func (m SummaryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.summary.Count == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No invoices yet.")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	usd := fmt.Sprintf(
		"In US dollars\n\nTotal:   %s\nPaid:    %s\nBalance: %s",
		FormatAmount(m.summary.USD.Total, money.USD),
		FormatAmount(m.summary.USD.AmountPaid, money.USD),
		FormatAmount(m.summary.USD.BalanceDue, money.USD),
	)
	if m.summary.Unconverted > 0 {
		usd += lipgloss.NewStyle().Faint(true).Render(
			fmt.Sprintf("\n\n%d invoice(s) without a USD rate left out", m.summary.Unconverted))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("%d invoices", m.summary.Count)),
		tableView,
		panel(usd),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type loadSummaryMsg struct {
	summary *invoice.Summary
	err     error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.svc.Summary(ctx, m.owner)

		return loadSummaryMsg{summary: s, err: err}
	}
}
