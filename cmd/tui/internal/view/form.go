package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

type formState int

const (
	formStateEditing formState = iota
	formStateSaving
	formStateDone
)

// formValues are the raw huh bindings. Pointers keep them stable across the
// value copies bubbletea makes of the model.
type formValues struct {
	number     string
	title      string
	customer   string
	email      string
	currency   string
	issueDate  string
	dueDate    string
	taxRate    string
	amountPaid string
	usdRate    string
	items      string
	notes      string
}

type NewInvoiceModel struct {
	CommonModel
	svc   *invoice.Service
	owner uuid.UUID

	state  formState
	form   *huh.Form
	values *formValues

	result *invoice.Result
	err    error
}

func NewNewInvoiceModel(svc *invoice.Service, owner uuid.UUID) NewInvoiceModel {
	values := &formValues{
		currency:  "USD",
		issueDate: FormatDate(time.Now()),
	}

	currencyOptions := make([]huh.Option[string], 0, len(invoice.SupportedCurrencies))
	for _, c := range invoice.SupportedCurrencies {
		currencyOptions = append(currencyOptions, huh.NewOption(c.Code(), c.Code()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Number").Value(&values.number).Validate(notBlank("number")),
			huh.NewInput().Title("Title").Value(&values.title),
			huh.NewInput().Title("Customer").Value(&values.customer).Validate(notBlank("customer")),
			huh.NewInput().Title("Customer email").Value(&values.email),
			huh.NewSelect[string]().Title("Currency").Options(currencyOptions...).Value(&values.currency),
		),
		huh.NewGroup(
			huh.NewInput().Title("Issue date").Placeholder("YYYY-MM-DD").Value(&values.issueDate).Validate(isDate(true)),
			huh.NewInput().Title("Due date").Placeholder("YYYY-MM-DD, optional").Value(&values.dueDate).Validate(isDate(false)),
			huh.NewInput().Title("Tax rate %").Placeholder("optional").Value(&values.taxRate).Validate(isDecimal),
			huh.NewInput().Title("Amount paid").Placeholder("optional").Value(&values.amountPaid).Validate(isDecimal),
			huh.NewInput().Title("USD per unit").Placeholder("optional").Value(&values.usdRate).Validate(isDecimal),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Items").
				Description("One per line: description; quantity; unit cost").
				Lines(6).
				Value(&values.items).
				Validate(func(s string) error {
					_, err := ParseItemLines(s)
					return err
				}),
			huh.NewText().Title("Notes").Lines(3).Value(&values.notes),
		),
	).WithWidth(60).WithShowHelp(false)

	return NewInvoiceModel{
		svc:    svc,
		owner:  owner,
		form:   form,
		values: values,
	}
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func isDate(required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return errors.New("date is required")
			}

			return nil
		}

		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return errors.New("use YYYY-MM-DD")
		}

		return nil
	}
}

func isDecimal(s string) error {
	_, err := ParseOptionalDecimal(s)
	return err
}

func (m NewInvoiceModel) Title() string { return "New Invoice" }
func (m NewInvoiceModel) ShortHelp() string {
	if m.state == formStateDone {
		return "Esc: back | n: another invoice"
	}

	return "Tab/Enter: next field | Esc: back"
}

func (m NewInvoiceModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m NewInvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createInvoiceMsg:
		m.state = formStateDone
		m.result = msg.result
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			return m, Back
		case m.state == formStateDone && msg.String() == "n":
			fresh := NewNewInvoiceModel(m.svc, m.owner)
			return fresh, fresh.Init()
		}
	}

	if m.state != formStateEditing {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	payload, err := m.values.payload()
	if err != nil {
		m.state = formStateDone
		m.err = err

		return m, nil
	}

	m.state = formStateSaving

	return m, m.createCmd(payload)
}

// payload maps the form onto the engine's input. Aggregates are left out so
// the server computes them.
func (v *formValues) payload() (invoice.Payload, error) {
	items, err := ParseItemLines(v.items)
	if err != nil {
		return invoice.Payload{}, err
	}

	issued, err := time.Parse(time.DateOnly, strings.TrimSpace(v.issueDate))
	if err != nil {
		return invoice.Payload{}, fmt.Errorf("issue date: %w", err)
	}

	p := invoice.Payload{
		Number:        strings.TrimSpace(v.number),
		Title:         v.title,
		IssueDate:     &issued,
		CustomerName:  strings.TrimSpace(v.customer),
		CustomerEmail: strings.TrimSpace(v.email),
		Currency:      v.currency,
		Notes:         v.notes,
		Items:         items,
	}

	if s := strings.TrimSpace(v.dueDate); s != "" {
		due, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return invoice.Payload{}, fmt.Errorf("due date: %w", err)
		}

		p.DueDate = &due
	}

	if p.TaxRate, err = ParseOptionalDecimal(v.taxRate); err != nil {
		return invoice.Payload{}, fmt.Errorf("tax rate: %w", err)
	}

	if p.AmountPaid, err = ParseOptionalDecimal(v.amountPaid); err != nil {
		return invoice.Payload{}, fmt.Errorf("amount paid: %w", err)
	}

	if p.CurrencyUSDRate, err = ParseOptionalDecimal(v.usdRate); err != nil {
		return invoice.Payload{}, fmt.Errorf("usd rate: %w", err)
	}

	return p, nil
}

func (m NewInvoiceModel) View() string {
	switch m.state {
	case formStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving invoice...")
	case formStateDone:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Invoice rejected") +
					"\n\n" + DescribeError(m.err) + "\n\nEsc: back | n: start over")
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("Invoice saved") +
				"\n\n" + panel(RenderInvoice(m.result.Invoice)) + "\n\nEsc: back | n: another invoice")
	}

	return lipgloss.NewStyle().Padding(1).Render("New Invoice\n\n" + m.form.View())
}

// DescribeError lists the engine's issues one per line, falling back to the
// error text for anything else.
func DescribeError(err error) string {
	var e *invoice.Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	lines := []string{e.Message}
	for _, issue := range e.Issues {
		lines = append(lines, fmt.Sprintf("  • %s: %s", issue.Path, issue.Message))
	}

	return strings.Join(lines, "\n")
}

type createInvoiceMsg struct {
	result *invoice.Result
	err    error
}

func (m NewInvoiceModel) createCmd(p invoice.Payload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.svc.Create(ctx, m.owner, p)

		return createInvoiceMsg{result: res, err: err}
	}
}
