package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/MrJamesThe3rd/openfacture/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/openfacture/internal/config"
	"github.com/MrJamesThe3rd/openfacture/internal/database"
	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/openfacture/internal/invoice/store"
	"github.com/MrJamesThe3rd/openfacture/internal/logger"
)

type model struct {
	svc   *invoice.Service
	owner uuid.UUID

	currentView View

	listView    view.InvoiceListModel
	newView     view.NewInvoiceModel
	summaryView view.SummaryModel
}

type View int

const (
	ViewMenu    View = 0
	ViewList    View = 1
	ViewNew     View = 2
	ViewSummary View = 3
)

func initialModel(svc *invoice.Service, owner uuid.UUID) model {
	return model{
		svc:         svc,
		owner:       owner,
		currentView: ViewMenu,
		listView:    view.NewInvoiceListModel(svc, owner),
		newView:     view.NewNewInvoiceModel(svc, owner),
		summaryView: view.NewSummaryModel(svc, owner),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewList
				m.listView = view.NewInvoiceListModel(m.svc, m.owner)

				return m, m.listView.Init()
			case "2":
				m.currentView = ViewNew
				m.newView = view.NewNewInvoiceModel(m.svc, m.owner)

				return m, m.newView.Init()
			case "3":
				m.currentView = ViewSummary
				m.summaryView = view.NewSummaryModel(m.svc, m.owner)

				return m, m.summaryView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.InvoiceListModel)
	case ViewNew:
		var newModel tea.Model
		newModel, cmd = m.newView.Update(msg)
		m.newView = newModel.(view.NewInvoiceModel)
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"OpenFacture\n\n" +
				"1. Invoices\n" +
				"2. New Invoice\n" +
				"3. Summary\n\n" +
				"q. Quit",
		)
	case ViewList:
		return m.listView.View()
	case ViewNew:
		return m.newView.View()
	case ViewSummary:
		return m.summaryView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// the terminal belongs to bubbletea, so logs go to a file
	logFile, err := tea.LogToFile("openfacture-tui.log", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger.NewWithWriter(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}, logFile)

	owner, err := cfg.TUIOwner()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid TUI owner")
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	engineCfg := invoice.DefaultConfig()
	engineCfg.Tolerance = cfg.Billing.Tolerance

	svc := invoice.NewService(invoiceStore.New(db), invoice.NewEngine(engineCfg))

	p := tea.NewProgram(initialModel(svc, owner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run TUI")
		os.Exit(1)
	}
}
