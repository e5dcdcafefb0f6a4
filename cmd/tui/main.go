package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/sversluys/walleto/cmd/tui/internal/view"
	"github.com/sversluys/walleto/internal/catalog"
	catalogStore "github.com/sversluys/walleto/internal/catalog/store"
	"github.com/sversluys/walleto/internal/config"
	"github.com/sversluys/walleto/internal/database"
	"github.com/sversluys/walleto/internal/export"
	"github.com/sversluys/walleto/internal/importer"
	"github.com/sversluys/walleto/internal/wallet"
	walletStore "github.com/sversluys/walleto/internal/wallet/store"
)

type model struct {
	walletService  *wallet.Service
	catalogService *catalog.Service
	importService  *importer.Service
	exportService  *export.Service

	currentView View

	selectedWallet     uuid.UUID
	selectedWalletName string

	walletsView   view.WalletsModel
	movementsView view.MovementsModel
	cashflowView  view.CashflowModel
	importView    view.ImportModel
	catalogView   view.CatalogModel
}

type View int

const (
	ViewMenu      View = 0
	ViewWallets   View = 1
	ViewMovements View = 2
	ViewCashflow  View = 3
	ViewImport    View = 4
	ViewCatalog   View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	walletSvc := wallet.NewService(walletStore.New(db))
	catalogSvc := catalog.NewService(catalogStore.New(db))
	impSvc := importer.NewService()
	expSvc := export.NewService(walletSvc)

	return model{
		walletService:  walletSvc,
		catalogService: catalogSvc,
		importService:  impSvc,
		exportService:  expSvc,
		currentView:    ViewMenu,
		walletsView:    view.NewWalletsModel(walletSvc, catalogSvc),
		catalogView:    view.NewCatalogModel(catalogSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) hasWallet() bool {
	return m.selectedWallet != uuid.Nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewWallets
				m.walletsView = view.NewWalletsModel(m.walletService, m.catalogService)

				return m, m.walletsView.Init()
			case "2":
				if !m.hasWallet() {
					return m, nil
				}
				m.currentView = ViewMovements
				m.movementsView = view.NewMovementsModel(m.walletService, m.catalogService, m.selectedWallet, m.selectedWalletName)

				return m, m.movementsView.Init()
			case "3":
				if !m.hasWallet() {
					return m, nil
				}
				m.currentView = ViewCashflow
				m.cashflowView = view.NewCashflowModel(m.walletService, m.exportService, m.selectedWallet, m.selectedWalletName)

				return m, m.cashflowView.Init()
			case "4":
				if !m.hasWallet() {
					return m, nil
				}
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.walletService, m.catalogService, m.importService, m.selectedWallet, m.selectedWalletName)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewCatalog
				m.catalogView = view.NewCatalogModel(m.catalogService)

				return m, m.catalogView.Init()
			}
		}
	case view.WalletSelectedMsg:
		m.selectedWallet = msg.ID
		m.selectedWalletName = msg.Name
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewWallets:
		var newModel tea.Model
		newModel, cmd = m.walletsView.Update(msg)
		m.walletsView = newModel.(view.WalletsModel)
	case ViewMovements:
		var newModel tea.Model
		newModel, cmd = m.movementsView.Update(msg)
		m.movementsView = newModel.(view.MovementsModel)
	case ViewCashflow:
		var newModel tea.Model
		newModel, cmd = m.cashflowView.Update(msg)
		m.cashflowView = newModel.(view.CashflowModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewCatalog:
		var newModel tea.Model
		newModel, cmd = m.catalogView.Update(msg)
		m.catalogView = newModel.(view.CatalogModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		selected := "none (open Wallets and press Enter)"
		if m.hasWallet() {
			selected = m.selectedWalletName
		}

		return lipgloss.NewStyle().Padding(2).Render(
			"Walleto TUI\n\n" +
				"Wallet: " + selected + "\n\n" +
				"1. Wallets\n" +
				"2. Movements\n" +
				"3. Cash Flow\n" +
				"4. Import Statement\n" +
				"5. Catalog\n\n" +
				"q. Quit",
		)
	case ViewWallets:
		return m.walletsView.View()
	case ViewMovements:
		return m.movementsView.View()
	case ViewCashflow:
		return m.cashflowView.View()
	case ViewImport:
		return m.importView.View()
	case ViewCatalog:
		return m.catalogView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
