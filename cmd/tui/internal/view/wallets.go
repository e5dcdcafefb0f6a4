package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/catalog"
	"github.com/sversluys/walleto/internal/wallet"
)

// WalletSelectedMsg is emitted when the user picks a wallet to work on.
type WalletSelectedMsg struct {
	ID   uuid.UUID
	Name string
}

type walletsState int

const (
	walletsStateBrowse walletsState = iota
	walletsStateCreate
)

type WalletsModel struct {
	CommonModel
	walletService  *wallet.Service
	catalogService *catalog.Service

	state   walletsState
	table   table.Model
	wallets []*wallet.Wallet
	form    *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formName     string
	formDesc     string
	formCurrency string
	formMethods  []string
}

func NewWalletsModel(walletSvc *wallet.Service, catalogSvc *catalog.Service) WalletsModel {
	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Currency", Width: 8},
		{Title: "Methods", Width: 8},
		{Title: "Description", Width: 40},
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

	return WalletsModel{
		walletService:  walletSvc,
		catalogService: catalogSvc,
		table:          t,
	}
}

func (m WalletsModel) Title() string { return "Wallets" }
func (m WalletsModel) ShortHelp() string {
	if m.state == walletsStateCreate {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | Enter: open | n: new wallet | r: refresh"
}

func (m WalletsModel) Init() tea.Cmd {
	return m.loadWalletsCmd()
}

func (m WalletsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadWalletsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.wallets = msg.wallets
		m.refreshTable()
		return m, nil

	case walletCreatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error creating wallet: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Created wallet %q", msg.name)
		}
		m.state = walletsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadWalletsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case walletsStateBrowse:
		return m.updateBrowse(msg)
	case walletsStateCreate:
		return m.updateCreate(msg)
	}

	return m, nil
}

func (m WalletsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadWalletsCmd()
		case "n":
			return m.enterCreateMode()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.wallets) {
				return m, nil
			}
			w := m.wallets[idx]
			return m, func() tea.Msg {
				return WalletSelectedMsg{ID: w.ID(), Name: w.Name()}
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m WalletsModel) enterCreateMode() (tea.Model, tea.Cmd) {
	ctx, cancel := DbCtx()
	defer cancel()

	methods, err := m.catalogService.List(ctx, catalog.KindFormOfPayment)
	if err != nil {
		m.status = fmt.Sprintf("Error loading payment methods: %v", err)
		return m, nil
	}
	if len(methods) == 0 {
		m.status = "Register a form of payment in the catalog first"
		return m, nil
	}

	options := make([]huh.Option[string], 0, len(methods))
	for _, e := range methods {
		options = append(options, huh.NewOption(e.Name, e.ID.String()))
	}

	m.formName = ""
	m.formDesc = ""
	m.formCurrency = "EUR"
	m.formMethods = nil

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if len(strings.TrimSpace(s)) < 3 {
						return fmt.Errorf("name must have at least 3 characters")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc),

			huh.NewInput().
				Key("currency").
				Title("Currency").
				CharLimit(3).
				Value(&m.formCurrency),

			huh.NewMultiSelect[string]().
				Key("methods").
				Title("Payment Methods").
				Options(options...).
				Value(&m.formMethods).
				Validate(func(vals []string) error {
					if len(vals) == 0 {
						return fmt.Errorf("pick at least one payment method")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = walletsStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m WalletsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = walletsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m WalletsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading wallets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == walletsStateCreate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render("New Wallet\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *WalletsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.wallets))
	for _, w := range m.wallets {
		rows = append(rows, table.Row{
			w.Name(),
			w.Currency(),
			fmt.Sprintf("%d", len(w.PaymentMethods())),
			w.Description(),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadWalletsMsg struct {
	wallets []*wallet.Wallet
	err     error
}

func (m WalletsModel) loadWalletsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ws, err := m.walletService.ListWallets(ctx)
		return loadWalletsMsg{wallets: ws, err: err}
	}
}

type walletCreatedMsg struct {
	name string
	err  error
}

func (m WalletsModel) createCmd() tea.Cmd {
	name := strings.TrimSpace(m.form.GetString("name"))
	desc := strings.TrimSpace(m.form.GetString("description"))
	currency := strings.ToUpper(strings.TrimSpace(m.form.GetString("currency")))

	selected, _ := m.form.Get("methods").([]string)
	methodIDs := make([]uuid.UUID, 0, len(selected))
	for _, raw := range selected {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		methodIDs = append(methodIDs, id)
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.walletService.CreateWallet(ctx, wallet.CreateParams{
			Name:           name,
			Description:    desc,
			Currency:       currency,
			PaymentMethods: methodIDs,
		})
		return walletCreatedMsg{name: name, err: err}
	}
}
