package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sversluys/walleto/internal/catalog"
	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/wallet"
)

type movementsState int

const (
	movementsStateBrowse movementsState = iota
	movementsStateAdd
)

type MovementsModel struct {
	CommonModel
	walletService  *wallet.Service
	catalogService *catalog.Service

	walletID   uuid.UUID
	walletName string

	state     movementsState
	table     table.Model
	movements []*movement.Movement
	form      *huh.Form

	balances wallet.Balances

	loading bool
	err     error
	status  string

	// Form bindings
	formName      string
	formDesc      string
	formAmount    string
	formDue       string
	formType      string
	formFrequency string
	formCount     string
	formMethod    string
	formPayee     string
	formCategory  string
}

func NewMovementsModel(walletSvc *wallet.Service, catalogSvc *catalog.Service, walletID uuid.UUID, walletName string) MovementsModel {
	columns := []table.Column{
		{Title: "Due", Width: 12},
		{Title: "Name", Width: 28},
		{Title: "Amount", Width: 12},
		{Title: "Kind", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Accomplished", Width: 12},
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

	return MovementsModel{
		walletService:  walletSvc,
		catalogService: catalogSvc,
		walletID:       walletID,
		walletName:     walletName,
		table:          t,
	}
}

func (m MovementsModel) Title() string { return "Movements" }
func (m MovementsModel) ShortHelp() string {
	if m.state == movementsStateAdd {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: add | c: confirm | x: remove | r: refresh"
}

func (m MovementsModel) Init() tea.Cmd {
	return m.loadMovementsCmd()
}

func (m MovementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMovementsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.movements = msg.movements
		m.balances = msg.balances
		m.refreshTable()
		return m, nil

	case movementSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.done
		}
		m.state = movementsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadMovementsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case movementsStateBrowse:
		return m.updateBrowse(msg)
	case movementsStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m MovementsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadMovementsCmd()
		case "a":
			return m.enterAddMode()
		case "c":
			if mv := m.selected(); mv != nil {
				return m, m.confirmCmd(mv)
			}
		case "x":
			if mv := m.selected(); mv != nil {
				return m, m.removeCmd(mv)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m MovementsModel) selected() *movement.Movement {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.movements) {
		return nil
	}
	return m.movements[idx]
}

func (m MovementsModel) enterAddMode() (tea.Model, tea.Cmd) {
	ctx, cancel := DbCtx()
	defer cancel()

	w, err := m.walletService.GetWallet(ctx, m.walletID)
	if err != nil {
		m.status = fmt.Sprintf("Error loading wallet: %v", err)
		return m, nil
	}

	methodOpts, err := m.catalogOptions(ctx, catalog.KindFormOfPayment, w.PaymentMethods())
	if err != nil {
		m.status = fmt.Sprintf("Error loading payment methods: %v", err)
		return m, nil
	}
	payeeOpts, err := m.catalogOptions(ctx, catalog.KindPayee, nil)
	if err != nil {
		m.status = fmt.Sprintf("Error loading payees: %v", err)
		return m, nil
	}
	categoryOpts, err := m.catalogOptions(ctx, catalog.KindCategory, nil)
	if err != nil {
		m.status = fmt.Sprintf("Error loading categories: %v", err)
		return m, nil
	}

	if len(methodOpts) == 0 || len(payeeOpts) == 0 || len(categoryOpts) == 0 {
		m.status = "Catalog is missing payees, categories or payment methods"
		return m, nil
	}

	m.formName = ""
	m.formDesc = ""
	m.formAmount = ""
	m.formDue = FormatDate(time.Now())
	m.formType = string(movement.TypeDebit)
	m.formFrequency = string(movement.FrequencyNone)
	m.formCount = ""
	m.formMethod = ""
	m.formPayee = ""
	m.formCategory = ""

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
				Key("amount").
				Title("Amount").
				Placeholder("42.50").
				Value(&m.formAmount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("invalid amount")
					}
					if d.IsZero() {
						return fmt.Errorf("amount cannot be zero")
					}
					return nil
				}),

			huh.NewInput().
				Key("due").
				Title("Due Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDue).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("invalid date (YYYY-MM-DD)")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Debit", string(movement.TypeDebit)),
					huh.NewOption("Credit", string(movement.TypeCredit)),
				).
				Value(&m.formType),

			huh.NewSelect[string]().
				Key("frequency").
				Title("Frequency").
				Options(
					huh.NewOption("One-off", string(movement.FrequencyNone)),
					huh.NewOption("Weekly", string(movement.FrequencyWeekly)),
					huh.NewOption("Fortnightly", string(movement.FrequencyFortnightly)),
					huh.NewOption("Monthly", string(movement.FrequencyMonthly)),
					huh.NewOption("Quarterly", string(movement.FrequencyQuarterly)),
					huh.NewOption("Yearly", string(movement.FrequencyYearly)),
				).
				Value(&m.formFrequency),

			huh.NewInput().
				Key("installments").
				Title("Installments").
				Placeholder("leave empty unless splitting").
				Value(&m.formCount).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					n, err := strconv.Atoi(s)
					if err != nil || n < 2 {
						return fmt.Errorf("installments must be a number >= 2")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("method").
				Title("Payment Method").
				Options(methodOpts...).
				Value(&m.formMethod),

			huh.NewSelect[string]().
				Key("payee").
				Title("Payee").
				Options(payeeOpts...).
				Value(&m.formPayee),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOpts...).
				Value(&m.formCategory),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = movementsStateAdd
	m.table.Blur()
	return m, m.form.Init()
}

// catalogOptions lists a catalog kind as huh options. When allowed is not
// nil, entries outside it are filtered out.
func (m MovementsModel) catalogOptions(ctx context.Context, kind catalog.Kind, allowed []uuid.UUID) ([]huh.Option[string], error) {
	entries, err := m.catalogService.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	allowedSet := map[uuid.UUID]struct{}{}
	for _, id := range allowed {
		allowedSet[id] = struct{}{}
	}

	options := make([]huh.Option[string], 0, len(entries))
	for _, e := range entries {
		if allowed != nil {
			if _, ok := allowedSet[e.ID]; !ok {
				continue
			}
		}
		options = append(options, huh.NewOption(e.Name, e.ID.String()))
	}
	return options, nil
}

func (m MovementsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = movementsStateBrowse
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

	return m, m.saveCmd()
}

func (m MovementsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading movements...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"%s | Balance: %s | Expected: %s",
		m.walletName,
		FormatAmount(m.balances.Actual),
		FormatAmount(m.balances.Expected),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == movementsStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render("New Movement\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *MovementsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.movements))
	for _, mv := range m.movements {
		if !mv.Active() {
			continue
		}

		kind := "common"
		switch {
		case mv.IsRecurrent():
			kind = string(mv.Frequency())
		case mv.IsInstallment():
			kind = "installment"
		}

		status := "pending"
		accomplished := ""
		if mv.Accomplished() {
			status = "done"
			if d, ok := mv.AccomplishDate(); ok {
				accomplished = FormatDate(d)
			}
		}

		rows = append(rows, table.Row{
			FormatDate(mv.DueDate()),
			mv.Name(),
			FormatAmount(mv.Amount()),
			kind,
			status,
			accomplished,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadMovementsMsg struct {
	movements []*movement.Movement
	balances  wallet.Balances
	err       error
}

func (m MovementsModel) loadMovementsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		mvs, err := m.walletService.Movements(ctx, m.walletID)
		if err != nil {
			return loadMovementsMsg{err: err}
		}

		balances, err := m.walletService.BalancesOn(ctx, m.walletID, time.Time{})
		if err != nil {
			return loadMovementsMsg{err: err}
		}

		return loadMovementsMsg{movements: mvs, balances: balances}
	}
}

type movementSavedMsg struct {
	done string
	err  error
}

func (m MovementsModel) confirmCmd(mv *movement.Movement) tea.Cmd {
	id := mv.ID()
	name := mv.Name()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.walletService.ConfirmMovement(ctx, m.walletID, id, time.Time{}); err != nil {
			return movementSavedMsg{err: err}
		}
		return movementSavedMsg{done: fmt.Sprintf("Confirmed %q", name)}
	}
}

func (m MovementsModel) removeCmd(mv *movement.Movement) tea.Cmd {
	id := mv.ID()
	name := mv.Name()
	isInstallment := mv.IsInstallment()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if isInstallment {
			err = m.walletService.RemoveInstallment(ctx, m.walletID, id, wallet.HandleJustThisOne)
		} else {
			err = m.walletService.RemoveMovement(ctx, m.walletID, id)
		}
		if err != nil {
			return movementSavedMsg{err: err}
		}
		return movementSavedMsg{done: fmt.Sprintf("Removed %q", name)}
	}
}

func (m MovementsModel) saveCmd() tea.Cmd {
	params, count, freq, err := m.formParams()
	if err != nil {
		return func() tea.Msg { return movementSavedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if count >= 2 {
			if _, err := m.walletService.AddInstallment(ctx, m.walletID, params, freq, count); err != nil {
				return movementSavedMsg{err: err}
			}
			return movementSavedMsg{done: fmt.Sprintf("Added %d installments of %q", count, params.Name)}
		}

		if _, err := m.walletService.AddMovement(ctx, m.walletID, params); err != nil {
			return movementSavedMsg{err: err}
		}
		return movementSavedMsg{done: fmt.Sprintf("Added %q", params.Name)}
	}
}

func (m MovementsModel) formParams() (movement.Params, int, movement.Frequency, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("amount")))
	if err != nil {
		return movement.Params{}, 0, "", fmt.Errorf("invalid amount: %w", err)
	}

	due, err := time.Parse("2006-01-02", strings.TrimSpace(m.form.GetString("due")))
	if err != nil {
		return movement.Params{}, 0, "", fmt.Errorf("invalid due date: %w", err)
	}

	method, err := uuid.Parse(m.form.GetString("method"))
	if err != nil {
		return movement.Params{}, 0, "", fmt.Errorf("invalid payment method: %w", err)
	}
	payee, err := uuid.Parse(m.form.GetString("payee"))
	if err != nil {
		return movement.Params{}, 0, "", fmt.Errorf("invalid payee: %w", err)
	}
	category, err := uuid.Parse(m.form.GetString("category"))
	if err != nil {
		return movement.Params{}, 0, "", fmt.Errorf("invalid category: %w", err)
	}

	count := 0
	if s := strings.TrimSpace(m.form.GetString("installments")); s != "" {
		count, err = strconv.Atoi(s)
		if err != nil {
			return movement.Params{}, 0, "", fmt.Errorf("invalid installment count: %w", err)
		}
	}

	freq := movement.Frequency(m.form.GetString("frequency"))
	params := movement.Params{
		Name:          strings.TrimSpace(m.form.GetString("name")),
		Description:   strings.TrimSpace(m.form.GetString("description")),
		Amount:        amount,
		DueDate:       due,
		PaymentMethod: method,
		Payee:         payee,
		Category:      category,
		Type:          movement.Type(m.form.GetString("type")),
		Frequency:     freq,
	}

	if count >= 2 {
		if !freq.Repeats() {
			freq = movement.FrequencyMonthly
		}
		params.Frequency = movement.FrequencyNone
	}

	return params, count, freq, nil
}
