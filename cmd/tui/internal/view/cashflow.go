package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/export"
	"github.com/sversluys/walleto/internal/wallet"
)

const exportDir = "./exports"

type CashflowModel struct {
	CommonModel
	walletService *wallet.Service
	exportService *export.Service

	walletID   uuid.UUID
	walletName string
	month      wallet.YearMonth

	summary  wallet.CashFlowSummary
	balances wallet.Balances

	loading bool
	err     error
	status  string
}

func NewCashflowModel(walletSvc *wallet.Service, exportSvc *export.Service, walletID uuid.UUID, walletName string) CashflowModel {
	return CashflowModel{
		walletService: walletSvc,
		exportService: exportSvc,
		walletID:      walletID,
		walletName:    walletName,
		month:         wallet.YearMonthOf(time.Now()),
	}
}

func (m CashflowModel) Title() string { return "Cash Flow" }
func (m CashflowModel) ShortHelp() string {
	return "Esc: back | left/right: month | e: export statement | r: refresh"
}

func (m CashflowModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CashflowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCashflowMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.summary = msg.summary
		m.balances = msg.balances
		return m, nil

	case statementExportedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error exporting: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Wrote %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "left":
			m.month = m.shiftMonth(-1)
			m.loading = true
			return m, m.loadCmd()
		case "right":
			m.month = m.shiftMonth(1)
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m, m.exportCmd()
		}
	}

	return m, nil
}

func (m CashflowModel) shiftMonth(delta int) wallet.YearMonth {
	t := time.Date(m.month.Year, m.month.Month, 1, 0, 0, 0, 0, time.UTC)
	return wallet.YearMonthOf(t.AddDate(0, delta, 0))
}

func (m CashflowModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading cash flow...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	title := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s | %s", m.walletName, m.month.String()),
	)

	rows := [][2]string{
		{"Inflow", FormatAmount(m.summary.Inflow)},
		{"Outflow", FormatAmount(m.summary.Outflow)},
		{"Net", FormatAmount(m.summary.Net)},
		{"", ""},
		{"Expected Inflow", FormatAmount(m.summary.ExpectedInflow)},
		{"Expected Outflow", FormatAmount(m.summary.ExpectedOutflow)},
		{"Expected Net", FormatAmount(m.summary.ExpectedNet)},
		{"", ""},
		{"Balance Today", FormatAmount(m.balances.Actual)},
		{"Expected Balance", FormatAmount(m.balances.Expected)},
	}

	var b strings.Builder
	for _, row := range rows {
		if row[0] == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(fmt.Sprintf("%-18s %12s\n", row[0], row[1]))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(title + "\n\n" + b.String())

	if m.status != "" {
		panel = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + panel
	}

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

// Messages

type loadCashflowMsg struct {
	summary  wallet.CashFlowSummary
	balances wallet.Balances
	err      error
}

func (m CashflowModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.walletService.MonthlyCashFlow(ctx, m.walletID, m.month)
		if err != nil {
			return loadCashflowMsg{err: err}
		}

		balances, err := m.walletService.BalancesOn(ctx, m.walletID, time.Time{})
		if err != nil {
			return loadCashflowMsg{err: err}
		}

		return loadCashflowMsg{summary: summary, balances: balances}
	}
}

type statementExportedMsg struct {
	path string
	err  error
}

func (m CashflowModel) exportCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return statementExportedMsg{err: err}
		}

		name := strings.ToLower(strings.ReplaceAll(m.walletName, " ", "-"))
		path := filepath.Join(exportDir, fmt.Sprintf("statement-%s-%s.csv", name, month.String()))

		f, err := os.Create(path)
		if err != nil {
			return statementExportedMsg{err: err}
		}
		defer f.Close()

		if err := m.exportService.WriteStatement(ctx, f, m.walletID, &month); err != nil {
			return statementExportedMsg{err: err}
		}

		return statementExportedMsg{path: path}
	}
}
