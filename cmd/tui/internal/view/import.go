package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/catalog"
	"github.com/sversluys/walleto/internal/importer"
	"github.com/sversluys/walleto/internal/wallet"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateDefaults importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	walletService  *wallet.Service
	catalogService *catalog.Service
	importService  *importer.Service

	walletID   uuid.UUID
	walletName string

	state      importState
	filePicker filepicker.Model
	form       *huh.Form

	status string
	err    error

	// Form bindings
	formMethod   string
	formPayee    string
	formCategory string
}

func NewImportModel(walletSvc *wallet.Service, catalogSvc *catalog.Service, impSvc *importer.Service, walletID uuid.UUID, walletName string) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		walletService:  walletSvc,
		catalogService: catalogSvc,
		importService:  impSvc,
		walletID:       walletID,
		walletName:     walletName,
		filePicker:     fp,
	}

	form, err := m.buildDefaultsForm()
	if err != nil {
		m.state = importStateResult
		m.err = err
		m.status = fmt.Sprintf("Error: %v", err)
		return m
	}
	m.form = form

	return m
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateDefaults:
		return "Navigate form | Esc: back"
	case importStateResult:
		return "Esc: back to menu"
	}
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Imported %d movements into %s (%d skipped).", msg.imported, m.walletName, msg.skipped)
		return m, nil
	}

	switch m.state {
	case importStateDefaults:
		return m.updateDefaults(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateDefaults
		form, err := m.buildDefaultsForm()
		if err != nil {
			return m, func() tea.Msg { return importResultMsg{err: err} }
		}
		m.form = form
		return m, m.form.Init()
	case importStateResult:
		m.state = importStateDefaults
		m.err = nil
		m.status = ""
		form, err := m.buildDefaultsForm()
		if err != nil {
			return m, func() tea.Msg { return importResultMsg{err: err} }
		}
		m.form = form
		return m, m.form.Init()
	}

	return m, Back
}

func (m ImportModel) buildDefaultsForm() (*huh.Form, error) {
	ctx, cancel := DbCtx()
	defer cancel()

	w, err := m.walletService.GetWallet(ctx, m.walletID)
	if err != nil {
		return nil, err
	}

	methods, err := m.catalogService.List(ctx, catalog.KindFormOfPayment)
	if err != nil {
		return nil, err
	}
	payees, err := m.catalogService.List(ctx, catalog.KindPayee)
	if err != nil {
		return nil, err
	}
	categories, err := m.catalogService.List(ctx, catalog.KindCategory)
	if err != nil {
		return nil, err
	}

	accepted := map[uuid.UUID]struct{}{}
	for _, id := range w.PaymentMethods() {
		accepted[id] = struct{}{}
	}

	methodOpts := make([]huh.Option[string], 0, len(methods))
	for _, e := range methods {
		if _, ok := accepted[e.ID]; !ok {
			continue
		}
		methodOpts = append(methodOpts, huh.NewOption(e.Name, e.ID.String()))
	}
	payeeOpts := make([]huh.Option[string], 0, len(payees))
	for _, e := range payees {
		payeeOpts = append(payeeOpts, huh.NewOption(e.Name, e.ID.String()))
	}
	categoryOpts := make([]huh.Option[string], 0, len(categories))
	for _, e := range categories {
		categoryOpts = append(categoryOpts, huh.NewOption(e.Name, e.ID.String()))
	}

	if len(methodOpts) == 0 || len(payeeOpts) == 0 || len(categoryOpts) == 0 {
		return nil, errors.New("catalog is missing payees, categories or payment methods")
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("method").
				Title("Payment Method for imported rows").
				Options(methodOpts...).
				Value(&m.formMethod),

			huh.NewSelect[string]().
				Key("payee").
				Title("Payee for imported rows").
				Options(payeeOpts...).
				Value(&m.formPayee),

			huh.NewSelect[string]().
				Key("category").
				Title("Category for imported rows").
				Options(categoryOpts...).
				Value(&m.formCategory),
		),
	).WithWidth(50).WithShowHelp(false), nil
}

func (m ImportModel) updateDefaults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.formMethod = m.form.GetString("method")
	m.formPayee = m.form.GetString("payee")
	m.formCategory = m.form.GetString("category")
	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateDefaults:
		if m.form == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Import into %s\n\n%s", m.walletName, m.form.View()),
		)
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select statement file:\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type importResultMsg struct {
	imported int
	skipped  int
	err      error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	method, err := uuid.Parse(m.formMethod)
	if err != nil {
		return func() tea.Msg { return importResultMsg{err: fmt.Errorf("invalid payment method: %w", err)} }
	}
	payee, err := uuid.Parse(m.formPayee)
	if err != nil {
		return func() tea.Msg { return importResultMsg{err: fmt.Errorf("invalid payee: %w", err)} }
	}
	category, err := uuid.Parse(m.formCategory)
	if err != nil {
		return func() tea.Msg { return importResultMsg{err: fmt.Errorf("invalid category: %w", err)} }
	}

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Parse(f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		imported := 0
		skipped := 0
		for _, p := range params {
			p.PaymentMethod = method
			p.Payee = payee
			p.Category = category

			if _, err := m.walletService.AddMovement(ctx, m.walletID, p); err != nil {
				skipped++
				continue
			}
			imported++
		}

		return importResultMsg{imported: imported, skipped: skipped}
	}
}
