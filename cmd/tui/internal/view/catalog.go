package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sversluys/walleto/internal/catalog"
)

type catalogState int

const (
	catalogStateBrowse catalogState = iota
	catalogStateCreate
)

var catalogKinds = []catalog.Kind{
	catalog.KindPayee,
	catalog.KindCategory,
	catalog.KindFormOfPayment,
}

func kindLabel(k catalog.Kind) string {
	switch k {
	case catalog.KindPayee:
		return "Payees"
	case catalog.KindCategory:
		return "Categories"
	case catalog.KindFormOfPayment:
		return "Forms of Payment"
	}
	return string(k)
}

type CatalogModel struct {
	CommonModel
	catalogService *catalog.Service

	state   catalogState
	kindIdx int
	table   table.Model
	entries []*catalog.Entry
	form    *huh.Form

	loading bool
	err     error
	status  string

	formName string
}

func NewCatalogModel(catalogSvc *catalog.Service) CatalogModel {
	columns := []table.Column{
		{Title: "Name", Width: 40},
		{Title: "ID", Width: 36},
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

	return CatalogModel{
		catalogService: catalogSvc,
		table:          t,
	}
}

func (m CatalogModel) kind() catalog.Kind { return catalogKinds[m.kindIdx] }

func (m CatalogModel) Title() string { return "Catalog" }
func (m CatalogModel) ShortHelp() string {
	if m.state == catalogStateCreate {
		return "Enter: save | Esc: cancel"
	}
	return "Esc: back | tab: switch kind | n: new | x: delete | r: refresh"
}

func (m CatalogModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCatalogMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.refreshTable()
		return m, nil

	case catalogSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.done
		}
		m.state = catalogStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case catalogStateBrowse:
		return m.updateBrowse(msg)
	case catalogStateCreate:
		return m.updateCreate(msg)
	}

	return m, nil
}

func (m CatalogModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "tab":
			m.kindIdx = (m.kindIdx + 1) % len(catalogKinds)
			m.loading = true
			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			m.formName = ""
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
				),
			).WithWidth(45).WithShowHelp(false)
			m.state = catalogStateCreate
			m.table.Blur()
			return m, m.form.Init()
		case "x":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.entries) {
				return m, nil
			}
			return m, m.deleteCmd(m.entries[idx])
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m CatalogModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = catalogStateBrowse
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

	return m, m.createCmd(strings.TrimSpace(m.form.GetString("name")))
}

func (m CatalogModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading catalog...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := "Kind: " + lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(kindLabel(m.kind()))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == catalogStateCreate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New "+kindLabel(m.kind())+"\n\n"+m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CatalogModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{e.Name, e.ID.String()})
	}
	m.table.SetRows(rows)
}

// Messages

type loadCatalogMsg struct {
	entries []*catalog.Entry
	err     error
}

func (m CatalogModel) loadCmd() tea.Cmd {
	kind := m.kind()
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.catalogService.List(ctx, kind)
		return loadCatalogMsg{entries: entries, err: err}
	}
}

type catalogSavedMsg struct {
	done string
	err  error
}

func (m CatalogModel) createCmd(name string) tea.Cmd {
	kind := m.kind()
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.catalogService.Create(ctx, kind, name); err != nil {
			return catalogSavedMsg{err: err}
		}
		return catalogSavedMsg{done: fmt.Sprintf("Created %q", name)}
	}
}

func (m CatalogModel) deleteCmd(e *catalog.Entry) tea.Cmd {
	kind := m.kind()
	id := e.ID
	name := e.Name
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.catalogService.Delete(ctx, kind, id); err != nil {
			return catalogSavedMsg{err: err}
		}
		return catalogSavedMsg{done: fmt.Sprintf("Deleted %q", name)}
	}
}
