// Package tui is the terminal browser for the brewery catalog.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/detail"
	"brewery-catalog/internal/listing"
	"brewery-catalog/internal/model"
)

// Catalog is the upstream client as seen by the browser.
type Catalog interface {
	listing.Fetcher
	detail.Getter
}

type screen int

const (
	screenList screen = iota
	screenDetail
)

// listMsg carries the list state after a synchronizer operation finished.
type listMsg struct {
	state listing.State
}

// detailMsg carries the detail state after a load finished.
type detailMsg struct {
	state detail.State
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	syncer  *listing.Synchronizer
	details *detail.Fetcher
	logger  *zap.Logger

	screen   screen
	list     listing.State
	detail   detail.State
	inflight int

	table   table.Model
	search  textinput.Model
	spinner spinner.Model
	styles  Styles
	width   int
}

// New creates the browser model. ctx bounds every upstream request.
func New(ctx context.Context, c Catalog, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := DefaultStyles()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 36},
			{Title: "City", Width: 18},
			{Title: "State", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(catalog.PageSize+1),
		table.WithStyles(styles.Table),
	)

	ti := textinput.New()
	ti.Placeholder = "Find a brewery"
	ti.Prompt = "Search: "
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Primary)

	syncer := listing.NewSynchronizer(c, logger)
	return Model{
		ctx:     ctx,
		syncer:  syncer,
		details: detail.NewFetcher(c, logger),
		logger:  logger,
		list:    syncer.Snapshot(),
		table:   t,
		search:  ti,
		spinner: sp,
		styles:  styles,
		// Init always starts with the mount.
		inflight: 1,
	}
}

// Init mounts the list view.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runList(m.syncer.Mount))
}

// runList runs a synchronizer operation off the UI goroutine. Failures are
// recorded in the synchronizer's alert, so the error itself is dropped.
func (m Model) runList(op func(context.Context) error) tea.Cmd {
	syncer, ctx := m.syncer, m.ctx
	return func() tea.Msg {
		_ = op(ctx)
		return listMsg{state: syncer.Snapshot()}
	}
}

func (m Model) runDetail(id string) tea.Cmd {
	details, ctx := m.details, m.ctx
	return func() tea.Msg {
		state, _ := details.Load(ctx, id)
		return detailMsg{state: state}
	}
}

// start marks a request in flight and keeps the spinner turning.
func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.inflight++
	if m.inflight == 1 {
		return tea.Batch(m.spinner.Tick, cmd)
	}
	return cmd
}

func (m *Model) finish() {
	if m.inflight > 0 {
		m.inflight--
	}
}

// Loading reports whether a request is still in flight.
func (m Model) Loading() bool {
	return m.inflight > 0
}

func (m Model) alert() string {
	if m.screen == screenDetail && m.detail.Alert != "" {
		return m.detail.Alert
	}
	return m.list.Alert
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listMsg:
		m.finish()
		m.list = msg.state
		m.table.SetRows(rows(msg.state.Breweries))
		m.table.SetCursor(0)
		return m, nil

	case detailMsg:
		m.finish()
		// A slow response for a brewery the user already left is dropped.
		if msg.state.ID != m.detail.ID {
			return m, nil
		}
		m.detail = msg.state
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The alert blocks everything else until a key acknowledges it.
	if m.alert() != "" {
		if m.screen == screenDetail && m.detail.Alert != "" {
			m.details.DismissAlert()
			m.detail = m.details.Snapshot()
		} else {
			m.syncer.DismissAlert()
			m.list = m.syncer.Snapshot()
		}
		return m, nil
	}

	if m.screen == screenDetail {
		switch msg.String() {
		case "esc", "backspace", "h":
			m.screen = screenList
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.table.Blur()
		return m, m.search.Focus()
	case "enter":
		row := m.table.Cursor()
		if row < 0 || row >= len(m.list.Breweries) {
			return m, nil
		}
		m.screen = screenDetail
		id := m.list.Breweries[row].ID
		if m.detail.ID != id {
			m.detail = detail.State{ID: id, Loading: true}
		}
		return m, m.start(m.runDetail(id))
	case "ctrl+r":
		m.search.SetValue("")
		return m, m.start(m.runList(m.syncer.Reset))
	case "n", "right":
		if !m.list.HasNextPage {
			return m, nil
		}
		return m, m.start(m.runList(m.syncer.NextPage))
	case "p", "left":
		if !m.list.HasPrevPage() {
			return m, nil
		}
		return m, m.start(m.runList(m.syncer.PrevPage))
	case "s":
		dir := m.list.Sort.Toggle()
		return m, m.start(m.runList(func(ctx context.Context) error {
			return m.syncer.SetSort(ctx, dir)
		}))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.table.Focus()
		return m, m.start(m.runList(m.syncer.Submit))
	case "esc":
		m.search.Blur()
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// Typing only records the text; nothing is fetched until submit.
	m.syncer.SetSearchText(m.search.Value())
	m.list.Search = m.search.Value()
	return m, cmd
}

func rows(breweries []model.Brewery) []table.Row {
	out := make([]table.Row, 0, len(breweries))
	for _, b := range breweries {
		out = append(out, table.Row{b.Name, b.City, b.State})
	}
	return out
}

// View renders the current screen.
func (m Model) View() string {
	var sb strings.Builder
	if m.screen == screenDetail {
		sb.WriteString(m.detailView())
	} else {
		sb.WriteString(m.listView())
	}

	if m.Loading() {
		sb.WriteString("\n" + m.spinner.View() + " Loading...")
	}
	if msg := m.alert(); msg != "" {
		box := m.styles.Alert.Render(msg + "\n\n" + m.styles.Help.Render("press any key to dismiss"))
		sb.WriteString("\n" + box)
	}
	return sb.String() + "\n"
}

func (m Model) listView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Brewery Catalog") + "\n")
	sb.WriteString(m.search.View() + "\n\n")

	if len(m.list.Breweries) == 0 {
		sb.WriteString(m.styles.Empty.Render("Uh oh! No breweries found!") + "\n")
	} else {
		sb.WriteString(m.table.View() + "\n")
	}

	prev, next := "[p] Prev", "[n] Next"
	if !m.list.HasPrevPage() {
		prev = m.styles.Disabled.Render(prev)
	}
	if !m.list.HasNextPage {
		next = m.styles.Disabled.Render(next)
	}
	arrow := "↑"
	if m.list.Sort == model.SortDesc {
		arrow = "↓"
	}
	sb.WriteString(fmt.Sprintf("\n%s  Page %d  %s   Name %s\n", prev, m.list.Page, next, arrow))
	sb.WriteString(m.styles.Help.Render("/ search • enter open • ctrl+r reset • s sort • q quit"))
	return sb.String()
}

func (m Model) detailView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Brewery Details") + "\n")

	switch b := m.detail.Brewery; {
	case b != nil:
		website := "No website found."
		if w := b.Website(); w != "" {
			website = w
		}
		for _, field := range [][2]string{
			{"Name", b.Name},
			{"Location", b.Location()},
			{"Phone Number", b.PhoneNumber()},
			{"Website", website},
		} {
			sb.WriteString(m.styles.Label.Render(field[0]) + field[1] + "\n")
		}
	case m.detail.NotFound:
		sb.WriteString(m.styles.Empty.Render("Uh oh! Brewery not found!") + "\n")
	}

	sb.WriteString("\n" + m.styles.Help.Render("esc back • q quit"))
	return sb.String()
}
