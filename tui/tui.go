// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides an interactive full-screen browser for contacts and donors
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/query"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewDonation
	ViewGraph
	ViewConfirmDelete
)

// Tab is one of the top-level lists.
type Tab int

const (
	TabContacts Tab = iota
	TabDonors
	TabFollowups
	TabDashboard
)

var tabNames = []string{"Contacts", "Donors", "Follow-ups", "Dashboard"}

// Model is the main bubbletea model
type Model struct {
	contacts *contacts.Service
	donors   *donors.Service

	viewMode ViewMode
	tab      Tab
	list     []models.Contact

	// List view state
	selectedRow int
	searching   bool
	searchInput textinput.Model
	// sortIndex points into query.SortKeys; -1 keeps insertion order.
	sortIndex int
	sortDir   query.Direction

	// Detail view state
	selectedID string

	// Donation form state
	formInputs []textinput.Model
	focusIndex int

	// Graph view state
	graphDOT string

	// Status line shown under the list
	message string

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model and loads the collection.
func NewModel(cs *contacts.Service, ds *donors.Service) Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/ "
	search.CharLimit = 100

	m := Model{
		contacts:    cs,
		donors:      ds,
		viewMode:    ViewList,
		tab:         TabContacts,
		searchInput: search,
		sortIndex:   -1,
		width:       80,
		height:      24,
	}
	m.reload()
	return m
}

func (m *Model) reload() {
	list, err := m.contacts.List(context.Background())
	if err != nil {
		m.err = err
		return
	}
	m.list = list
	m.err = nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewDonation:
		return m.renderDonationView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry owns the keyboard
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	if m.viewMode == ViewDonation {
		return m.handleDonationKeys(msg)
	}

	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
