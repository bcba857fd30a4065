package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/query"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DONORBASE"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.tab == TabDashboard {
		s.WriteString(m.renderDashboard())
	} else {
		if m.searching || m.searchInput.Value() != "" {
			s.WriteString(m.searchInput.View())
			s.WriteString("\n")
		}
		s.WriteString(m.renderTable())
		s.WriteString("\n")
		s.WriteString(m.renderStatus())
	}
	s.WriteString("\n")

	s.WriteString(m.renderListHelp())
	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// visible returns the rows of the current tab after search and sort.
func (m Model) visible() ([]models.Contact, error) {
	filter := query.Filter{Query: m.searchInput.Value()}

	var key query.SortKey
	if m.sortIndex >= 0 {
		key = query.SortKeys[m.sortIndex]
	}

	switch m.tab {
	case TabContacts:
		return query.Apply(m.list, filter, key, m.sortDir)
	case TabDonors:
		filter.DonorsOnly = true
		return query.Apply(donors.Profiles(m.list), filter, key, m.sortDir)
	case TabFollowups:
		var due []models.Contact
		for _, f := range contacts.DueFollowUps(m.list, m.contacts.Now()) {
			if filter.Matches(&f.Contact) {
				due = append(due, f.Contact)
			}
		}
		return due, nil
	}
	return nil, nil
}

func (m Model) renderTable() string {
	rows, err := m.visible()
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}

	var columns []table.Column
	var tableRows []table.Row

	switch m.tab {
	case TabContacts:
		columns = []table.Column{
			{Title: "Name", Width: 28},
			{Title: "Organization", Width: 22},
			{Title: "Email", Width: 28},
			{Title: "Complete", Width: 9},
		}
		for _, c := range rows {
			tableRows = append(tableRows, table.Row{
				c.FullName(), c.Organization, c.Email, fmt.Sprintf("%d%%", c.DataCompleteness),
			})
		}

	case TabDonors:
		columns = []table.Column{
			{Title: "Name", Width: 28},
			{Title: "Level", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Gifts", Width: 6},
			{Title: "Last Gift", Width: 11},
			{Title: "Risk", Width: 7},
		}
		for _, c := range rows {
			info := c.DonorInfo
			tableRows = append(tableRows, table.Row{
				c.FullName(), info.GivingLevel, fmt.Sprintf("$%.2f", info.TotalAmount),
				fmt.Sprintf("%d", info.TotalDonations), info.LastDonationDate, info.RetentionRisk,
			})
		}

	case TabFollowups:
		columns = []table.Column{
			{Title: "Name", Width: 28},
			{Title: "Due", Width: 11},
			{Title: "Priority", Width: 10},
			{Title: "Email", Width: 28},
		}
		for _, c := range rows {
			tableRows = append(tableRows, table.Row{c.FullName(), c.NextFollowUp, c.Priority, c.Email})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	if m.selectedRow < len(tableRows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderStatus() string {
	var parts []string
	if m.sortIndex >= 0 {
		parts = append(parts, fmt.Sprintf("sort: %s %s", query.SortKeys[m.sortIndex], m.sortDir))
	}
	if m.message != "" {
		parts = append(parts, m.message)
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"/: Search",
		"s: Sort",
		"r: Reverse",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		rows, _ := m.visible()
		if m.selectedRow < len(rows)-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.viewMode = ViewDetail
		}
	case "/":
		m.searching = true
		m.searchInput.Focus()
	case "s":
		m.sortIndex++
		if m.sortIndex >= len(query.SortKeys) {
			m.sortIndex = -1
		}
		m.selectedRow = 0
	case "r":
		if m.sortDir == query.Ascending {
			m.sortDir = query.Descending
		} else {
			m.sortDir = query.Ascending
		}
	case "esc":
		m.searchInput.SetValue("")
		m.selectedRow = 0
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.selectedRow = 0
	return m, cmd
}

func (m Model) getSelectedID() string {
	rows, err := m.visible()
	if err != nil || m.selectedRow >= len(rows) {
		return ""
	}
	return rows[m.selectedRow].ID
}
