// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Removes a contact and its donation history after a confirmation dialog
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	c, err := m.selectedContact()
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error loading contact: %v", err))
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := "Are you sure you want to delete this contact?"
	entityInfo := fmt.Sprintf("\nCONTACT: %s\n", c.FullName())
	if c.DonorInfo != nil && len(c.DonorInfo.Donations) > 0 {
		entityInfo += fmt.Sprintf("%d donation(s) totalling $%.2f will be removed\n",
			len(c.DonorInfo.Donations), c.DonorInfo.TotalAmount)
	}
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.contacts.Delete(context.Background(), m.selectedID); err != nil {
			m.err = err
			m.message = "Error: " + err.Error()
		} else {
			m.reload()
			m.message = "Successfully deleted"
			m.selectedID = ""
			m.selectedRow = 0
		}
		m.viewMode = ViewList
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}
