// ABOUTME: Donation entry form for the TUI
// ABOUTME: Records a gift for the selected contact through the donor service
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/donorbase/models"
)

const (
	fieldAmount = iota
	fieldCampaign
	fieldType
	fieldDate
	fieldNotes
)

func (m Model) renderDonationView() string {
	var s strings.Builder

	name := m.selectedID
	if c, err := m.selectedContact(); err == nil {
		name = c.FullName()
	}
	s.WriteString(titleStyle.Render("NEW DONATION: " + name))
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(m.err.Error()))
	}
	s.WriteString("\n")
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDonationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.err = nil
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		if err := m.saveDonation(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initDonationForm() {
	inputs := make([]textinput.Model, 5)

	inputs[fieldAmount] = textinput.New()
	inputs[fieldAmount].Placeholder = "Amount"
	inputs[fieldAmount].CharLimit = 15

	inputs[fieldCampaign] = textinput.New()
	inputs[fieldCampaign].Placeholder = "Campaign"
	inputs[fieldCampaign].CharLimit = 100

	inputs[fieldType] = textinput.New()
	inputs[fieldType].Placeholder = "Type (cash, check, credit, stock, in-kind, planned)"
	inputs[fieldType].CharLimit = 20

	inputs[fieldDate] = textinput.New()
	inputs[fieldDate].Placeholder = "Date YYYY-MM-DD (default today)"
	inputs[fieldDate].CharLimit = 10

	inputs[fieldNotes] = textinput.New()
	inputs[fieldNotes].Placeholder = "Notes"
	inputs[fieldNotes].CharLimit = 500

	m.formInputs = inputs
	m.focusIndex = 0
	m.err = nil
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m *Model) saveDonation() error {
	raw := strings.TrimPrefix(strings.TrimSpace(m.formInputs[fieldAmount].Value()), "$")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", raw)
	}

	c, err := m.donors.RecordDonation(context.Background(), m.selectedID, models.Donation{
		Amount:   amount,
		Campaign: strings.TrimSpace(m.formInputs[fieldCampaign].Value()),
		Type:     strings.TrimSpace(m.formInputs[fieldType].Value()),
		Date:     strings.TrimSpace(m.formInputs[fieldDate].Value()),
		Notes:    m.formInputs[fieldNotes].Value(),
	})
	if err != nil {
		return err
	}

	m.reload()
	m.message = fmt.Sprintf("✓ $%.2f recorded for %s", amount, c.FullName())
	return nil
}
