package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DETAIL VIEW"))
	s.WriteString("\n\n")
	s.WriteString(m.renderContactDetail())
	s.WriteString("\n\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) selectedContact() (models.Contact, error) {
	return contacts.Get(m.list, m.selectedID)
}

func (m Model) renderContactDetail() string {
	c, err := m.selectedContact()
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", c.FullName()))
	if c.Kind != models.KindOrganization {
		s.WriteString(m.renderField("Organization", c.Organization))
	}
	s.WriteString(m.renderField("Title", c.Title))
	s.WriteString(m.renderField("Email", c.Email))
	s.WriteString(m.renderField("Phone", c.Phone))
	s.WriteString(m.renderField("Mobile", c.Mobile))
	if addr, ok := c.CurrentAddress(); ok {
		s.WriteString(m.renderField("Address", strings.Join(nonEmpty(addr.Address, addr.City, addr.State, addr.ZipCode), ", ")))
	}
	s.WriteString(m.renderField("Roles", strings.Join(c.ProjectRoles, ", ")))
	s.WriteString(m.renderField("Tags", strings.Join(c.Tags, ", ")))
	s.WriteString(m.renderField("Priority", c.Priority))
	s.WriteString(m.renderField("Completeness", fmt.Sprintf("%d%%", c.DataCompleteness)))
	s.WriteString(m.renderField("Last Contact", c.LastContact))
	s.WriteString(m.renderField("Next Follow-up", c.NextFollowUp))
	s.WriteString(m.renderField("Notes", c.Notes))

	if info := c.DonorInfo; info != nil {
		s.WriteString("\n")
		s.WriteString(titleStyle.Render("Giving"))
		s.WriteString("\n")
		s.WriteString(m.renderField("Level", info.GivingLevel))
		s.WriteString(m.renderField("Lifetime", fmt.Sprintf("$%.2f over %d gift(s)", info.TotalAmount, info.TotalDonations)))
		s.WriteString(m.renderField("Average", fmt.Sprintf("$%.2f", info.AverageDonation)))
		s.WriteString(m.renderField("Retention Risk", info.RetentionRisk))
		s.WriteString(m.renderField("Engagement", fmt.Sprintf("%d", info.EngagementScore)))

		for _, d := range info.Donations {
			ack := " "
			if d.Acknowledged {
				ack = "✓"
			}
			line := fmt.Sprintf("  %s %s  $%-10.2f %-8s %s", ack, d.Date, d.Amount, d.Type, d.Campaign)
			s.WriteString(fieldValueStyle.Render(line))
			s.WriteString("\n")
		}
	}

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"a: Add donation",
		"g: Graph",
		"d: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.selectedID = ""
	case "a":
		m.initDonationForm()
		m.viewMode = ViewDonation
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewGraph
	case "d":
		m.viewMode = ViewConfirmDelete
	}

	return m, nil
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
