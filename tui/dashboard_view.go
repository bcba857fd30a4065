package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/donorbase/viz"
)

func (m Model) renderDashboard() string {
	stats := viz.GenerateDashboardStats(m.list, m.contacts.Now())
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Render(viz.RenderDashboard(stats))
}
