// ABOUTME: Tests for the TUI model
// ABOUTME: Drives key messages through Update and checks the rendered views
package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func setupTestModel(t *testing.T) (Model, *contacts.Service) {
	t.Helper()
	database, err := db.OpenDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cs := contacts.NewService(db.NewContactStore(database, zap.NewNop()), zap.NewNop())
	cs.SetClock(func() time.Time { return fixedNow })
	ds := donors.NewService(cs)
	ctx := context.Background()

	for _, p := range []struct {
		first, last string
		amount      float64
	}{
		{"Jane", "Doe", 12000},
		{"Sam", "Lee", 0},
		{"Ana", "Ruiz", 300},
	} {
		c := models.NewContact(fixedNow)
		c.FirstName, c.LastName = p.first, p.last
		c.ProjectRoles = []string{"supporter"}
		created, err := cs.Create(ctx, c)
		require.NoError(t, err)
		if p.amount > 0 {
			_, err = ds.RecordDonation(ctx, created.ID, models.Donation{Amount: p.amount, Campaign: "Gala"})
			require.NoError(t, err)
		}
	}

	return NewModel(cs, ds), cs
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestListViewShowsContacts(t *testing.T) {
	m, _ := setupTestModel(t)

	out := m.View()
	assert.Contains(t, out, "DONORBASE")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Sam Lee")
}

func TestDonorsTab(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(t, m, "tab")

	assert.Equal(t, TabDonors, m.tab)
	rows, err := m.visible()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	out := m.View()
	assert.Contains(t, out, "major")
	assert.NotContains(t, out, "Sam Lee")
}

func TestDashboardTab(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(t, m, "tab", "tab", "tab")

	assert.Equal(t, TabDashboard, m.tab)
	assert.Contains(t, m.View(), "DONORBASE DASHBOARD")
}

func TestSearchFiltersRows(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(t, m, "/", "r", "u", "i", "z", "enter")

	assert.False(t, m.searching)
	rows, err := m.visible()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].FirstName)

	m = press(t, m, "esc")
	rows, err = m.visible()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSortCycleAndReverse(t *testing.T) {
	m, _ := setupTestModel(t)

	m = press(t, m, "s")
	rows, err := m.visible()
	require.NoError(t, err)
	assert.Equal(t, "Ana", rows[0].FirstName)

	m = press(t, m, "r")
	rows, err = m.visible()
	require.NoError(t, err)
	assert.Equal(t, "Sam", rows[0].FirstName)
	assert.Contains(t, m.View(), "sort: name desc")
}

func TestDetailAndDonationForm(t *testing.T) {
	m, cs := setupTestModel(t)

	// Sam Lee is the second contact
	m = press(t, m, "down", "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "Sam Lee")

	m = press(t, m, "a")
	require.Equal(t, ViewDonation, m.viewMode)
	m = press(t, m, "2", "5", "0", "enter")
	require.NoError(t, m.err)
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "$250.00")

	c, err := cs.Get(context.Background(), m.selectedID)
	require.NoError(t, err)
	require.NotNil(t, c.DonorInfo)
	assert.Equal(t, models.LevelGrassroots, c.DonorInfo.GivingLevel)
}

func TestDonationFormRejectsBadAmount(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(t, m, "enter", "a", "x", "enter")

	assert.Equal(t, ViewDonation, m.viewMode)
	assert.Error(t, m.err)

	m = press(t, m, "esc")
	assert.Equal(t, ViewDetail, m.viewMode)
}

func TestDeleteConfirmation(t *testing.T) {
	m, cs := setupTestModel(t)
	m = press(t, m, "enter", "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)

	m = press(t, m, "n")
	assert.Equal(t, ViewDetail, m.viewMode)

	m = press(t, m, "d", "y")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, "Successfully deleted", m.message)

	list, err := cs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, m.list, 2)
}

func TestGraphView(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(t, m, "enter", "g")

	require.NoError(t, m.err)
	assert.Equal(t, ViewGraph, m.viewMode)
	assert.Contains(t, m.graphDOT, "campaign_Gala")

	m = press(t, m, "esc")
	assert.Equal(t, ViewDetail, m.viewMode)
}
