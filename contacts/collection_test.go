// ABOUTME: Tests for contact collection operations
// ABOUTME: Verifies immutability, validation, completeness refresh and follow-ups
package contacts

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/donorbase/models"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newPerson(first, last string) models.Contact {
	c := models.NewContact(fixedNow.AddDate(0, -1, 0))
	c.FirstName = first
	c.LastName = last
	c.ProjectRoles = []string{"volunteer"}
	return c
}

func TestAddScoresAndAppends(t *testing.T) {
	c := newPerson("Jane", "Doe")

	list, err := Add(nil, c)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 60, list[0].DataCompleteness)
}

func TestAddRejectsMissingIdentity(t *testing.T) {
	tests := []struct {
		name    string
		contact models.Contact
		field   string
	}{
		{"no name or org", models.Contact{ProjectRoles: []string{"volunteer"}}, "name"},
		{"first name only", models.Contact{FirstName: "Jane", ProjectRoles: []string{"volunteer"}}, "name"},
		{"no roles", models.Contact{FirstName: "Jane", LastName: "Doe"}, "projectRoles"},
		{"unknown priority", models.Contact{FirstName: "Jane", LastName: "Doe", Priority: "bogus", ProjectRoles: []string{"volunteer"}}, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := []models.Contact{newPerson("A", "B")}
			out, err := Add(list, tt.contact)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Len(t, out, 1)
		})
	}
}

func TestAddOrganizationWithRole(t *testing.T) {
	c := models.NewContact(fixedNow)
	c.Organization = "Acme Foundation"
	c.ProjectRoles = []string{"funder"}

	list, err := Add(nil, c)
	require.NoError(t, err)
	assert.Equal(t, 23, list[0].DataCompleteness)
}

func TestAddDuplicateIDPanics(t *testing.T) {
	c := newPerson("Jane", "Doe")
	list, err := Add(nil, c)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = Add(list, c)
	})
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	a := newPerson("Jane", "Doe")
	b := newPerson("John", "Roe")
	list, err := Add(nil, a)
	require.NoError(t, err)
	list, err = Add(list, b)
	require.NoError(t, err)

	snapshot := make([]models.Contact, len(list))
	for i := range list {
		snapshot[i] = list[i].Clone()
	}

	next, err := Apply(list, a.ID, func(c *models.Contact) error {
		c.Email = "jane@example.org"
		c.Tags = append(c.Tags, "donor")
		return nil
	}, fixedNow)
	require.NoError(t, err)

	if diff := cmp.Diff(snapshot, list); diff != "" {
		t.Errorf("input collection changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, "jane@example.org", next[0].Email)
	assert.Equal(t, 73, next[0].DataCompleteness)
	assert.Equal(t, "2026-06-01", next[0].LastModified)
	assert.Equal(t, []string{"donor"}, next[0].Tags)
	assert.Equal(t, list[1], next[1])
}

func TestApplyUnknownID(t *testing.T) {
	list, err := Add(nil, newPerson("Jane", "Doe"))
	require.NoError(t, err)

	out, err := Apply(list, "missing", func(c *models.Contact) error { return nil }, fixedNow)

	assert.ErrorIs(t, err, models.ErrContactNotFound)
	assert.Equal(t, list, out)
}

func TestApplyPropagatesUpdateError(t *testing.T) {
	c := newPerson("Jane", "Doe")
	list, err := Add(nil, c)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = Apply(list, c.ID, func(c *models.Contact) error { return boom }, fixedNow)
	assert.ErrorIs(t, err, boom)
}

func TestApplyRejectsUnknownPriority(t *testing.T) {
	c := newPerson("Jane", "Doe")
	list, err := Add(nil, c)
	require.NoError(t, err)

	out, err := Apply(list, c.ID, func(c *models.Contact) error {
		c.Priority = "bogus"
		return nil
	}, fixedNow)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "priority", verr.Field)
	assert.Equal(t, models.PriorityMedium, out[0].Priority)

	out, err = Apply(list, c.ID, func(c *models.Contact) error {
		c.Priority = models.PriorityUrgent
		return nil
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityUrgent, out[0].Priority)
}

func TestRemove(t *testing.T) {
	a := newPerson("Jane", "Doe")
	b := newPerson("John", "Roe")
	list, _ := Add(nil, a)
	list, _ = Add(list, b)

	out, err := Remove(list, a.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, b.ID, out[0].ID)
	assert.Len(t, list, 2)

	_, err = Remove(list, "missing")
	assert.ErrorIs(t, err, models.ErrContactNotFound)
}

func TestMoveAddressClosesCurrentEntry(t *testing.T) {
	c := newPerson("Jane", "Doe")
	c.AddressHistory = []models.AddressEntry{{Address: "1 Old Rd", City: "Springfield", StartDate: "2020-01-01"}}
	list, _ := Add(nil, c)

	out, err := MoveAddress(list, c.ID, models.AddressEntry{Address: "2 New St", City: "Shelbyville", State: "IL"}, fixedNow)
	require.NoError(t, err)

	moved := out[0]
	require.Len(t, moved.AddressHistory, 2)
	assert.Equal(t, "2026-06-01", moved.AddressHistory[0].EndDate)
	assert.Equal(t, "2026-06-01", moved.AddressHistory[1].StartDate)
	assert.Equal(t, "2 New St", moved.Address)
	assert.Equal(t, "Shelbyville", moved.City)
	assert.Equal(t, models.DefaultCountry, moved.Country)

	current, ok := moved.CurrentAddress()
	require.True(t, ok)
	assert.Equal(t, "2 New St", current.Address)
}

func TestDueFollowUps(t *testing.T) {
	low := newPerson("Low", "Priority")
	low.Priority = models.PriorityLow
	low.NextFollowUp = "2026-05-01"

	urgent := newPerson("Urgent", "Priority")
	urgent.Priority = models.PriorityUrgent
	urgent.NextFollowUp = "2026-06-01"

	future := newPerson("Not", "Yet")
	future.NextFollowUp = "2026-07-01"

	none := newPerson("No", "Date")

	due := DueFollowUps([]models.Contact{low, urgent, future, none}, fixedNow)

	require.Len(t, due, 2)
	assert.Equal(t, urgent.ID, due[0].Contact.ID)
	assert.Equal(t, 0, due[0].DaysOverdue)
	assert.Equal(t, low.ID, due[1].Contact.ID)
	assert.Equal(t, 31, due[1].DaysOverdue)
}

func TestScheduleFollowUp(t *testing.T) {
	c := newPerson("Jane", "Doe")
	list, _ := Add(nil, c)

	out, err := ScheduleFollowUp(list, c.ID, 30, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01", out[0].LastContact)
	assert.Equal(t, "2026-07-01", out[0].NextFollowUp)
}
