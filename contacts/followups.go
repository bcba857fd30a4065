// ABOUTME: Follow-up scheduling over contacts
// ABOUTME: Lists contacts whose next follow-up date has arrived, most urgent first
package contacts

import (
	"sort"
	"time"

	"github.com/harperreed/donorbase/models"
)

// FollowUp is a contact that is due for outreach.
type FollowUp struct {
	Contact     models.Contact
	DaysOverdue int
}

// DueFollowUps returns contacts whose NextFollowUp is today or earlier, ordered by priority
// and then by how long they have been waiting.
func DueFollowUps(list []models.Contact, now time.Time) []FollowUp {
	var due []FollowUp
	for i := range list {
		days, ok := models.DaysBetween(list[i].NextFollowUp, now)
		if !ok || days < 0 {
			continue
		}
		due = append(due, FollowUp{Contact: list[i].Clone(), DaysOverdue: days})
	}

	sort.SliceStable(due, func(a, b int) bool {
		ra := models.PriorityRank(due[a].Contact.Priority)
		rb := models.PriorityRank(due[b].Contact.Priority)
		if ra != rb {
			return ra < rb
		}
		return due[a].DaysOverdue > due[b].DaysOverdue
	})
	return due
}

// ScheduleFollowUp records a touch today and sets the next follow-up after cadenceDays.
func ScheduleFollowUp(list []models.Contact, id string, cadenceDays int, now time.Time) ([]models.Contact, error) {
	return Apply(list, id, func(c *models.Contact) error {
		c.LastContact = models.Today(now)
		if cadenceDays > 0 {
			c.NextFollowUp = models.Today(now.AddDate(0, 0, cadenceDays))
		} else {
			c.NextFollowUp = ""
		}
		return nil
	}, now)
}
