// ABOUTME: Contact deduplication and matching logic
// ABOUTME: Finds existing contacts by email to prevent duplicates during import
package contacts

import (
	"strings"

	"github.com/harperreed/donorbase/models"
)

type Matcher struct {
	byEmail map[string]string
}

// NewMatcher indexes the existing contacts by normalized email.
func NewMatcher(list []models.Contact) *Matcher {
	m := &Matcher{byEmail: make(map[string]string)}
	for i := range list {
		m.Add(&list[i])
	}
	return m
}

// FindMatch returns the id of an existing contact with the same email.
func (m *Matcher) FindMatch(email string) (string, bool) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return "", false
	}
	id, found := m.byEmail[normalized]
	return id, found
}

// Add registers a contact so later records in the same import match it.
func (m *Matcher) Add(c *models.Contact) {
	if email := normalizeEmail(c.Email); email != "" {
		m.byEmail[email] = c.ID
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
