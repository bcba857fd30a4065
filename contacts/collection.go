// ABOUTME: Collection operations over contact slices
// ABOUTME: Every mutation returns a new slice and refreshes derived fields in one place
package contacts

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/scoring"
)

// UpdateFunc edits a contact in place. It always receives a private copy.
type UpdateFunc func(c *models.Contact) error

// Find returns the index of the contact with id, or -1.
func Find(list []models.Contact, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the contact with id.
func Get(list []models.Contact, id string) (models.Contact, error) {
	i := Find(list, id)
	if i < 0 {
		return models.Contact{}, fmt.Errorf("%w: %s", models.ErrContactNotFound, id)
	}
	return list[i].Clone(), nil
}

// Add validates c, scores it and appends it to a copy of list. Adding an id that is
// already present is a programming error and panics.
func Add(list []models.Contact, c models.Contact) ([]models.Contact, error) {
	if err := Validate(&c); err != nil {
		return list, err
	}
	return appendScored(list, c), nil
}

// Apply is the single entry point for editing an existing contact. The update runs on a
// deep copy; on success the copy replaces the original in a new slice with its completeness
// and modification date refreshed.
func Apply(list []models.Contact, id string, update UpdateFunc, now time.Time) ([]models.Contact, error) {
	i := Find(list, id)
	if i < 0 {
		return list, fmt.Errorf("%w: %s", models.ErrContactNotFound, id)
	}

	edited := list[i].Clone()
	if err := update(&edited); err != nil {
		return list, err
	}
	if edited.ID != id {
		panic(fmt.Sprintf("contacts: update changed id %s to %s", id, edited.ID))
	}
	if err := validatePriority(&edited); err != nil {
		return list, err
	}

	edited.DataCompleteness = scoring.Completeness(&edited)
	edited.LastModified = models.Today(now)

	out := cloneList(list)
	out[i] = edited
	return out, nil
}

// Remove returns a copy of list without the contact.
func Remove(list []models.Contact, id string) ([]models.Contact, error) {
	i := Find(list, id)
	if i < 0 {
		return list, fmt.Errorf("%w: %s", models.ErrContactNotFound, id)
	}
	out := make([]models.Contact, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// Validate checks the identity fields required to save a contact.
func Validate(c *models.Contact) error {
	hasName := strings.TrimSpace(c.FirstName) != "" && strings.TrimSpace(c.LastName) != ""
	if !hasName && strings.TrimSpace(c.Organization) == "" {
		return &models.ValidationError{Field: "name", Message: "first and last name or organization is required"}
	}
	if err := validatePriority(c); err != nil {
		return err
	}
	for _, r := range c.ProjectRoles {
		if strings.TrimSpace(r) != "" {
			return nil
		}
	}
	return &models.ValidationError{Field: "projectRoles", Message: "at least one role is required"}
}

// validatePriority accepts an empty priority, which ranks as medium.
func validatePriority(c *models.Contact) error {
	if c.Priority == "" || models.IsValidPriority(c.Priority) {
		return nil
	}
	return &models.ValidationError{
		Field:   "priority",
		Message: fmt.Sprintf("%q is not one of low, medium, high or urgent", c.Priority),
	}
}

// MoveAddress closes the current address history entry and opens a new one, copying it
// into the flat address fields.
func MoveAddress(list []models.Contact, id string, addr models.AddressEntry, now time.Time) ([]models.Contact, error) {
	return Apply(list, id, func(c *models.Contact) error {
		today := models.Today(now)
		for i := range c.AddressHistory {
			if c.AddressHistory[i].EndDate == "" {
				c.AddressHistory[i].EndDate = today
			}
		}
		if addr.StartDate == "" {
			addr.StartDate = today
		}
		addr.EndDate = ""
		if addr.Country == "" {
			addr.Country = models.DefaultCountry
		}
		c.AddressHistory = append(c.AddressHistory, addr)

		c.Address = addr.Address
		c.Address2 = addr.Address2
		c.City = addr.City
		c.State = addr.State
		c.ZipCode = addr.ZipCode
		c.Country = addr.Country
		return nil
	}, now)
}

func appendScored(list []models.Contact, c models.Contact) []models.Contact {
	if Find(list, c.ID) >= 0 {
		panic(fmt.Sprintf("contacts: duplicate id %s", c.ID))
	}
	c = c.Clone()
	c.DataCompleteness = scoring.Completeness(&c)

	out := make([]models.Contact, len(list), len(list)+1)
	copy(out, list)
	return append(out, c)
}

func cloneList(list []models.Contact) []models.Contact {
	out := make([]models.Contact, len(list))
	copy(out, list)
	return out
}
