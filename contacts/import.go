// ABOUTME: vCard import into a contact collection
// ABOUTME: Decodes cards, assigns fresh identities and scores, optionally skipping duplicates
package contacts

import (
	"time"

	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/vcard"
)

type ImportOptions struct {
	// SkipDuplicates drops cards whose email matches an existing or earlier imported contact.
	SkipDuplicates bool
	// Tags are added to every imported contact.
	Tags []string
}

type ImportResult struct {
	Decoded    int
	Imported   int
	Duplicates int
	IDs        []string
}

// ImportVCF decodes text and appends the resulting contacts to a copy of list. When no card
// yields a usable contact it returns ErrNoValidContactsFound and list unchanged.
func ImportVCF(list []models.Contact, text string, now time.Time, opts ImportOptions) ([]models.Contact, ImportResult, error) {
	decoded := vcard.Decode(text)
	result := ImportResult{Decoded: len(decoded)}
	if len(decoded) == 0 {
		return list, result, models.ErrNoValidContactsFound
	}

	matcher := NewMatcher(list)
	out := list
	for i := range decoded {
		if opts.SkipDuplicates {
			if _, found := matcher.FindMatch(decoded[i].Email); found {
				result.Duplicates++
				continue
			}
		}

		c := fromCard(&decoded[i], now)
		for _, tag := range opts.Tags {
			c.AddTag(tag)
		}

		out = appendScored(out, c)
		matcher.Add(&c)
		result.Imported++
		result.IDs = append(result.IDs, c.ID)
	}

	return out, result, nil
}

// fromCard turns a partial decoded contact into a full record with defaults.
func fromCard(card *models.Contact, now time.Time) models.Contact {
	c := models.NewContact(now)
	c.FirstName = card.FirstName
	c.LastName = card.LastName
	c.Organization = card.Organization
	c.Title = card.Title
	c.Email = card.Email
	c.Phone = card.Phone
	c.Mobile = card.Mobile
	c.Website = card.Website
	c.Notes = card.Notes
	if c.FirstName == "" && c.Organization != "" {
		c.Kind = models.KindOrganization
	}
	return c
}
