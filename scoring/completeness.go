// ABOUTME: Contact completeness scoring
// ABOUTME: Computes the 0-100 score cached in Contact.DataCompleteness
package scoring

import (
	"math"
	"strings"

	"github.com/harperreed/donorbase/models"
)

const (
	requiredWeight = 50.0
	roleWeight     = 10.0
	optionalWeight = 40.0
)

// Completeness scores how filled-out a contact is, using its project roles.
func Completeness(c *models.Contact) int {
	return CompletenessFor(c, c.ProjectRoles)
}

// CompletenessFor scores a contact against a role-equivalent list. Donor views pass the
// donor's own classification in place of project roles.
//
// First and last name weigh 50, having any role 10, and email, phone and organization 40.
func CompletenessFor(c *models.Contact, roles []string) int {
	required := []string{c.FirstName, c.LastName}
	optional := []string{c.Email, c.Phone, c.Organization}

	score := float64(filled(required))/float64(len(required))*requiredWeight +
		float64(filled(optional))/float64(len(optional))*optionalWeight
	if filled(roles) > 0 {
		score += roleWeight
	}

	return int(math.Round(score))
}

func filled(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
