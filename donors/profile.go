package donors

import (
	"fmt"
	"strings"

	"github.com/harperreed/donorbase/models"
)

// ProfileUpdate holds donor profile fields. Empty values leave the stored field unchanged.
type ProfileUpdate struct {
	DonorType        string
	PreferredContact string
	Interests        []string
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.DonorType == "" && p.PreferredContact == "" && len(p.Interests) == 0
}

// ApplyProfile writes p onto c, creating the donor block when c has none. Interests are
// added, never replaced.
func ApplyProfile(c *models.Contact, p ProfileUpdate) error {
	if p.IsEmpty() {
		return nil
	}
	if p.DonorType != "" && !models.IsValidDonorType(p.DonorType) {
		return &models.ValidationError{
			Field:   "donorType",
			Message: fmt.Sprintf("%q is not one of individual, corporate, foundation or government", p.DonorType),
		}
	}

	info := models.EnsureDonorInfo(c)
	if p.DonorType != "" {
		info.DonorType = p.DonorType
	}
	if p.PreferredContact != "" {
		info.PreferredContact = strings.TrimSpace(p.PreferredContact)
	}
	for _, interest := range p.Interests {
		interest = strings.TrimSpace(interest)
		if interest != "" && !hasInterest(info.Interests, interest) {
			info.Interests = append(info.Interests, interest)
		}
	}
	c.DonorInfo = &info
	return nil
}

func hasInterest(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
