package donors

import (
	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/scoring"
)

// IsDonor reports whether c is seen through the donor lens: tagged, grouped or carrying a
// donor block.
func IsDonor(c *models.Contact) bool {
	return c.HasTag(models.TagDonor) || c.InGroup(models.GroupDonors) || c.DonorInfo != nil
}

// Profiles returns copies of every donor in list with a populated donor block.
func Profiles(list []models.Contact) []models.Contact {
	out := make([]models.Contact, 0, len(list))
	for i := range list {
		if !IsDonor(&list[i]) {
			continue
		}
		c := list[i].Clone()
		info := models.EnsureDonorInfo(&c)
		if info.GivingLevel == "" {
			info.GivingLevel = models.LevelProspect
		}
		c.DonorInfo = &info
		out = append(out, c)
	}
	return out
}

// ProfileCompleteness scores a donor profile. Donors without project roles are credited
// for their donor type.
func ProfileCompleteness(c *models.Contact) int {
	roles := c.ProjectRoles
	if len(roles) == 0 && c.DonorInfo != nil && c.DonorInfo.DonorType != "" {
		roles = []string{c.DonorInfo.DonorType}
	}
	return scoring.CompletenessFor(c, roles)
}
