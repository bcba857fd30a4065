// ABOUTME: Analytics rollup over donor profiles
// ABOUTME: Totals, level distribution, retention and acknowledgement counts for dashboards
package donors

import (
	"time"

	"github.com/harperreed/donorbase/models"
)

// NoCampaign groups donations recorded without a campaign.
const NoCampaign = "(none)"

// Analytics summarizes a set of donor profiles.
type Analytics struct {
	TotalDonors       int                `json:"totalDonors"`
	TotalRaised       float64            `json:"totalRaised"`
	AverageGift       float64            `json:"averageGift"`
	ByLevel           map[string]int     `json:"byLevel"`
	RetentionRate     float64            `json:"retentionRate"`
	NewDonorsThisYear int                `json:"newDonorsThisYear"`
	Acknowledged      int                `json:"acknowledged"`
	Unacknowledged    int                `json:"unacknowledged"`
	ByCampaign        map[string]float64 `json:"byCampaign"`
	ByType            map[string]float64 `json:"byType"`
}

// Rollup aggregates profiles, which are expected to come from Profiles. Every giving level
// is present in ByLevel even when its count is zero. RetentionRate is the share of donors
// who gave more than once.
func Rollup(profiles []models.Contact, now time.Time) Analytics {
	a := Analytics{
		TotalDonors: len(profiles),
		ByLevel:     make(map[string]int, len(models.GivingLevels)),
		ByCampaign:  map[string]float64{},
		ByType:      map[string]float64{},
	}
	for _, level := range models.GivingLevels {
		a.ByLevel[level] = 0
	}

	var repeat int
	for i := range profiles {
		info := models.EnsureDonorInfo(&profiles[i])

		a.TotalRaised += info.TotalAmount

		level := info.GivingLevel
		if level == "" {
			level = models.LevelProspect
		}
		a.ByLevel[level]++

		if len(info.Donations) > 1 {
			repeat++
		}

		first := info.FirstDonationDate
		if first == "" {
			first = firstDonationDate(info.Donations)
		}
		if t, ok := models.ParseDate(first); ok && t.Year() == now.Year() {
			a.NewDonorsThisYear++
		}

		for _, d := range info.Donations {
			if d.Acknowledged {
				a.Acknowledged++
			} else {
				a.Unacknowledged++
			}
			campaign := d.Campaign
			if campaign == "" {
				campaign = NoCampaign
			}
			a.ByCampaign[campaign] += d.Amount
			a.ByType[d.Type] += d.Amount
		}
	}

	if a.TotalDonors > 0 {
		a.AverageGift = a.TotalRaised / float64(a.TotalDonors)
		a.RetentionRate = float64(repeat) / float64(a.TotalDonors) * 100
	}
	return a
}
