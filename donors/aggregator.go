// ABOUTME: Donor aggregation over donation ledgers
// ABOUTME: Records, acknowledges and removes donations and derives totals and giving levels
package donors

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/models"
)

// Giving level thresholds on lifetime amount.
const (
	MajorThreshold    = 10000.0
	MidLevelThreshold = 1000.0
	LapsedAfterDays   = 365
)

// Aggregator maintains the derived donor state of contacts. Now and NewID are swappable so
// tests can pin the clock and identities.
type Aggregator struct {
	Now    func() time.Time
	NewID  func() string
	Logger *zap.Logger
}

func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		Now:    time.Now,
		NewID:  uuid.NewString,
		Logger: logger,
	}
}

// AddDonation appends d to the contact's ledger and recomputes totals. LastDonationDate
// becomes the date of this entry, which is the most recently recorded gift rather than the
// latest dated one. The giving level is left to UpdateGivingLevel.
func (a *Aggregator) AddDonation(list []models.Contact, contactID string, d models.Donation) ([]models.Contact, error) {
	now := a.Now()
	if err := normalizeDonation(&d, now, a.NewID); err != nil {
		return list, err
	}

	out, err := contacts.Apply(list, contactID, func(c *models.Contact) error {
		if !c.HasTag(models.TagDonor) && !c.InGroup(models.GroupDonors) {
			c.AddTag(models.TagDonor)
		}

		info := models.EnsureDonorInfo(c)
		info.Donations = append(info.Donations, d)
		recomputeTotals(&info)
		info.LastDonationDate = d.Date
		refreshHealth(c, &info, now)
		c.DonorInfo = &info
		return nil
	}, now)
	if err != nil {
		return list, err
	}

	a.Logger.Info("donation recorded",
		zap.String("contact_id", contactID),
		zap.String("donation_id", d.ID),
		zap.Float64("amount", d.Amount),
		zap.String("type", d.Type),
	)
	return out, nil
}

// UpdateGivingLevel reclassifies the contact from its current totals and recency.
func (a *Aggregator) UpdateGivingLevel(list []models.Contact, contactID string) ([]models.Contact, error) {
	now := a.Now()
	return contacts.Apply(list, contactID, func(c *models.Contact) error {
		info := models.EnsureDonorInfo(c)
		info.GivingLevel = Classify(info, now)
		info.Recency = Recency(info, now)
		refreshHealth(c, &info, now)
		c.DonorInfo = &info
		return nil
	}, now)
}

// UpdateAllGivingLevels reclassifies every contact under the donor lens.
func (a *Aggregator) UpdateAllGivingLevels(list []models.Contact) ([]models.Contact, error) {
	out := list
	for i := range list {
		if !IsDonor(&list[i]) {
			continue
		}
		var err error
		out, err = a.UpdateGivingLevel(out, list[i].ID)
		if err != nil {
			return list, err
		}
	}
	return out, nil
}

// AcknowledgeDonation marks a donation as acknowledged.
func (a *Aggregator) AcknowledgeDonation(list []models.Contact, contactID, donationID string) ([]models.Contact, error) {
	return contacts.Apply(list, contactID, func(c *models.Contact) error {
		i := findDonation(c.DonorInfo, donationID)
		if i < 0 {
			return fmt.Errorf("%w: %s", models.ErrDonationNotFound, donationID)
		}
		c.DonorInfo.Donations[i].Acknowledged = true
		return nil
	}, a.Now())
}

// RemoveDonation deletes a ledger entry and recomputes every derived total. The last
// donation date falls back to the last remaining entry in ledger order.
func (a *Aggregator) RemoveDonation(list []models.Contact, contactID, donationID string) ([]models.Contact, error) {
	now := a.Now()
	out, err := contacts.Apply(list, contactID, func(c *models.Contact) error {
		i := findDonation(c.DonorInfo, donationID)
		if i < 0 {
			return fmt.Errorf("%w: %s", models.ErrDonationNotFound, donationID)
		}

		info := c.DonorInfo
		info.Donations = append(info.Donations[:i], info.Donations[i+1:]...)
		recomputeTotals(info)
		info.LastDonationDate = ""
		if n := len(info.Donations); n > 0 {
			info.LastDonationDate = info.Donations[n-1].Date
		}
		refreshHealth(c, info, now)
		return nil
	}, now)
	if err != nil {
		return list, err
	}

	a.Logger.Info("donation removed",
		zap.String("contact_id", contactID),
		zap.String("donation_id", donationID),
	)
	return out, nil
}

// Classify derives the giving level. Rules are checked in order and the first match wins,
// so lifetime amount outranks recency: a $15,000 donor who stopped giving stays major.
func Classify(info models.DonorInfo, now time.Time) string {
	switch {
	case info.TotalAmount >= MajorThreshold:
		return models.LevelMajor
	case info.TotalAmount >= MidLevelThreshold:
		return models.LevelMidLevel
	case len(info.Donations) == 0:
		return models.LevelProspect
	case isLapsed(info, now):
		return models.LevelLapsed
	default:
		return models.LevelGrassroots
	}
}

// Recency is the time half of the (tier, recency) pair, independent of amount.
func Recency(info models.DonorInfo, now time.Time) string {
	switch {
	case len(info.Donations) == 0:
		return models.RecencyNone
	case isLapsed(info, now):
		return models.RecencyLapsed
	default:
		return models.RecencyActive
	}
}

// RetentionRisk grades how likely the donor is to stop giving.
func RetentionRisk(info models.DonorInfo, now time.Time) string {
	if len(info.Donations) == 0 {
		return models.RiskHigh
	}
	days, ok := models.DaysBetween(info.LastDonationDate, now)
	switch {
	case !ok:
		return models.RiskHigh
	case days <= 180:
		return models.RiskLow
	case days <= LapsedAfterDays:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// EngagementScore rates a donor 0-100 from gift frequency (50), gift recency (30) and
// recent personal contact (20).
func EngagementScore(c *models.Contact, info models.DonorInfo, now time.Time) int {
	count := len(info.Donations)
	if count > 10 {
		count = 10
	}
	score := count * 5

	if days, ok := models.DaysBetween(info.LastDonationDate, now); ok && len(info.Donations) > 0 {
		switch {
		case days <= 90:
			score += 30
		case days <= LapsedAfterDays:
			score += 15
		}
	}

	if days, ok := models.DaysBetween(c.LastContact, now); ok && days <= 90 {
		score += 20
	}
	return score
}

func isLapsed(info models.DonorInfo, now time.Time) bool {
	days, ok := models.DaysBetween(info.LastDonationDate, now)
	return ok && days > LapsedAfterDays
}

func recomputeTotals(info *models.DonorInfo) {
	info.TotalDonations = len(info.Donations)
	info.TotalAmount = 0
	for _, d := range info.Donations {
		info.TotalAmount += d.Amount
	}
	info.AverageDonation = 0
	if info.TotalDonations > 0 {
		info.AverageDonation = info.TotalAmount / float64(info.TotalDonations)
	}
	info.FirstDonationDate = firstDonationDate(info.Donations)
}

func refreshHealth(c *models.Contact, info *models.DonorInfo, now time.Time) {
	info.RetentionRisk = RetentionRisk(*info, now)
	info.EngagementScore = EngagementScore(c, *info, now)
}

func firstDonationDate(donations []models.Donation) string {
	first := ""
	var firstTime time.Time
	for _, d := range donations {
		t, ok := models.ParseDate(d.Date)
		if !ok {
			continue
		}
		if first == "" || t.Before(firstTime) {
			first, firstTime = d.Date, t
		}
	}
	return first
}

func findDonation(info *models.DonorInfo, donationID string) int {
	if info == nil {
		return -1
	}
	for i := range info.Donations {
		if info.Donations[i].ID == donationID {
			return i
		}
	}
	return -1
}

func normalizeDonation(d *models.Donation, now time.Time, newID func() string) error {
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount < 0 {
		return &models.ValidationError{Field: "amount", Message: "must be a non-negative number"}
	}

	d.Type = strings.ToLower(strings.TrimSpace(d.Type))
	if d.Type == "" {
		d.Type = models.DonationCash
	}
	if !models.IsValidDonationType(d.Type) {
		return &models.ValidationError{Field: "type", Message: fmt.Sprintf("unknown donation type %q", d.Type)}
	}

	if d.Date == "" {
		d.Date = models.Today(now)
	} else if _, ok := models.ParseDate(d.Date); !ok {
		return &models.ValidationError{Field: "date", Message: fmt.Sprintf("expected YYYY-MM-DD, got %q", d.Date)}
	}

	if d.ID == "" {
		d.ID = newID()
	}
	return nil
}
