// ABOUTME: Tests for donor aggregation and giving level classification
// ABOUTME: Uses a pinned clock and sequential donation ids
package donors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/models"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestAggregator() *Aggregator {
	a := NewAggregator(zap.NewNop())
	a.Now = func() time.Time { return fixedNow }
	n := 0
	a.NewID = func() string {
		n++
		return fmt.Sprintf("don-%d", n)
	}
	return a
}

func newPerson(t *testing.T, first, last string) ([]models.Contact, string) {
	t.Helper()
	c := models.NewContact(fixedNow)
	c.FirstName = first
	c.LastName = last
	c.ProjectRoles = []string{"volunteer"}
	list, err := contacts.Add(nil, c)
	require.NoError(t, err)
	return list, c.ID
}

func daysAgo(n int) string {
	return models.Today(fixedNow.AddDate(0, 0, -n))
}

func TestAddDonationRecomputesTotals(t *testing.T) {
	agg := newTestAggregator()
	list, id := newPerson(t, "Jane", "Doe")

	out, err := agg.AddDonation(list, id, models.Donation{Amount: 100, Date: "2026-01-10", Campaign: "gala"})
	require.NoError(t, err)
	out, err = agg.AddDonation(out, id, models.Donation{Amount: 50})
	require.NoError(t, err)

	assert.Nil(t, list[0].DonorInfo)
	assert.Empty(t, list[0].Tags)

	info := out[0].DonorInfo
	require.NotNil(t, info)
	assert.Equal(t, 2, info.TotalDonations)
	assert.Equal(t, 150.0, info.TotalAmount)
	assert.Equal(t, 75.0, info.AverageDonation)
	assert.Equal(t, "2026-01-10", info.FirstDonationDate)
	assert.Equal(t, "2026-03-14", info.LastDonationDate)
	assert.Equal(t, id, info.DonorID)

	second := info.Donations[1]
	assert.Equal(t, "don-2", second.ID)
	assert.Equal(t, "2026-03-14", second.Date)
	assert.Equal(t, models.DonationCash, second.Type)
	assert.False(t, second.Acknowledged)

	assert.True(t, out[0].HasTag(models.TagDonor))
	assert.Equal(t, models.RiskLow, info.RetentionRisk)
	assert.Equal(t, 40, info.EngagementScore)
}

func TestAddDonationKeepsLastRecordedDate(t *testing.T) {
	agg := newTestAggregator()
	list, id := newPerson(t, "Jane", "Doe")

	out, err := agg.AddDonation(list, id, models.Donation{Amount: 10, Date: "2026-03-01"})
	require.NoError(t, err)
	out, err = agg.AddDonation(out, id, models.Donation{Amount: 10, Date: "2025-01-01"})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", out[0].DonorInfo.LastDonationDate)
	assert.Equal(t, "2025-01-01", out[0].DonorInfo.FirstDonationDate)
}

func TestAddDonationUnknownContact(t *testing.T) {
	agg := newTestAggregator()
	list, _ := newPerson(t, "Jane", "Doe")

	out, err := agg.AddDonation(list, "missing", models.Donation{Amount: 10})

	assert.ErrorIs(t, err, models.ErrContactNotFound)
	assert.Equal(t, list, out)
}

func TestAddDonationRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		donation models.Donation
		field    string
	}{
		{"negative amount", models.Donation{Amount: -5}, "amount"},
		{"unknown type", models.Donation{Amount: 5, Type: "barter"}, "type"},
		{"bad date", models.Donation{Amount: 5, Date: "last tuesday"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := newTestAggregator()
			list, id := newPerson(t, "Jane", "Doe")

			out, err := agg.AddDonation(list, id, tt.donation)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Nil(t, out[0].DonorInfo)
		})
	}
}

func TestClassify(t *testing.T) {
	oneGift := func(amount float64, date string) models.DonorInfo {
		return models.DonorInfo{
			TotalAmount:      amount,
			TotalDonations:   1,
			Donations:        []models.Donation{{ID: "d", Amount: amount, Date: date, Type: models.DonationCash}},
			LastDonationDate: date,
		}
	}

	tests := []struct {
		name string
		info models.DonorInfo
		want string
	}{
		{"major at threshold", models.DonorInfo{TotalAmount: 10000}, models.LevelMajor},
		{"major even when lapsed", oneGift(15000, daysAgo(800)), models.LevelMajor},
		{"just under mid-level", oneGift(999.99, daysAgo(10)), models.LevelGrassroots},
		{"no donations", models.DonorInfo{}, models.LevelProspect},
		{"mid-level beats lapsed", oneGift(5000, daysAgo(400)), models.LevelMidLevel},
		{"small and old", oneGift(50, daysAgo(400)), models.LevelLapsed},
		{"exactly a year", oneGift(50, daysAgo(365)), models.LevelGrassroots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.info, fixedNow))
		})
	}
}

func TestUpdateGivingLevelIsIdempotent(t *testing.T) {
	agg := newTestAggregator()
	list, id := newPerson(t, "Jane", "Doe")
	list, err := agg.AddDonation(list, id, models.Donation{Amount: 10000, Date: daysAgo(3)})
	require.NoError(t, err)

	once, err := agg.UpdateGivingLevel(list, id)
	require.NoError(t, err)
	twice, err := agg.UpdateGivingLevel(once, id)
	require.NoError(t, err)

	assert.Equal(t, models.LevelMajor, once[0].DonorInfo.GivingLevel)
	assert.Equal(t, models.RecencyActive, once[0].DonorInfo.Recency)
	assert.Equal(t, once, twice)
}

func TestUpdateGivingLevelWithoutDonations(t *testing.T) {
	agg := newTestAggregator()
	list, id := newPerson(t, "Jane", "Doe")

	out, err := agg.UpdateGivingLevel(list, id)
	require.NoError(t, err)

	assert.Equal(t, models.LevelProspect, out[0].DonorInfo.GivingLevel)
	assert.Equal(t, models.RecencyNone, out[0].DonorInfo.Recency)
	assert.Equal(t, models.RiskHigh, out[0].DonorInfo.RetentionRisk)
}

func TestUpdateAllGivingLevels(t *testing.T) {
	agg := newTestAggregator()
	list, donorID := newPerson(t, "Jane", "Doe")
	other := models.NewContact(fixedNow)
	other.FirstName, other.LastName = "John", "Roe"
	other.ProjectRoles = []string{"volunteer"}
	list, err := contacts.Add(list, other)
	require.NoError(t, err)

	list, err = agg.AddDonation(list, donorID, models.Donation{Amount: 1500, Date: daysAgo(30)})
	require.NoError(t, err)

	out, err := agg.UpdateAllGivingLevels(list)
	require.NoError(t, err)

	assert.Equal(t, models.LevelMidLevel, out[0].DonorInfo.GivingLevel)
	assert.Nil(t, out[1].DonorInfo)
}

func TestAcknowledgeDonation(t *testing.T) {
	agg := newTestAggregator()
	list, id := newPerson(t, "Jane", "Doe")
	list, err := agg.AddDonation(list, id, models.Donation{Amount: 25})
	require.NoError(t, err)

	out, err := agg.AcknowledgeDonation(list, id, "don-1")
	require.NoError(t, err)
	assert.True(t, out[0].DonorInfo.Donations[0].Acknowledged)
	assert.False(t, list[0].DonorInfo.Donations[0].Acknowledged)

	_, err = agg.AcknowledgeDonation(list, id, "missing")
	assert.ErrorIs(t, err, models.ErrDonationNotFound)
}

func TestAcknowledgeDonationWithoutDonorInfo(t *testing.T) {
	agg := newTestAggregator()
	list, id := newPerson(t, "Jane", "Doe")

	_, err := agg.AcknowledgeDonation(list, id, "don-1")
	assert.ErrorIs(t, err, models.ErrDonationNotFound)
}

func TestRemoveDonation(t *testing.T) {
	agg := newTestAggregator()
	list, id := newPerson(t, "Jane", "Doe")
	list, _ = agg.AddDonation(list, id, models.Donation{Amount: 100, Date: "2026-01-01"})
	list, _ = agg.AddDonation(list, id, models.Donation{Amount: 300, Date: "2026-02-01"})

	out, err := agg.RemoveDonation(list, id, "don-2")
	require.NoError(t, err)

	info := out[0].DonorInfo
	assert.Equal(t, 1, info.TotalDonations)
	assert.Equal(t, 100.0, info.TotalAmount)
	assert.Equal(t, 100.0, info.AverageDonation)
	assert.Equal(t, "2026-01-01", info.LastDonationDate)
	assert.Len(t, list[0].DonorInfo.Donations, 2)

	out, err = agg.RemoveDonation(out, id, "don-1")
	require.NoError(t, err)
	info = out[0].DonorInfo
	assert.Equal(t, 0, info.TotalDonations)
	assert.Equal(t, 0.0, info.AverageDonation)
	assert.Empty(t, info.LastDonationDate)
	assert.Empty(t, info.FirstDonationDate)
	assert.Equal(t, models.RiskHigh, info.RetentionRisk)

	_, err = agg.RemoveDonation(out, id, "don-1")
	assert.ErrorIs(t, err, models.ErrDonationNotFound)
}

func TestRetentionRisk(t *testing.T) {
	withLast := func(date string) models.DonorInfo {
		return models.DonorInfo{
			Donations:        []models.Donation{{Date: date}},
			LastDonationDate: date,
		}
	}

	assert.Equal(t, models.RiskHigh, RetentionRisk(models.DonorInfo{}, fixedNow))
	assert.Equal(t, models.RiskLow, RetentionRisk(withLast(daysAgo(180)), fixedNow))
	assert.Equal(t, models.RiskMedium, RetentionRisk(withLast(daysAgo(181)), fixedNow))
	assert.Equal(t, models.RiskMedium, RetentionRisk(withLast(daysAgo(365)), fixedNow))
	assert.Equal(t, models.RiskHigh, RetentionRisk(withLast(daysAgo(366)), fixedNow))
	assert.Equal(t, models.RiskHigh, RetentionRisk(withLast("garbage"), fixedNow))
}

func TestEngagementScore(t *testing.T) {
	info := models.DonorInfo{LastDonationDate: daysAgo(10)}
	for i := 0; i < 3; i++ {
		info.Donations = append(info.Donations, models.Donation{Date: daysAgo(10)})
	}
	c := models.Contact{LastContact: daysAgo(5)}

	assert.Equal(t, 65, EngagementScore(&c, info, fixedNow))

	for i := 0; i < 20; i++ {
		info.Donations = append(info.Donations, models.Donation{Date: daysAgo(10)})
	}
	assert.Equal(t, 100, EngagementScore(&c, info, fixedNow))

	info.LastDonationDate = daysAgo(200)
	c.LastContact = daysAgo(91)
	assert.Equal(t, 65, EngagementScore(&c, info, fixedNow))

	assert.Equal(t, 0, EngagementScore(&models.Contact{}, models.DonorInfo{}, fixedNow))
}
