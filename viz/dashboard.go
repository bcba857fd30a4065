// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII overview of donors, giving levels and follow-ups
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

type DashboardStats struct {
	Analytics donors.Analytics

	TotalContacts int
	BoardMembers  int
	Staff         int

	// Needs attention
	DueFollowUps     []contacts.FollowUp
	AtRiskDonors     []AtRiskDonor
	Unacknowledged   []PendingAck
	IncompleteCount  int
	CompletenessMean int
}

type AtRiskDonor struct {
	Name      string
	Level     string
	DaysSince int
}

type PendingAck struct {
	Name   string
	Amount float64
	Date   string
}

// IncompleteBelow is the completeness score under which a record counts as incomplete.
const IncompleteBelow = 60

func GenerateDashboardStats(list []models.Contact, now time.Time) *DashboardStats {
	profiles := donors.Profiles(list)
	stats := &DashboardStats{
		Analytics:     donors.Rollup(profiles, now),
		TotalContacts: len(list),
		DueFollowUps:  contacts.DueFollowUps(list, now),
	}

	total := 0
	for i := range list {
		c := &list[i]
		if c.HasBoardRole() {
			stats.BoardMembers++
		}
		if c.HasStaffRole() {
			stats.Staff++
		}
		if c.DataCompleteness < IncompleteBelow {
			stats.IncompleteCount++
		}
		total += c.DataCompleteness
	}
	if len(list) > 0 {
		stats.CompletenessMean = total / len(list)
	}

	for i := range profiles {
		p := &profiles[i]
		info := p.DonorInfo
		if len(info.Donations) > 0 && donors.RetentionRisk(*info, now) == models.RiskHigh {
			days, _ := models.DaysBetween(info.LastDonationDate, now)
			stats.AtRiskDonors = append(stats.AtRiskDonors, AtRiskDonor{
				Name:      p.FullName(),
				Level:     info.GivingLevel,
				DaysSince: days,
			})
		}
		for _, d := range info.Donations {
			if !d.Acknowledged {
				stats.Unacknowledged = append(stats.Unacknowledged, PendingAck{
					Name:   p.FullName(),
					Amount: d.Amount,
					Date:   d.Date,
				})
			}
		}
	}

	sort.SliceStable(stats.AtRiskDonors, func(i, j int) bool {
		return stats.AtRiskDonors[i].DaysSince > stats.AtRiskDonors[j].DaysSince
	})

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder
	a := stats.Analytics

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  DONORBASE DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("GIVING LEVELS\n")
	renderLevels(&out, a.ByLevel)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  💝 %d donors  🏛  %d board  🧑‍💼 %d staff\n",
		stats.TotalContacts, a.TotalDonors, stats.BoardMembers, stats.Staff))
	out.WriteString(fmt.Sprintf("  💰 $%.2f raised  avg $%.2f per donor  %.1f%% retention  %d new this year\n",
		a.TotalRaised, a.AverageGift, a.RetentionRate, a.NewDonorsThisYear))
	out.WriteString(fmt.Sprintf("  📊 %d%% average completeness\n\n", stats.CompletenessMean))

	if len(a.ByCampaign) > 0 {
		out.WriteString("CAMPAIGNS\n")
		names := make([]string, 0, len(a.ByCampaign))
		for name := range a.ByCampaign {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out.WriteString(fmt.Sprintf("  %-20s $%.2f\n", name, a.ByCampaign[name]))
		}
		out.WriteString("\n")
	}

	if len(stats.DueFollowUps) > 0 || len(stats.AtRiskDonors) > 0 || len(stats.Unacknowledged) > 0 || stats.IncompleteCount > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if len(stats.DueFollowUps) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d follow-ups due\n", len(stats.DueFollowUps)))
		}
		if len(stats.AtRiskDonors) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d donors at high retention risk\n", len(stats.AtRiskDonors)))
		}
		if len(stats.Unacknowledged) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d gifts awaiting acknowledgement\n", len(stats.Unacknowledged)))
		}
		if stats.IncompleteCount > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d records under %d%% complete\n", stats.IncompleteCount, IncompleteBelow))
		}
	}

	return out.String()
}

func renderLevels(out *strings.Builder, byLevel map[string]int) {
	maxCount := 0
	for _, n := range byLevel {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, level := range models.GivingLevels {
		n := byLevel[level]

		// 0-10 blocks
		barLength := (n * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-11s %s  %2d\n", level, bar, n))
	}
}
