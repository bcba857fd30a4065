// ABOUTME: Donor CLI commands
// ABOUTME: Record, acknowledge and remove gifts, reclassify donors and print analytics
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

// AddDonationCommand records a gift against a contact.
func AddDonationCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-donation", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "Donation amount (required)")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default today)")
	kind := fs.String("type", models.DonationCash, "cash, check, credit, stock, in-kind or planned")
	method := fs.String("method", "", "Payment method detail")
	campaign := fs.String("campaign", "", "Campaign")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	c, err := app.Donors.RecordDonation(context.Background(), id, models.Donation{
		Amount:   *amount,
		Date:     *date,
		Type:     *kind,
		Method:   *method,
		Campaign: *campaign,
		Notes:    *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to add donation: %w", err)
	}

	info := c.DonorInfo
	d := info.Donations[len(info.Donations)-1]
	out := app.out()
	_, _ = fmt.Fprintf(out, "✓ Donation recorded: $%.2f from %s (ID: %s)\n", d.Amount, c.FullName(), d.ID)
	_, _ = fmt.Fprintf(out, "  Lifetime: $%.2f over %d gift(s)\n", info.TotalAmount, info.TotalDonations)
	_, _ = fmt.Fprintf(out, "  Giving level: %s\n", info.GivingLevel)
	return nil
}

// AckDonationCommand marks a gift as acknowledged.
func AckDonationCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("ack-donation", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: ack-donation <contact-id> <donation-id>")
	}

	c, err := app.Donors.AcknowledgeDonation(context.Background(), fs.Arg(0), fs.Arg(1))
	if err != nil {
		return fmt.Errorf("failed to acknowledge donation: %w", err)
	}

	_, _ = fmt.Fprintf(app.out(), "✓ Donation acknowledged: %s for %s\n", fs.Arg(1), c.FullName())
	return nil
}

// RemoveDonationCommand deletes a gift and recomputes the donor's totals.
func RemoveDonationCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("remove-donation", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: remove-donation <contact-id> <donation-id>")
	}

	c, err := app.Donors.RemoveDonation(context.Background(), fs.Arg(0), fs.Arg(1))
	if err != nil {
		return fmt.Errorf("failed to remove donation: %w", err)
	}

	_, _ = fmt.Fprintf(app.out(), "✓ Donation removed: %s (lifetime now $%.2f, level %s)\n",
		fs.Arg(1), c.DonorInfo.TotalAmount, c.DonorInfo.GivingLevel)
	return nil
}

// GivingLevelCommand reclassifies one donor, or every donor when no ID is given.
func GivingLevelCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("giving-level", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()
	if fs.NArg() == 0 {
		n, err := app.Donors.UpdateAllGivingLevels(ctx)
		if err != nil {
			return fmt.Errorf("failed to update giving levels: %w", err)
		}
		_, _ = fmt.Fprintf(app.out(), "✓ Giving levels updated for %d donor(s)\n", n)
		return nil
	}

	c, err := app.Donors.UpdateGivingLevel(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to update giving level: %w", err)
	}
	_, _ = fmt.Fprintf(app.out(), "✓ %s: %s (%s, retention risk %s)\n",
		c.FullName(), c.DonorInfo.GivingLevel, c.DonorInfo.Recency, c.DonorInfo.RetentionRisk)
	return nil
}

// ListDonorsCommand lists donors matching the filter flags.
func ListDonorsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filters := addFilterFlags(fs)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	profiles, err := app.Donors.Profiles(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load donors: %w", err)
	}

	matched, err := filters.apply(profiles, true)
	if err != nil {
		return err
	}

	out := app.out()
	if len(matched) == 0 {
		_, _ = fmt.Fprintln(out, "No donors found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tLEVEL\tTYPE\tTOTAL\tGIFTS\tLAST GIFT\tRISK\tPROFILE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t----\t-----\t-----\t---------\t----\t-------\t--")

	for i, c := range matched {
		if i == *limit {
			break
		}
		info := c.DonorInfo
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%d\t%s\t%s\t%d%%\t%s\n",
			c.FullName(), info.GivingLevel, info.DonorType, info.TotalAmount, info.TotalDonations,
			orDash(info.LastDonationDate), orDash(info.RetentionRisk), donors.ProfileCompleteness(&c), shortID(c.ID))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nTotal: %d donor(s)\n", len(matched))
	return nil
}

// DonorStatsCommand prints the donor analytics rollup.
func DonorStatsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print as JSON")
	_ = fs.Parse(args)

	a, err := app.Donors.Analytics(context.Background())
	if err != nil {
		return fmt.Errorf("failed to compute analytics: %w", err)
	}

	out := app.out()
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	_, _ = fmt.Fprintln(out, "DONOR ANALYTICS")
	_, _ = fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(out, "  Donors:          %d\n", a.TotalDonors)
	_, _ = fmt.Fprintf(out, "  Total raised:    $%.2f\n", a.TotalRaised)
	_, _ = fmt.Fprintf(out, "  Average gift:    $%.2f\n", a.AverageGift)
	_, _ = fmt.Fprintf(out, "  Retention rate:  %.1f%%\n", a.RetentionRate)
	_, _ = fmt.Fprintf(out, "  New this year:   %d\n", a.NewDonorsThisYear)
	_, _ = fmt.Fprintf(out, "  Acknowledged:    %d / %d\n", a.Acknowledged, a.Acknowledged+a.Unacknowledged)

	_, _ = fmt.Fprintln(out, "\nBY LEVEL")
	for _, level := range models.GivingLevels {
		_, _ = fmt.Fprintf(out, "  %-12s %d\n", level, a.ByLevel[level])
	}

	if len(a.ByCampaign) > 0 {
		_, _ = fmt.Fprintln(out, "\nBY CAMPAIGN")
		for _, name := range sortedKeys(a.ByCampaign) {
			_, _ = fmt.Fprintf(out, "  %-20s $%.2f\n", name, a.ByCampaign[name])
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
