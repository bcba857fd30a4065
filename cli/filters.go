// ABOUTME: Shared filter and sort flags for list and export commands
// ABOUTME: Translates command-line flags into a query.Filter plus sort order
package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/query"
)

type filterFlags struct {
	query      *string
	level      *string
	donorType  *string
	priority   *string
	group      *string
	tag        *string
	role       *string
	min        *float64
	max        *float64
	field      *string
	sort       *string
	descending *bool
}

func addFilterFlags(fs *flag.FlagSet) *filterFlags {
	return &filterFlags{
		query:      fs.String("query", "", "Free-text search across all fields"),
		level:      fs.String("level", "", "Giving level (major, mid-level, grassroots, lapsed, prospect)"),
		donorType:  fs.String("donor-type", "", "Donor type (individual, corporate, foundation, government)"),
		priority:   fs.String("priority", "", "Priority (low, medium, high, urgent)"),
		group:      fs.String("group", "", "Group membership"),
		tag:        fs.String("tag", "", "Tag"),
		role:       fs.String("role", "", "Project role"),
		min:        fs.Float64("min", -1, "Minimum amount (negative disables)"),
		max:        fs.Float64("max", -1, "Maximum amount (negative disables)"),
		field:      fs.String("amount-field", query.AmountTotal, "Amount field for --min/--max and amount sort (totalAmount, averageDonation, totalDonations)"),
		sort:       fs.String("sort", "", "Sort key (name, organization, date, lastGift, completeness, amount)"),
		descending: fs.Bool("desc", false, "Sort descending"),
	}
}

func (f *filterFlags) filter() query.Filter {
	out := query.Filter{
		Query:       *f.query,
		GivingLevel: *f.level,
		DonorType:   *f.donorType,
		Priority:    *f.priority,
		Group:       *f.group,
		Tag:         *f.tag,
		Role:        *f.role,
		AmountField: *f.field,
	}
	if *f.min >= 0 {
		out.MinAmount = f.min
	}
	if *f.max >= 0 {
		out.MaxAmount = f.max
	}
	return out
}

// apply filters and sorts list according to the parsed flags.
func (f *filterFlags) apply(list []models.Contact, donorsOnly bool) ([]models.Contact, error) {
	filter := f.filter()
	filter.DonorsOnly = donorsOnly

	field, err := query.ParseAmountField(filter.AmountField)
	if err != nil {
		return nil, fmt.Errorf("invalid --amount-field: %w", err)
	}
	filter.AmountField = field

	var key query.SortKey
	if *f.sort != "" {
		k, err := query.ParseSortKey(*f.sort)
		if err != nil {
			return nil, fmt.Errorf("invalid --sort: %w", err)
		}
		key = k
	}
	dir := query.Ascending
	if *f.descending {
		dir = query.Descending
	}
	return query.Apply(list, filter, key, dir)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
