// ABOUTME: Filtering for contact and donor lists
// ABOUTME: Free-text, categorical and numeric range predicates that never touch the input
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

// Amount fields a numeric range can target.
const (
	AmountTotal   = "totalAmount"
	AmountAverage = "averageDonation"
	AmountCount   = "totalDonations"
)

var ErrUnknownAmountField = errors.New("unknown amount field")

// AmountFields lists the accepted amount field names.
var AmountFields = []string{AmountTotal, AmountAverage, AmountCount}

// ParseAmountField accepts a field name case-insensitively. Empty means the donor total.
func ParseAmountField(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AmountTotal, nil
	}
	for _, f := range AmountFields {
		if strings.EqualFold(f, s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAmountField, s)
}

// Filter narrows a collection. Zero values match everything.
type Filter struct {
	Query       string
	GivingLevel string
	DonorType   string
	Priority    string
	Group       string
	Tag         string
	Role        string

	MinAmount   *float64
	MaxAmount   *float64
	AmountField string

	MinCompleteness *int
	MaxCompleteness *int

	DonorsOnly bool
}

// Select returns the contacts matching f in their original order.
func Select(list []models.Contact, f Filter) []models.Contact {
	out := make([]models.Contact, 0, len(list))
	for i := range list {
		if f.Matches(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// Matches reports whether c passes every predicate of f.
func (f Filter) Matches(c *models.Contact) bool {
	if f.DonorsOnly && !donors.IsDonor(c) {
		return false
	}
	if f.Query != "" && !matchesText(c, f.Query) {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.Group != "" && !c.InGroup(f.Group) {
		return false
	}
	if f.Tag != "" && !c.HasTag(f.Tag) {
		return false
	}
	if f.Role != "" && !c.HasRole(f.Role) {
		return false
	}

	if f.GivingLevel != "" || f.DonorType != "" {
		if !donors.IsDonor(c) {
			return false
		}
		info := models.EnsureDonorInfo(c)
		if f.GivingLevel != "" && info.GivingLevel != f.GivingLevel {
			return false
		}
		if f.DonorType != "" && info.DonorType != f.DonorType {
			return false
		}
	}

	if f.MinAmount != nil || f.MaxAmount != nil {
		amount := Amount(c, f.AmountField)
		if f.MinAmount != nil && amount < *f.MinAmount {
			return false
		}
		if f.MaxAmount != nil && amount > *f.MaxAmount {
			return false
		}
	}

	if f.MinCompleteness != nil && c.DataCompleteness < *f.MinCompleteness {
		return false
	}
	if f.MaxCompleteness != nil && c.DataCompleteness > *f.MaxCompleteness {
		return false
	}
	return true
}

// Amount reads a numeric donor field. Contacts without a donor block have amount 0.
func Amount(c *models.Contact, field string) float64 {
	if c.DonorInfo == nil {
		return 0
	}
	switch field {
	case AmountAverage:
		return c.DonorInfo.AverageDonation
	case AmountCount:
		return float64(c.DonorInfo.TotalDonations)
	default:
		return c.DonorInfo.TotalAmount
	}
}

// matchesText checks the scalar top-level fields. Sub-records and lists are not searched.
func matchesText(c *models.Contact, q string) bool {
	q = strings.ToLower(q)
	for _, v := range scalarFields(c) {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func scalarFields(c *models.Contact) []string {
	return []string{
		c.ID, c.Kind, c.Prefix, c.FirstName, c.LastName, c.Organization, c.Title,
		c.Email, c.Phone, c.Mobile, c.Website,
		c.Address, c.Address2, c.City, c.State, c.ZipCode, c.Country,
		c.Notes, c.CreatedDate, c.LastModified,
		strconv.Itoa(c.DataCompleteness),
		c.Priority, c.LastContact, c.NextFollowUp,
	}
}
