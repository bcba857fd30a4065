package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/harperreed/donorbase/models"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

type SortKey string

const (
	SortName         SortKey = "name"
	SortOrganization SortKey = "organization"
	SortDate         SortKey = "date"
	SortLastGift     SortKey = "lastGift"
	SortCompleteness SortKey = "completeness"
	SortAmount       SortKey = "amount"
)

// SortKeys lists every key in the order UIs cycle through them.
var SortKeys = []SortKey{SortName, SortOrganization, SortDate, SortLastGift, SortCompleteness, SortAmount}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

var comparators = map[SortKey]func(a, b *models.Contact) int{
	SortName: func(a, b *models.Contact) int {
		return strings.Compare(sortName(a), sortName(b))
	},
	SortOrganization: func(a, b *models.Contact) int {
		return strings.Compare(strings.ToLower(a.Organization), strings.ToLower(b.Organization))
	},
	SortDate: func(a, b *models.Contact) int {
		return parsed(a.LastModified).Compare(parsed(b.LastModified))
	},
	SortLastGift: func(a, b *models.Contact) int {
		return parsed(lastGift(a)).Compare(parsed(lastGift(b)))
	},
	SortCompleteness: func(a, b *models.Contact) int {
		return cmp.Compare(a.DataCompleteness, b.DataCompleteness)
	},
	SortAmount: func(a, b *models.Contact) int {
		return cmp.Compare(Amount(a, AmountTotal), Amount(b, AmountTotal))
	},
}

// Sort returns a stably sorted copy of list. Descending order compares with the operands
// swapped, so contacts with equal keys keep their input order in both directions.
func Sort(list []models.Contact, key SortKey, dir Direction) ([]models.Contact, error) {
	return SortBy(list, key, dir, AmountTotal)
}

// SortBy is Sort with the amount key reading amountField instead of the donor total.
func SortBy(list []models.Contact, key SortKey, dir Direction, amountField string) ([]models.Contact, error) {
	compare, ok := comparators[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	if key == SortAmount {
		compare = func(a, b *models.Contact) int {
			return cmp.Compare(Amount(a, amountField), Amount(b, amountField))
		}
	}

	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b models.Contact) int {
		if dir == Descending {
			return compare(&b, &a)
		}
		return compare(&a, &b)
	})
	return out, nil
}

// Apply filters then sorts. An empty key keeps the filtered order.
func Apply(list []models.Contact, f Filter, key SortKey, dir Direction) ([]models.Contact, error) {
	out := Select(list, f)
	if key == "" {
		return out, nil
	}
	return SortBy(out, key, dir, f.AmountField)
}

// ParseSortKey accepts a key name case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown sort direction %q", s)
	}
}

func sortName(c *models.Contact) string {
	return strings.ToLower(c.FirstName + " " + c.LastName)
}

func lastGift(c *models.Contact) string {
	if c.DonorInfo == nil {
		return ""
	}
	return c.DonorInfo.LastDonationDate
}

// parsed maps missing or malformed dates to the zero time so they sort first.
func parsed(s string) time.Time {
	t, _ := models.ParseDate(s)
	return t
}
