// ABOUTME: Data models for nonprofit contacts and donors
// ABOUTME: Defines Contact, DonorInfo, Donation, Board/Staff info and their constants
package models

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Contact is a person or organization tracked by the nonprofit.
type Contact struct {
	ID           string `json:"id"`
	Kind         string `json:"kind,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Organization string `json:"organization,omitempty"`
	Title        string `json:"title,omitempty"`

	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
	Website string `json:"website,omitempty"`

	Address        string         `json:"address,omitempty"`
	Address2       string         `json:"address2,omitempty"`
	City           string         `json:"city,omitempty"`
	State          string         `json:"state,omitempty"`
	ZipCode        string         `json:"zipCode,omitempty"`
	Country        string         `json:"country,omitempty"`
	AddressHistory []AddressEntry `json:"addressHistory"`

	ProjectRoles []string `json:"projectRoles"`
	Tags         []string `json:"tags"`
	Groups       []string `json:"groups"`
	Notes        string   `json:"notes,omitempty"`

	CreatedDate      string `json:"createdDate"`
	LastModified     string `json:"lastModified"`
	DataCompleteness int    `json:"dataCompleteness"`
	Priority         string `json:"priority,omitempty"`
	LastContact      string `json:"lastContact,omitempty"`
	NextFollowUp     string `json:"nextFollowUp,omitempty"`

	BoardInfo *BoardInfo `json:"boardInfo,omitempty"`
	StaffInfo *StaffInfo `json:"staffInfo,omitempty"`
	DonorInfo *DonorInfo `json:"donorInfo,omitempty"`
}

// AddressEntry is one address in a contact's history. An empty EndDate marks the current one.
type AddressEntry struct {
	Address   string `json:"address,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode,omitempty"`
	Country   string `json:"country,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
}

type BoardInfo struct {
	Position   string   `json:"position,omitempty"`
	TermStart  string   `json:"termStart,omitempty"`
	TermEnd    string   `json:"termEnd,omitempty"`
	Committees []string `json:"committees"`
	Officer    bool     `json:"officer"`
}

type StaffInfo struct {
	Department     string `json:"department,omitempty"`
	Position       string `json:"position,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	Supervisor     string `json:"supervisor,omitempty"`
}

// DonorInfo is the donor extension of a contact. All totals are derived from Donations.
type DonorInfo struct {
	DonorID           string     `json:"donorId"`
	DonorType         string     `json:"donorType,omitempty"`
	Donations         []Donation `json:"donations"`
	TotalDonations    int        `json:"totalDonations"`
	TotalAmount       float64    `json:"totalAmount"`
	AverageDonation   float64    `json:"averageDonation"`
	GivingLevel       string     `json:"givingLevel"`
	Recency           string     `json:"recency"`
	RetentionRisk     string     `json:"retentionRisk"`
	EngagementScore   int        `json:"engagementScore"`
	FirstDonationDate string     `json:"firstDonationDate,omitempty"`
	LastDonationDate  string     `json:"lastDonationDate,omitempty"`
	PreferredContact  string     `json:"preferredContact,omitempty"`
	Interests         []string   `json:"interests"`
}

// Donation is a single entry in a donor's ledger.
type Donation struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	Method       string  `json:"method,omitempty"`
	Campaign     string  `json:"campaign,omitempty"`
	Acknowledged bool    `json:"acknowledged"`
	Notes        string  `json:"notes,omitempty"`
}

// Contact kinds.
const (
	KindPerson       = "person"
	KindOrganization = "organization"
)

// Priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Giving level constants.
const (
	LevelMajor      = "major"
	LevelMidLevel   = "mid-level"
	LevelGrassroots = "grassroots"
	LevelLapsed     = "lapsed"
	LevelProspect   = "prospect"
)

// Recency constants.
const (
	RecencyActive = "active"
	RecencyLapsed = "lapsed"
	RecencyNone   = "none"
)

// Retention risk constants.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Donation type constants.
const (
	DonationCash    = "cash"
	DonationCheck   = "check"
	DonationCredit  = "credit"
	DonationStock   = "stock"
	DonationInKind  = "in-kind"
	DonationPlanned = "planned"
)

// Donor type constants.
const (
	DonorIndividual = "individual"
	DonorCorporate  = "corporate"
	DonorFoundation = "foundation"
	DonorGovernment = "government"
)

// Tag and group names that put a contact under the donor lens.
const (
	TagDonor    = "donor"
	GroupDonors = "donors"
	GroupBoard  = "board"
	GroupStaff  = "staff"
)

const DefaultCountry = "USA"

// GivingLevels lists every giving level in display order.
var GivingLevels = []string{LevelMajor, LevelMidLevel, LevelGrassroots, LevelLapsed, LevelProspect}

var validDonationTypes = map[string]bool{
	DonationCash:    true,
	DonationCheck:   true,
	DonationCredit:  true,
	DonationStock:   true,
	DonationInKind:  true,
	DonationPlanned: true,
}

// IsValidDonationType reports whether t is one of the known donation types.
func IsValidDonationType(t string) bool {
	return validDonationTypes[t]
}

var validPriorities = map[string]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// IsValidPriority reports whether p is one of the known priorities.
func IsValidPriority(p string) bool {
	_, ok := validPriorities[p]
	return ok
}

var validDonorTypes = map[string]bool{
	DonorIndividual: true,
	DonorCorporate:  true,
	DonorFoundation: true,
	DonorGovernment: true,
}

// IsValidDonorType reports whether t is one of the known donor types.
func IsValidDonorType(t string) bool {
	return validDonorTypes[t]
}

// PriorityRank orders priorities from urgent (0) to low (3). Unknown values rank as medium.
func PriorityRank(p string) int {
	if r, ok := validPriorities[p]; ok {
		return r
	}
	return validPriorities[PriorityMedium]
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewID returns a fresh ULID. IDs sort by creation time and are never reused.
func NewID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// NewContact builds an empty contact with a fresh identity and default values.
func NewContact(now time.Time) Contact {
	today := Today(now)
	return Contact{
		ID:             NewID(now),
		Kind:           KindPerson,
		Country:        DefaultCountry,
		AddressHistory: []AddressEntry{},
		ProjectRoles:   []string{},
		Tags:           []string{},
		Groups:         []string{},
		CreatedDate:    today,
		LastModified:   today,
		Priority:       PriorityMedium,
	}
}

// IsOrganization reports whether the organization name is authoritative over the person name.
func (c *Contact) IsOrganization() bool {
	if c.Kind == KindOrganization {
		return true
	}
	if c.Kind == KindPerson {
		return false
	}
	return strings.TrimSpace(c.Organization) != "" &&
		strings.TrimSpace(c.FirstName) == "" &&
		strings.TrimSpace(c.LastName) == ""
}

// PersonName joins first and last name.
func (c *Contact) PersonName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// FullName is the display name used in exports.
func (c *Contact) FullName() string {
	if c.IsOrganization() && c.Organization != "" {
		return c.Organization
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Prefix, c.FirstName, c.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// HasTag reports whether the contact carries the tag.
func (c *Contact) HasTag(tag string) bool {
	return containsString(c.Tags, tag)
}

// InGroup reports whether the contact belongs to the group.
func (c *Contact) InGroup(group string) bool {
	return containsString(c.Groups, group)
}

// HasRole reports whether the contact has the project role.
func (c *Contact) HasRole(role string) bool {
	return containsString(c.ProjectRoles, role)
}

func (c *Contact) HasBoardRole() bool {
	return c.BoardInfo != nil || c.InGroup(GroupBoard)
}

func (c *Contact) HasStaffRole() bool {
	return c.StaffInfo != nil || c.InGroup(GroupStaff)
}

// AddTag adds tag unless it is already present.
func (c *Contact) AddTag(tag string) {
	if tag != "" && !c.HasTag(tag) {
		c.Tags = append(c.Tags, tag)
	}
}

// CurrentAddress returns the open entry of the address history, if any.
func (c *Contact) CurrentAddress() (AddressEntry, bool) {
	for i := len(c.AddressHistory) - 1; i >= 0; i-- {
		if c.AddressHistory[i].EndDate == "" {
			return c.AddressHistory[i], true
		}
	}
	return AddressEntry{}, false
}

// Clone returns a deep copy that shares no slices or sub-records with c.
func (c Contact) Clone() Contact {
	out := c
	out.AddressHistory = cloneSlice(c.AddressHistory)
	out.ProjectRoles = cloneSlice(c.ProjectRoles)
	out.Tags = cloneSlice(c.Tags)
	out.Groups = cloneSlice(c.Groups)
	if c.BoardInfo != nil {
		b := *c.BoardInfo
		b.Committees = cloneSlice(b.Committees)
		out.BoardInfo = &b
	}
	if c.StaffInfo != nil {
		s := *c.StaffInfo
		out.StaffInfo = &s
	}
	if c.DonorInfo != nil {
		d := c.DonorInfo.Clone()
		out.DonorInfo = &d
	}
	return out
}

// Clone returns a deep copy of the donor block.
func (d DonorInfo) Clone() DonorInfo {
	out := d
	out.Donations = cloneSlice(d.Donations)
	out.Interests = cloneSlice(d.Interests)
	return out
}

// EnsureDonorInfo returns a copy of the contact's donor block, or a zeroed one when absent.
// It never modifies c.
func EnsureDonorInfo(c *Contact) DonorInfo {
	if c.DonorInfo != nil {
		return c.DonorInfo.Clone()
	}
	return DonorInfo{
		DonorID:       c.ID,
		DonorType:     DonorIndividual,
		Donations:     []Donation{},
		GivingLevel:   LevelProspect,
		Recency:       RecencyNone,
		RetentionRisk: RiskHigh,
		Interests:     []string{},
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
