// ABOUTME: Search and follow-up MCP tool handlers
// ABOUTME: Implements find_contacts and list_followups on top of the query engine
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/query"
)

// FilterInput is shared by every tool that narrows the collection.
type FilterInput struct {
	Query       string   `json:"query,omitempty" jsonschema:"Case-insensitive text matched against every scalar field"`
	GivingLevel string   `json:"giving_level,omitempty" jsonschema:"major, mid-level, grassroots, lapsed or prospect"`
	DonorType   string   `json:"donor_type,omitempty" jsonschema:"individual, corporate, foundation or government"`
	Priority    string   `json:"priority,omitempty" jsonschema:"low, medium, high or urgent"`
	Group       string   `json:"group,omitempty" jsonschema:"Group membership"`
	Tag         string   `json:"tag,omitempty" jsonschema:"Tag"`
	Role        string   `json:"role,omitempty" jsonschema:"Project role"`
	MinAmount   *float64 `json:"min_amount,omitempty" jsonschema:"Lower bound on the amount field"`
	MaxAmount   *float64 `json:"max_amount,omitempty" jsonschema:"Upper bound on the amount field"`
	AmountField string   `json:"amount_field,omitempty" jsonschema:"totalAmount (default), averageDonation or totalDonations"`
	DonorsOnly  bool     `json:"donors_only,omitempty" jsonschema:"Only contacts under the donor lens"`
	Sort        string   `json:"sort,omitempty" jsonschema:"name, organization, date, lastGift, completeness or amount"`
	Descending  bool     `json:"descending,omitempty" jsonschema:"Sort descending"`
}

func (in FilterInput) filter() query.Filter {
	return query.Filter{
		Query:       in.Query,
		GivingLevel: in.GivingLevel,
		DonorType:   in.DonorType,
		Priority:    in.Priority,
		Group:       in.Group,
		Tag:         in.Tag,
		Role:        in.Role,
		MinAmount:   in.MinAmount,
		MaxAmount:   in.MaxAmount,
		AmountField: in.AmountField,
		DonorsOnly:  in.DonorsOnly,
	}
}

func (in FilterInput) apply(list []models.Contact) ([]models.Contact, error) {
	f := in.filter()
	field, err := query.ParseAmountField(f.AmountField)
	if err != nil {
		return nil, err
	}
	f.AmountField = field

	var key query.SortKey
	if in.Sort != "" {
		k, err := query.ParseSortKey(in.Sort)
		if err != nil {
			return nil, err
		}
		key = k
	}
	dir := query.Ascending
	if in.Descending {
		dir = query.Descending
	}
	return query.Apply(list, f, key, dir)
}

type QueryHandlers struct {
	svc *contacts.Service
}

func NewQueryHandlers(svc *contacts.Service) *QueryHandlers {
	return &QueryHandlers{svc: svc}
}

type FindContactsInput struct {
	FilterInput
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Total    int             `json:"total"`
}

func (h *QueryHandlers) FindContacts(ctx context.Context, _ *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, FindContactsOutput{}, err
	}

	matched, err := input.apply(list)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	out := FindContactsOutput{Contacts: []ContactOutput{}, Total: len(matched)}
	for i := range matched {
		if i == limit {
			break
		}
		out.Contacts = append(out.Contacts, contactToOutput(&matched[i]))
	}
	return nil, out, nil
}

type ListFollowUpsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of results (default 20)"`
}

type FollowUpOutput struct {
	Contact     ContactOutput `json:"contact"`
	DaysOverdue int           `json:"days_overdue"`
}

type ListFollowUpsOutput struct {
	FollowUps []FollowUpOutput `json:"follow_ups"`
}

func (h *QueryHandlers) ListFollowUps(ctx context.Context, _ *mcp.CallToolRequest, input ListFollowUpsInput) (*mcp.CallToolResult, ListFollowUpsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, ListFollowUpsOutput{}, err
	}

	out := ListFollowUpsOutput{FollowUps: []FollowUpOutput{}}
	for i, f := range contacts.DueFollowUps(list, h.svc.Now()) {
		if i == limit {
			break
		}
		out.FollowUps = append(out.FollowUps, FollowUpOutput{
			Contact:     contactToOutput(&f.Contact),
			DaysOverdue: f.DaysOverdue,
		})
	}
	return nil, out, nil
}
