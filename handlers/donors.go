// ABOUTME: Donor MCP tool handlers
// ABOUTME: Implements add_donation, acknowledge_donation, update_giving_level and donor_analytics
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

type DonorHandlers struct {
	svc *donors.Service
}

func NewDonorHandlers(svc *donors.Service) *DonorHandlers {
	return &DonorHandlers{svc: svc}
}

type AddDonationInput struct {
	ContactID string  `json:"contact_id" jsonschema:"Contact ID (required)"`
	Amount    float64 `json:"amount" jsonschema:"Donation amount in dollars"`
	Date      string  `json:"date,omitempty" jsonschema:"Date as YYYY-MM-DD (default today)"`
	Type      string  `json:"type,omitempty" jsonschema:"cash, check, credit, stock, in-kind or planned (default cash)"`
	Method    string  `json:"method,omitempty" jsonschema:"Payment method detail"`
	Campaign  string  `json:"campaign,omitempty" jsonschema:"Campaign the gift supports"`
	Notes     string  `json:"notes,omitempty" jsonschema:"Notes about the gift"`
}

type DonorOutput struct {
	ContactOutput
	DonationID      string  `json:"donation_id,omitempty"`
	TotalDonations  int     `json:"total_donations"`
	AverageDonation float64 `json:"average_donation"`
	Recency         string  `json:"recency"`
	RetentionRisk   string  `json:"retention_risk"`
	EngagementScore int     `json:"engagement_score"`

	ProfileCompleteness int `json:"profile_completeness"`
}

func (h *DonorHandlers) AddDonation(ctx context.Context, _ *mcp.CallToolRequest, input AddDonationInput) (*mcp.CallToolResult, DonorOutput, error) {
	if input.ContactID == "" {
		return nil, DonorOutput{}, fmt.Errorf("contact_id is required")
	}

	c, err := h.svc.RecordDonation(ctx, input.ContactID, models.Donation{
		Amount:   input.Amount,
		Date:     input.Date,
		Type:     input.Type,
		Method:   input.Method,
		Campaign: input.Campaign,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, DonorOutput{}, fmt.Errorf("failed to add donation: %w", err)
	}

	out := donorToOutput(&c)
	if n := len(c.DonorInfo.Donations); n > 0 {
		out.DonationID = c.DonorInfo.Donations[n-1].ID
	}
	return nil, out, nil
}

type AcknowledgeDonationInput struct {
	ContactID  string `json:"contact_id" jsonschema:"Contact ID (required)"`
	DonationID string `json:"donation_id" jsonschema:"Donation ID (required)"`
}

func (h *DonorHandlers) AcknowledgeDonation(ctx context.Context, _ *mcp.CallToolRequest, input AcknowledgeDonationInput) (*mcp.CallToolResult, DonorOutput, error) {
	if input.ContactID == "" || input.DonationID == "" {
		return nil, DonorOutput{}, fmt.Errorf("contact_id and donation_id are required")
	}

	c, err := h.svc.AcknowledgeDonation(ctx, input.ContactID, input.DonationID)
	if err != nil {
		return nil, DonorOutput{}, fmt.Errorf("failed to acknowledge donation: %w", err)
	}
	return nil, donorToOutput(&c), nil
}

type UpdateGivingLevelInput struct {
	ContactID string `json:"contact_id,omitempty" jsonschema:"Contact ID; omit to reclassify every donor"`
}

type UpdateGivingLevelOutput struct {
	Updated int          `json:"updated"`
	Donor   *DonorOutput `json:"donor,omitempty"`
}

func (h *DonorHandlers) UpdateGivingLevel(ctx context.Context, _ *mcp.CallToolRequest, input UpdateGivingLevelInput) (*mcp.CallToolResult, UpdateGivingLevelOutput, error) {
	if input.ContactID == "" {
		n, err := h.svc.UpdateAllGivingLevels(ctx)
		if err != nil {
			return nil, UpdateGivingLevelOutput{}, fmt.Errorf("failed to update giving levels: %w", err)
		}
		return nil, UpdateGivingLevelOutput{Updated: n}, nil
	}

	c, err := h.svc.UpdateGivingLevel(ctx, input.ContactID)
	if err != nil {
		return nil, UpdateGivingLevelOutput{}, fmt.Errorf("failed to update giving level: %w", err)
	}
	out := donorToOutput(&c)
	return nil, UpdateGivingLevelOutput{Updated: 1, Donor: &out}, nil
}

type DonorAnalyticsInput struct{}

func (h *DonorHandlers) DonorAnalytics(ctx context.Context, _ *mcp.CallToolRequest, _ DonorAnalyticsInput) (*mcp.CallToolResult, donors.Analytics, error) {
	a, err := h.svc.Analytics(ctx)
	if err != nil {
		return nil, donors.Analytics{}, fmt.Errorf("failed to compute analytics: %w", err)
	}
	return nil, a, nil
}

func donorToOutput(c *models.Contact) DonorOutput {
	out := DonorOutput{
		ContactOutput:       contactToOutput(c),
		ProfileCompleteness: donors.ProfileCompleteness(c),
	}
	if c.DonorInfo != nil {
		out.TotalDonations = c.DonorInfo.TotalDonations
		out.AverageDonation = c.DonorInfo.AverageDonation
		out.Recency = c.DonorInfo.Recency
		out.RetentionRisk = c.DonorInfo.RetentionRisk
		out.EngagementScore = c.DonorInfo.EngagementScore
	}
	return out
}
