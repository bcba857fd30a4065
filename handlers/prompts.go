// ABOUTME: MCP prompt handlers for reusable fundraising workflow templates
// ABOUTME: Provides donor summaries, thank-you drafts and lapsed donor outreach prompts
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

type PromptHandlers struct {
	svc *contacts.Service
}

func NewPromptHandlers(svc *contacts.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	args := request.Params.Arguments
	switch name := request.Params.Name; name {
	case "donor-summary":
		return h.donorSummaryPrompt(list, args)
	case "thank-you-letter":
		return h.thankYouLetterPrompt(list, args)
	case "lapsed-donor-outreach":
		return h.lapsedOutreachPrompt(list)
	case "follow-up-suggestions":
		return h.followUpSuggestionsPrompt(list)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) donorSummaryPrompt(list []models.Contact, args map[string]string) (*mcp.GetPromptResult, error) {
	c, err := promptContact(list, args)
	if err != nil {
		return nil, err
	}
	info := models.EnsureDonorInfo(&c)

	var promptText strings.Builder
	promptText.WriteString("Please provide a summary of this donor relationship:\n\n")
	fmt.Fprintf(&promptText, "Name: %s\n", c.FullName())
	if c.Organization != "" && c.Kind != models.KindOrganization {
		fmt.Fprintf(&promptText, "Organization: %s\n", c.Organization)
	}
	if c.Email != "" {
		fmt.Fprintf(&promptText, "Email: %s\n", c.Email)
	}
	fmt.Fprintf(&promptText, "Giving Level: %s\n", info.GivingLevel)
	fmt.Fprintf(&promptText, "Lifetime Giving: $%.2f across %d gifts\n", info.TotalAmount, info.TotalDonations)
	if info.LastDonationDate != "" {
		fmt.Fprintf(&promptText, "Last Gift: %s\n", info.LastDonationDate)
	}
	if info.RetentionRisk != "" {
		fmt.Fprintf(&promptText, "Retention Risk: %s\n", info.RetentionRisk)
	}
	if c.LastContact != "" {
		fmt.Fprintf(&promptText, "Last Contact: %s\n", c.LastContact)
	}
	if len(info.Donations) > 0 {
		promptText.WriteString("\nGift history:\n")
		for _, d := range info.Donations {
			fmt.Fprintf(&promptText, "- %s $%.2f %s", d.Date, d.Amount, d.Type)
			if d.Campaign != "" {
				fmt.Fprintf(&promptText, " (%s)", d.Campaign)
			}
			promptText.WriteString("\n")
		}
	}
	if c.Notes != "" {
		fmt.Fprintf(&promptText, "\nNotes: %s\n", c.Notes)
	}

	promptText.WriteString("\nPlease analyze this donor and provide:")
	promptText.WriteString("\n1. A brief summary of their giving pattern")
	promptText.WriteString("\n2. Recommended next stewardship step")
	promptText.WriteString("\n3. A suggested ask amount with reasoning")

	return userPrompt(fmt.Sprintf("Donor summary for: %s", c.FullName()), promptText.String()), nil
}

func (h *PromptHandlers) thankYouLetterPrompt(list []models.Contact, args map[string]string) (*mcp.GetPromptResult, error) {
	c, err := promptContact(list, args)
	if err != nil {
		return nil, err
	}
	info := models.EnsureDonorInfo(&c)

	var gift *models.Donation
	for i := range info.Donations {
		d := &info.Donations[i]
		if id := args["donation_id"]; id != "" {
			if d.ID == id {
				gift = d
			}
			continue
		}
		if !d.Acknowledged {
			gift = d
		}
	}
	if gift == nil {
		return nil, fmt.Errorf("no donation to acknowledge for %s", c.FullName())
	}

	var promptText strings.Builder
	fmt.Fprintf(&promptText, "Draft a warm thank-you letter to %s.\n\n", c.FullName())
	fmt.Fprintf(&promptText, "Gift: $%.2f (%s) on %s\n", gift.Amount, gift.Type, gift.Date)
	if gift.Campaign != "" {
		fmt.Fprintf(&promptText, "Campaign: %s\n", gift.Campaign)
	}
	if info.TotalDonations > 1 {
		fmt.Fprintf(&promptText, "This is gift number %d; lifetime giving is $%.2f.\n", info.TotalDonations, info.TotalAmount)
	} else {
		promptText.WriteString("This is their first gift.\n")
	}
	if gift.Type == models.DonationInKind || gift.Type == models.DonationStock {
		promptText.WriteString("Include the non-cash gift language required for tax receipts.\n")
	}
	promptText.WriteString("\nKeep it under 250 words and mention the impact of the gift.")

	return userPrompt(fmt.Sprintf("Thank-you letter for: %s", c.FullName()), promptText.String()), nil
}

func (h *PromptHandlers) lapsedOutreachPrompt(list []models.Contact) (*mcp.GetPromptResult, error) {
	now := h.svc.Now()

	var promptText strings.Builder
	promptText.WriteString("Donors who have not given in over a year:\n\n")

	count := 0
	for _, c := range donors.Profiles(list) {
		if donors.Recency(*c.DonorInfo, now) != models.RecencyLapsed {
			continue
		}
		fmt.Fprintf(&promptText, "- %s: last gift %s, lifetime $%.2f\n",
			c.FullName(), c.DonorInfo.LastDonationDate, c.DonorInfo.TotalAmount)
		count++
	}
	if count == 0 {
		promptText.WriteString("No lapsed donors.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Rank these donors by likelihood to renew")
	promptText.WriteString("\n2. Draft a short re-engagement message for the top three")

	return userPrompt("Lapsed donor outreach", promptText.String()), nil
}

func (h *PromptHandlers) followUpSuggestionsPrompt(list []models.Contact) (*mcp.GetPromptResult, error) {
	var promptText strings.Builder
	promptText.WriteString("Contacts with a follow-up due:\n\n")

	due := contacts.DueFollowUps(list, h.svc.Now())
	for _, f := range due {
		fmt.Fprintf(&promptText, "- %s (%d days overdue, priority %s)\n",
			f.Contact.FullName(), f.DaysOverdue, f.Contact.Priority)
	}
	if len(due) == 0 {
		promptText.WriteString("No follow-ups are due.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which contacts to reach out to first")
	promptText.WriteString("\n2. Suggest a personalized approach for each")

	return userPrompt("Follow-up suggestions", promptText.String()), nil
}

func promptContact(list []models.Contact, args map[string]string) (models.Contact, error) {
	id, ok := args["contact_id"]
	if !ok || id == "" {
		return models.Contact{}, fmt.Errorf("contact_id is required")
	}
	c, err := contacts.Get(list, id)
	if err != nil {
		return models.Contact{}, fmt.Errorf("failed to fetch contact: %w", err)
	}
	return c, nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
