// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/donorbase/handlers"
)

// NewMCPServer registers every donorbase tool, resource and prompt.
func NewMCPServer(app *App, version string) *mcp.Server {
	contactHandlers := handlers.NewContactHandlers(app.Contacts, app.DB)
	contactHandlers.SetDefaults(app.Config.DefaultCountry, app.Config.FollowUpDays)
	queryHandlers := handlers.NewQueryHandlers(app.Contacts)
	donorHandlers := handlers.NewDonorHandlers(app.Donors)
	vizHandlers := handlers.NewVizHandlers(app.Contacts)
	resourceHandlers := handlers.NewResourceHandlers(app.Contacts)
	promptHandlers := handlers.NewPromptHandlers(app.Contacts)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "donorbase",
		Version: version,
	}, nil)

	// Contacts
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact; a name or organization and at least one role are required",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search, filter and sort contacts by text, giving level, donor type, priority, group, tag, role or amount",
	}, queryHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_contact_interaction",
		Description: "Log an interaction with a contact and schedule the next follow-up",
	}, contactHandlers.LogContactInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_followups",
		Description: "List contacts whose follow-up date has arrived, most urgent first",
	}, queryHandlers.ListFollowUps)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_vcf",
		Description: "Import contacts from vCard text",
	}, contactHandlers.ImportVCF)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_contacts",
		Description: "Export filtered contacts as CSV or vCard text",
	}, contactHandlers.ExportContacts)

	// Donors
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_donation",
		Description: "Record a donation for a contact and refresh their giving level",
	}, donorHandlers.AddDonation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "acknowledge_donation",
		Description: "Mark a donation as acknowledged",
	}, donorHandlers.AcknowledgeDonation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_giving_level",
		Description: "Reclassify one donor, or all donors when contact_id is omitted",
	}, donorHandlers.UpdateGivingLevel)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "donor_analytics",
		Description: "Totals, level distribution, retention and acknowledgement counts across all donors",
	}, donorHandlers.DonorAnalytics)

	// Visualization
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz graph of campaigns or of a single donor",
	}, vizHandlers.GenerateGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard",
		Description: "Render the donor dashboard",
	}, vizHandlers.Dashboard)

	// Resources
	for _, r := range []struct{ uri, name string }{
		{"donorbase://contacts", "All contacts"},
		{"donorbase://donors", "Donor profiles"},
		{"donorbase://analytics", "Donor analytics"},
		{"donorbase://followups", "Due follow-ups"},
	} {
		server.AddResource(&mcp.Resource{
			URI:      r.uri,
			Name:     r.name,
			MIMEType: "application/json",
		}, resourceHandlers.ReadResource)
	}

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "donorbase://contacts/{id}",
		Name:        "Contact",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Prompts
	contactArg := &mcp.PromptArgument{Name: "contact_id", Description: "Contact ID", Required: true}

	server.AddPrompt(&mcp.Prompt{
		Name:        "donor-summary",
		Description: "Summarize a donor's giving history and suggest next steps",
		Arguments:   []*mcp.PromptArgument{contactArg},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "thank-you-letter",
		Description: "Draft a thank-you letter for a donation",
		Arguments: []*mcp.PromptArgument{
			contactArg,
			{Name: "donation_id", Description: "Donation ID (default: latest unacknowledged)"},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "lapsed-donor-outreach",
		Description: "Plan re-engagement for donors who have not given in over a year",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-suggestions",
		Description: "Prioritize contacts with a due follow-up",
	}, promptHandlers.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App, version string) error {
	app.Logger.Info("starting donorbase MCP server")

	server := NewMCPServer(app, version)
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
