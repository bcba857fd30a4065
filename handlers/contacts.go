// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, update_contact, log_contact_interaction, import_vcf and export_contacts
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/export"
	"github.com/harperreed/donorbase/models"
)

type ContactHandlers struct {
	svc *contacts.Service
	// db receives the import log; nil disables logging.
	db             *sql.DB
	defaultCountry string
	followUpDays   int
}

func NewContactHandlers(svc *contacts.Service, database *sql.DB) *ContactHandlers {
	return &ContactHandlers{
		svc:            svc,
		db:             database,
		defaultCountry: models.DefaultCountry,
		followUpDays:   30,
	}
}

// SetDefaults overrides the country and follow-up cadence applied to new records.
func (h *ContactHandlers) SetDefaults(country string, followUpDays int) {
	if country != "" {
		h.defaultCountry = country
	}
	if followUpDays > 0 {
		h.followUpDays = followUpDays
	}
}

type AddContactInput struct {
	FirstName    string   `json:"first_name,omitempty" jsonschema:"Given name (required with last_name unless organization is set)"`
	LastName     string   `json:"last_name,omitempty" jsonschema:"Family name"`
	Organization string   `json:"organization,omitempty" jsonschema:"Organization name"`
	Kind         string   `json:"kind,omitempty" jsonschema:"person or organization (default person)"`
	Title        string   `json:"title,omitempty" jsonschema:"Job title"`
	Email        string   `json:"email,omitempty" jsonschema:"Email address"`
	Phone        string   `json:"phone,omitempty" jsonschema:"Work phone"`
	Mobile       string   `json:"mobile,omitempty" jsonschema:"Mobile phone"`
	Website      string   `json:"website,omitempty" jsonschema:"Website URL"`
	Roles        []string `json:"roles" jsonschema:"Project roles such as donor, volunteer or board (at least one)"`
	Tags         []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	Groups       []string `json:"groups,omitempty" jsonschema:"Groups such as donors, board or staff"`
	Priority     string   `json:"priority,omitempty" jsonschema:"low, medium, high or urgent"`
	Notes        string   `json:"notes,omitempty" jsonschema:"Additional notes"`
}

type ContactOutput struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Organization string   `json:"organization,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Roles        []string `json:"roles"`
	Tags         []string `json:"tags"`
	Priority     string   `json:"priority,omitempty"`
	Completeness int      `json:"completeness"`
	GivingLevel  string   `json:"giving_level,omitempty"`
	DonorType    string   `json:"donor_type,omitempty"`
	TotalGiven   float64  `json:"total_given,omitempty"`
	LastGift     string   `json:"last_gift,omitempty"`
	NextFollowUp string   `json:"next_follow_up,omitempty"`
	LastModified string   `json:"last_modified"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, _ *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	c := models.NewContact(h.svc.Now())
	c.FirstName = strings.TrimSpace(input.FirstName)
	c.LastName = strings.TrimSpace(input.LastName)
	c.Organization = strings.TrimSpace(input.Organization)
	c.Title = input.Title
	c.Email = input.Email
	c.Phone = input.Phone
	c.Mobile = input.Mobile
	c.Website = input.Website
	c.Notes = input.Notes
	c.Country = h.defaultCountry
	c.ProjectRoles = append(c.ProjectRoles, input.Roles...)
	c.Groups = append(c.Groups, input.Groups...)
	for _, tag := range input.Tags {
		c.AddTag(tag)
	}
	if input.Priority != "" {
		c.Priority = input.Priority
	}
	if input.Kind == models.KindOrganization || (input.Kind == "" && c.FirstName == "" && c.LastName == "" && c.Organization != "") {
		c.Kind = models.KindOrganization
	}

	created, err := h.svc.Create(ctx, c)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, contactToOutput(&created), nil
}

type UpdateContactInput struct {
	ID           string   `json:"id" jsonschema:"Contact ID (required)"`
	FirstName    string   `json:"first_name,omitempty" jsonschema:"Updated given name"`
	LastName     string   `json:"last_name,omitempty" jsonschema:"Updated family name"`
	Organization string   `json:"organization,omitempty" jsonschema:"Updated organization"`
	Title        string   `json:"title,omitempty" jsonschema:"Updated title"`
	Email        string   `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone        string   `json:"phone,omitempty" jsonschema:"Updated work phone"`
	Mobile       string   `json:"mobile,omitempty" jsonschema:"Updated mobile phone"`
	Website      string   `json:"website,omitempty" jsonschema:"Updated website"`
	Priority     string   `json:"priority,omitempty" jsonschema:"Updated priority"`
	Notes        string   `json:"notes,omitempty" jsonschema:"Updated notes"`
	AddTags      []string `json:"add_tags,omitempty" jsonschema:"Tags to add"`
	AddRoles     []string `json:"add_roles,omitempty" jsonschema:"Roles to add"`

	DonorType        string   `json:"donor_type,omitempty" jsonschema:"individual, corporate, foundation or government"`
	PreferredContact string   `json:"preferred_contact,omitempty" jsonschema:"Donor's preferred contact method"`
	AddInterests     []string `json:"add_interests,omitempty" jsonschema:"Donor interests to add"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, _ *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	updated, err := h.svc.Update(ctx, input.ID, func(c *models.Contact) error {
		setIfNotEmpty(&c.FirstName, input.FirstName)
		setIfNotEmpty(&c.LastName, input.LastName)
		setIfNotEmpty(&c.Organization, input.Organization)
		setIfNotEmpty(&c.Title, input.Title)
		setIfNotEmpty(&c.Email, input.Email)
		setIfNotEmpty(&c.Phone, input.Phone)
		setIfNotEmpty(&c.Mobile, input.Mobile)
		setIfNotEmpty(&c.Website, input.Website)
		setIfNotEmpty(&c.Priority, input.Priority)
		setIfNotEmpty(&c.Notes, input.Notes)
		for _, tag := range input.AddTags {
			c.AddTag(tag)
		}
		for _, role := range input.AddRoles {
			if role != "" && !c.HasRole(role) {
				c.ProjectRoles = append(c.ProjectRoles, role)
			}
		}
		err := donors.ApplyProfile(c, donors.ProfileUpdate{
			DonorType:        input.DonorType,
			PreferredContact: input.PreferredContact,
			Interests:        input.AddInterests,
		})
		if err != nil {
			return err
		}
		return contacts.Validate(c)
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return nil, contactToOutput(&updated), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	Deleted string `json:"deleted"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, _ *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if input.ID == "" {
		return nil, DeleteContactOutput{}, fmt.Errorf("id is required")
	}
	if err := h.svc.Delete(ctx, input.ID); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil, DeleteContactOutput{Deleted: input.ID}, nil
}

type LogInteractionInput struct {
	ID          string `json:"id" jsonschema:"Contact ID (required)"`
	CadenceDays int    `json:"cadence_days,omitempty" jsonschema:"Days until the next follow-up (default from config)"`
	Note        string `json:"note,omitempty" jsonschema:"Note appended to the contact's notes"`
}

// LogContactInteraction records a touch today and schedules the next follow-up.
func (h *ContactHandlers) LogContactInteraction(ctx context.Context, _ *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}
	cadence := input.CadenceDays
	if cadence <= 0 {
		cadence = h.followUpDays
	}

	next, err := h.svc.Mutate(ctx, func(list []models.Contact) ([]models.Contact, error) {
		out, err := contacts.ScheduleFollowUp(list, input.ID, cadence, h.svc.Now())
		if err != nil || input.Note == "" {
			return out, err
		}
		return contacts.Apply(out, input.ID, func(c *models.Contact) error {
			c.Notes = appendNote(c.Notes, models.Today(h.svc.Now())+": "+input.Note)
			return nil
		}, h.svc.Now())
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}

	c, err := contacts.Get(next, input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, contactToOutput(&c), nil
}

type ImportVCFInput struct {
	Content        string   `json:"content" jsonschema:"vCard text containing one or more cards"`
	FileName       string   `json:"file_name,omitempty" jsonschema:"Original file name, recorded in the import log"`
	Tags           []string `json:"tags,omitempty" jsonschema:"Tags applied to every imported contact"`
	SkipDuplicates bool     `json:"skip_duplicates,omitempty" jsonschema:"Skip cards whose email already exists"`
}

type ImportVCFOutput struct {
	Decoded    int      `json:"decoded"`
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	IDs        []string `json:"ids"`
}

func (h *ContactHandlers) ImportVCF(ctx context.Context, _ *mcp.CallToolRequest, input ImportVCFInput) (*mcp.CallToolResult, ImportVCFOutput, error) {
	result, err := h.svc.ImportVCF(ctx, input.Content, contacts.ImportOptions{
		SkipDuplicates: input.SkipDuplicates,
		Tags:           input.Tags,
	})
	if err != nil {
		return nil, ImportVCFOutput{}, fmt.Errorf("failed to import vcards: %w", err)
	}

	if h.db != nil {
		entry := &db.ImportLog{
			Source:     db.SourceVCF,
			FileName:   input.FileName,
			Decoded:    result.Decoded,
			Imported:   result.Imported,
			Duplicates: result.Duplicates,
		}
		if err := db.CreateImportLog(h.db, entry); err != nil {
			return nil, ImportVCFOutput{}, err
		}
	}

	return nil, ImportVCFOutput{
		Decoded:    result.Decoded,
		Imported:   result.Imported,
		Duplicates: result.Duplicates,
		IDs:        result.IDs,
	}, nil
}

type ExportContactsInput struct {
	Format string `json:"format" jsonschema:"csv or vcf"`
	FilterInput
}

type ExportContactsOutput struct {
	Format   string `json:"format"`
	FileName string `json:"file_name"`
	Count    int    `json:"count"`
	Content  string `json:"content"`
}

func (h *ContactHandlers) ExportContacts(ctx context.Context, _ *mcp.CallToolRequest, input ExportContactsInput) (*mcp.CallToolResult, ExportContactsOutput, error) {
	format := strings.ToLower(input.Format)
	if format == "" {
		format = export.FormatCSV
	}

	list, err := h.svc.List(ctx)
	if err != nil {
		return nil, ExportContactsOutput{}, err
	}
	selected, err := input.FilterInput.apply(list)
	if err != nil {
		return nil, ExportContactsOutput{}, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, selected); err != nil {
		return nil, ExportContactsOutput{}, err
	}

	return nil, ExportContactsOutput{
		Format:   format,
		FileName: export.Filename(format, h.svc.Now()),
		Count:    len(selected),
		Content:  buf.String(),
	}, nil
}

func contactToOutput(c *models.Contact) ContactOutput {
	out := ContactOutput{
		ID:           c.ID,
		Name:         c.FullName(),
		Organization: c.Organization,
		Email:        c.Email,
		Phone:        c.Phone,
		Roles:        c.ProjectRoles,
		Tags:         c.Tags,
		Priority:     c.Priority,
		Completeness: c.DataCompleteness,
		NextFollowUp: c.NextFollowUp,
		LastModified: c.LastModified,
	}
	if c.DonorInfo != nil {
		out.GivingLevel = c.DonorInfo.GivingLevel
		out.DonorType = c.DonorInfo.DonorType
		out.TotalGiven = c.DonorInfo.TotalAmount
		out.LastGift = c.DonorInfo.LastDonationDate
	}
	return out
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
