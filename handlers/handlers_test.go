// ABOUTME: Tests for the MCP tool, resource and prompt handlers
// ABOUTME: Runs each handler against an in-memory SQLite contact store
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/query"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*sql.DB, *contacts.Service) {
	t.Helper()
	database, err := db.OpenDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	svc := contacts.NewService(db.NewContactStore(database, zap.NewNop()), zap.NewNop())
	svc.SetClock(func() time.Time { return fixedNow })
	return database, svc
}

func addJane(t *testing.T, h *ContactHandlers) ContactOutput {
	t.Helper()
	_, out, err := h.AddContact(context.Background(), nil, AddContactInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.org",
		Roles:     []string{"donor"},
	})
	require.NoError(t, err)
	return out
}

func TestAddContactHandler(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)

	out := addJane(t, h)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Jane Doe", out.Name)
	assert.Equal(t, "jane@example.org", out.Email)
	assert.Greater(t, out.Completeness, 0)
}

func TestAddContactRequiresRole(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)

	_, _, err := h.AddContact(context.Background(), nil, AddContactInput{FirstName: "No", LastName: "Role"})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "projectRoles", verr.Field)
}

func TestAddContactOrganizationKind(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)

	_, out, err := h.AddContact(context.Background(), nil, AddContactInput{
		Organization: "Acme Foundation",
		Roles:        []string{"funder"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Foundation", out.Name)
}

func TestUpdateContactHandler(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	jane := addJane(t, h)

	_, out, err := h.UpdateContact(context.Background(), nil, UpdateContactInput{
		ID:       jane.ID,
		Phone:    "555-0100",
		AddTags:  []string{"gala"},
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, "555-0100", out.Phone)
	assert.Contains(t, out.Tags, "gala")
	assert.Equal(t, models.PriorityHigh, out.Priority)
	assert.Greater(t, out.Completeness, jane.Completeness)
}

func TestUpdateContactDonorProfile(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	ctx := context.Background()
	jane := addJane(t, h)
	_, sam, err := h.AddContact(ctx, nil, AddContactInput{FirstName: "Sam", LastName: "Lee", Roles: []string{"donor"}})
	require.NoError(t, err)

	_, out, err := h.UpdateContact(ctx, nil, UpdateContactInput{
		ID:               jane.ID,
		DonorType:        models.DonorCorporate,
		PreferredContact: "email",
		AddInterests:     []string{"arts"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DonorCorporate, out.DonorType)

	_, _, err = h.UpdateContact(ctx, nil, UpdateContactInput{ID: sam.ID, DonorType: models.DonorIndividual})
	require.NoError(t, err)

	q := NewQueryHandlers(svc)
	_, found, err := q.FindContacts(ctx, nil, FindContactsInput{FilterInput: FilterInput{DonorType: models.DonorCorporate}})
	require.NoError(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, jane.ID, found.Contacts[0].ID)

	_, found, err = q.FindContacts(ctx, nil, FindContactsInput{FilterInput: FilterInput{DonorType: models.DonorIndividual}})
	require.NoError(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, sam.ID, found.Contacts[0].ID)

	stored, err := svc.Get(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "email", stored.DonorInfo.PreferredContact)
	assert.Equal(t, []string{"arts"}, stored.DonorInfo.Interests)

	_, _, err = h.UpdateContact(ctx, nil, UpdateContactInput{ID: sam.ID, DonorType: "alien"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "donorType", verr.Field)
}

func TestUpdateContactRejectsUnknownPriority(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	jane := addJane(t, h)

	_, _, err := h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: jane.ID, Priority: "asap"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)
}

func TestUpdateContactMissing(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)

	_, _, err := h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: "nope", Phone: "1"})
	assert.ErrorIs(t, err, models.ErrContactNotFound)
}

func TestDeleteContactHandler(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	jane := addJane(t, h)

	_, out, err := h.DeleteContact(context.Background(), nil, DeleteContactInput{ID: jane.ID})
	require.NoError(t, err)
	assert.Equal(t, jane.ID, out.Deleted)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLogContactInteraction(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	jane := addJane(t, h)

	_, out, err := h.LogContactInteraction(context.Background(), nil, LogInteractionInput{
		ID:          jane.ID,
		CadenceDays: 14,
		Note:        "Called about the gala",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-28", out.NextFollowUp)

	c, err := svc.Get(context.Background(), jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", c.LastContact)
	assert.Equal(t, "2026-03-14: Called about the gala", c.Notes)
}

func TestImportVCFHandlerWritesImportLog(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	addJane(t, h)

	vcf := "BEGIN:VCARD\r\nVERSION:3.0\r\nN:Doe;Jane;;;\r\nFN:Jane Doe\r\nEMAIL:jane@example.org\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nN:Smith;Sam;;;\r\nFN:Sam Smith\r\nEMAIL:sam@example.org\r\nEND:VCARD\r\n"

	_, out, err := h.ImportVCF(context.Background(), nil, ImportVCFInput{
		Content:        vcf,
		FileName:       "board.vcf",
		SkipDuplicates: true,
		Tags:           []string{"imported"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Decoded)
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, 1, out.Duplicates)

	logs, err := db.ListImportLogs(database, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "board.vcf", logs[0].FileName)
	assert.Equal(t, db.SourceVCF, logs[0].Source)
}

func TestImportVCFHandlerEmpty(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)

	_, _, err := h.ImportVCF(context.Background(), nil, ImportVCFInput{Content: "not a vcard"})
	assert.ErrorIs(t, err, models.ErrNoValidContactsFound)
}

func TestExportContactsCSV(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	addJane(t, h)

	_, out, err := h.ExportContacts(context.Background(), nil, ExportContactsInput{Format: "CSV"})
	require.NoError(t, err)

	assert.Equal(t, "csv", out.Format)
	assert.Equal(t, 1, out.Count)
	assert.Contains(t, out.Content, `"Jane Doe"`)
	assert.True(t, strings.HasSuffix(out.FileName, ".csv"))
}

func TestFindContactsHandler(t *testing.T) {
	database, svc := setupTestDB(t)
	h := NewContactHandlers(svc, database)
	jane := addJane(t, h)
	_, _, err := h.AddContact(context.Background(), nil, AddContactInput{
		FirstName: "Sam", LastName: "Smith", Roles: []string{"volunteer"},
	})
	require.NoError(t, err)

	q := NewQueryHandlers(svc)

	_, out, err := q.FindContacts(context.Background(), nil, FindContactsInput{
		FilterInput: FilterInput{Query: "jane"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, jane.ID, out.Contacts[0].ID)

	_, out, err = q.FindContacts(context.Background(), nil, FindContactsInput{
		FilterInput: FilterInput{Sort: "name", Descending: true},
		Limit:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Sam Smith", out.Contacts[0].Name)
}

func TestFindContactsBadSortKey(t *testing.T) {
	_, svc := setupTestDB(t)
	q := NewQueryHandlers(svc)

	_, _, err := q.FindContacts(context.Background(), nil, FindContactsInput{
		FilterInput: FilterInput{Sort: "shoe-size"},
	})
	assert.Error(t, err)

	_, _, err = q.FindContacts(context.Background(), nil, FindContactsInput{
		FilterInput: FilterInput{Sort: "amount", AmountField: "lifetimeValue"},
	})
	assert.ErrorIs(t, err, query.ErrUnknownAmountField)
}

func TestDonorHandlers(t *testing.T) {
	database, svc := setupTestDB(t)
	jane := addJane(t, NewContactHandlers(svc, database))
	h := NewDonorHandlers(donors.NewService(svc))
	ctx := context.Background()

	_, out, err := h.AddDonation(ctx, nil, AddDonationInput{
		ContactID: jane.ID,
		Amount:    12000,
		Date:      "2026-02-01",
		Campaign:  "Spring Gala",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LevelMajor, out.GivingLevel)
	assert.Equal(t, 1, out.TotalDonations)
	assert.Equal(t, models.RiskLow, out.RetentionRisk)
	assert.Equal(t, 73, out.ProfileCompleteness)
	require.NotEmpty(t, out.DonationID)

	_, ack, err := h.AcknowledgeDonation(ctx, nil, AcknowledgeDonationInput{
		ContactID: jane.ID, DonationID: out.DonationID,
	})
	require.NoError(t, err)
	assert.Equal(t, jane.ID, ack.ID)

	_, all, err := h.UpdateGivingLevel(ctx, nil, UpdateGivingLevelInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Updated)
	assert.Nil(t, all.Donor)

	_, one, err := h.UpdateGivingLevel(ctx, nil, UpdateGivingLevelInput{ContactID: jane.ID})
	require.NoError(t, err)
	require.NotNil(t, one.Donor)
	assert.Equal(t, models.LevelMajor, one.Donor.GivingLevel)

	_, a, err := h.DonorAnalytics(ctx, nil, DonorAnalyticsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalDonors)
	assert.Equal(t, 12000.0, a.TotalRaised)
	assert.Equal(t, 1, a.Acknowledged)
	assert.Equal(t, 1, a.ByLevel[models.LevelMajor])
}

func TestAddDonationRejectsNegativeAmount(t *testing.T) {
	database, svc := setupTestDB(t)
	jane := addJane(t, NewContactHandlers(svc, database))
	h := NewDonorHandlers(donors.NewService(svc))

	_, _, err := h.AddDonation(context.Background(), nil, AddDonationInput{ContactID: jane.ID, Amount: -5})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestAcknowledgeUnknownDonation(t *testing.T) {
	database, svc := setupTestDB(t)
	jane := addJane(t, NewContactHandlers(svc, database))
	h := NewDonorHandlers(donors.NewService(svc))

	_, _, err := h.AcknowledgeDonation(context.Background(), nil, AcknowledgeDonationInput{
		ContactID: jane.ID, DonationID: "missing",
	})
	assert.ErrorIs(t, err, models.ErrDonationNotFound)
}

func TestReadResource(t *testing.T) {
	database, svc := setupTestDB(t)
	jane := addJane(t, NewContactHandlers(svc, database))
	_, err := donors.NewService(svc).RecordDonation(context.Background(), jane.ID, models.Donation{Amount: 500})
	require.NoError(t, err)

	h := NewResourceHandlers(svc)
	read := func(uri string) string {
		t.Helper()
		res, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: uri},
		})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, uri, res.Contents[0].URI)
		return res.Contents[0].Text
	}

	var list []models.Contact
	require.NoError(t, json.Unmarshal([]byte(read("donorbase://contacts")), &list))
	assert.Len(t, list, 1)

	var one models.Contact
	require.NoError(t, json.Unmarshal([]byte(read("donorbase://contacts/"+jane.ID)), &one))
	assert.Equal(t, "Jane", one.FirstName)

	var a donors.Analytics
	require.NoError(t, json.Unmarshal([]byte(read("donorbase://analytics")), &a))
	assert.Equal(t, 500.0, a.TotalRaised)

	_, err = h.ReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "crm://contacts"},
	})
	assert.Error(t, err)
}

func TestGetPrompt(t *testing.T) {
	database, svc := setupTestDB(t)
	jane := addJane(t, NewContactHandlers(svc, database))
	ds := donors.NewService(svc)
	_, err := ds.RecordDonation(context.Background(), jane.ID, models.Donation{Amount: 75, Date: "2024-01-10", Campaign: "Annual Fund"})
	require.NoError(t, err)

	h := NewPromptHandlers(svc)
	get := func(name string, args map[string]string) (*mcp.GetPromptResult, error) {
		return h.GetPrompt(context.Background(), &mcp.GetPromptRequest{
			Params: &mcp.GetPromptParams{Name: name, Arguments: args},
		})
	}
	text := func(res *mcp.GetPromptResult) string {
		t.Helper()
		require.Len(t, res.Messages, 1)
		tc, ok := res.Messages[0].Content.(*mcp.TextContent)
		require.True(t, ok)
		return tc.Text
	}

	res, err := get("donor-summary", map[string]string{"contact_id": jane.ID})
	require.NoError(t, err)
	assert.Contains(t, text(res), "Giving Level: lapsed")
	assert.Contains(t, text(res), "(Annual Fund)")

	res, err = get("thank-you-letter", map[string]string{"contact_id": jane.ID})
	require.NoError(t, err)
	assert.Contains(t, text(res), "Gift: $75.00 (cash) on 2024-01-10")

	res, err = get("lapsed-donor-outreach", nil)
	require.NoError(t, err)
	assert.Contains(t, text(res), "- Jane Doe: last gift 2024-01-10")

	_, err = get("donor-summary", nil)
	assert.Error(t, err)

	_, err = get("nonexistent", nil)
	assert.Error(t, err)
}

func TestGenerateGraphHandler(t *testing.T) {
	database, svc := setupTestDB(t)
	jane := addJane(t, NewContactHandlers(svc, database))
	_, err := donors.NewService(svc).RecordDonation(context.Background(), jane.ID, models.Donation{Amount: 250, Campaign: "Gala"})
	require.NoError(t, err)

	h := NewVizHandlers(svc)

	_, out, err := h.GenerateGraph(context.Background(), nil, GenerateGraphInput{Type: "campaigns"})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "digraph")
	assert.Greater(t, out.EdgeCount, 0)

	_, _, err = h.GenerateGraph(context.Background(), nil, GenerateGraphInput{Type: "donor"})
	assert.Error(t, err)

	_, _, err = h.GenerateGraph(context.Background(), nil, GenerateGraphInput{Type: "pipeline"})
	assert.Error(t, err)

	_, dash, err := h.Dashboard(context.Background(), nil, DashboardInput{})
	require.NoError(t, err)
	assert.Contains(t, dash.Text, "DONORBASE DASHBOARD")
	assert.Equal(t, 1, dash.Stats.TotalContacts)
}
