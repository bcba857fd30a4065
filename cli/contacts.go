// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
)

// AddContactCommand adds a new contact.
func AddContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	org := fs.String("org", "", "Organization (required when no name is given)")
	title := fs.String("title", "", "Job title")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Work phone")
	mobile := fs.String("mobile", "", "Mobile phone")
	website := fs.String("website", "", "Website")
	roles := fs.String("roles", "", "Comma-separated project roles (required)")
	tags := fs.String("tags", "", "Comma-separated tags")
	groups := fs.String("groups", "", "Comma-separated groups")
	priority := fs.String("priority", models.PriorityMedium, "Priority (low, medium, high, urgent)")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	c := models.NewContact(app.Contacts.Now())
	c.FirstName = strings.TrimSpace(*first)
	c.LastName = strings.TrimSpace(*last)
	c.Organization = strings.TrimSpace(*org)
	c.Title = *title
	c.Email = *email
	c.Phone = *phone
	c.Mobile = *mobile
	c.Website = *website
	c.Priority = *priority
	c.Notes = *notes
	c.Country = app.Config.DefaultCountry
	c.ProjectRoles = append(c.ProjectRoles, splitList(*roles)...)
	c.Groups = append(c.Groups, splitList(*groups)...)
	for _, tag := range splitList(*tags) {
		c.AddTag(tag)
	}
	if c.FirstName == "" && c.LastName == "" && c.Organization != "" {
		c.Kind = models.KindOrganization
	}

	created, err := app.Contacts.Create(context.Background(), c)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	out := app.out()
	_, _ = fmt.Fprintf(out, "✓ Contact created: %s (ID: %s)\n", created.FullName(), created.ID)
	if created.Email != "" {
		_, _ = fmt.Fprintf(out, "  Email: %s\n", created.Email)
	}
	_, _ = fmt.Fprintf(out, "  Completeness: %d%%\n", created.DataCompleteness)
	return nil
}

// ListContactsCommand lists contacts matching the filter flags.
func ListContactsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	filters := addFilterFlags(fs)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	list, err := app.Contacts.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	matched, err := filters.apply(list, false)
	if err != nil {
		return err
	}

	out := app.out()
	if len(matched) == 0 {
		_, _ = fmt.Fprintln(out, "No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tROLES\tPRIORITY\tCOMPLETE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t--------\t--------\t--")

	for i, c := range matched {
		if i == *limit {
			break
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			c.FullName(), orDash(c.Email), orDash(strings.Join(c.ProjectRoles, ", ")),
			c.Priority, c.DataCompleteness, shortID(c.ID))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\nTotal: %d contact(s)\n", len(matched))
	return nil
}

// UpdateContactCommand updates an existing contact.
func UpdateContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	org := fs.String("org", "", "Organization")
	title := fs.String("title", "", "Job title")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Work phone")
	mobile := fs.String("mobile", "", "Mobile phone")
	priority := fs.String("priority", "", "Priority")
	notes := fs.String("notes", "", "Replace notes")
	addTags := fs.String("add-tags", "", "Comma-separated tags to add")
	addRoles := fs.String("add-roles", "", "Comma-separated roles to add")
	donorType := fs.String("donor-type", "", "Donor type (individual, corporate, foundation, government)")
	preferred := fs.String("preferred-contact", "", "Preferred contact method for the donor")
	interests := fs.String("add-interests", "", "Comma-separated donor interests to add")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	updated, err := app.Contacts.Update(context.Background(), id, func(c *models.Contact) error {
		setIfNotEmpty(&c.FirstName, *first)
		setIfNotEmpty(&c.LastName, *last)
		setIfNotEmpty(&c.Organization, *org)
		setIfNotEmpty(&c.Title, *title)
		setIfNotEmpty(&c.Email, *email)
		setIfNotEmpty(&c.Phone, *phone)
		setIfNotEmpty(&c.Mobile, *mobile)
		setIfNotEmpty(&c.Priority, *priority)
		setIfNotEmpty(&c.Notes, *notes)
		for _, tag := range splitList(*addTags) {
			c.AddTag(tag)
		}
		for _, role := range splitList(*addRoles) {
			if !c.HasRole(role) {
				c.ProjectRoles = append(c.ProjectRoles, role)
			}
		}
		err := donors.ApplyProfile(c, donors.ProfileUpdate{
			DonorType:        *donorType,
			PreferredContact: *preferred,
			Interests:        splitList(*interests),
		})
		if err != nil {
			return err
		}
		return contacts.Validate(c)
	})
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	_, _ = fmt.Fprintf(app.out(), "✓ Contact updated: %s (ID: %s, %d%% complete)\n",
		updated.FullName(), updated.ID, updated.DataCompleteness)
	return nil
}

// DeleteContactCommand deletes a contact.
func DeleteContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	if err := app.Contacts.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	_, _ = fmt.Fprintf(app.out(), "✓ Contact deleted: %s\n", id)
	return nil
}

// MoveAddressCommand closes the current address and records a new one.
func MoveAddressCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("move-address", flag.ExitOnError)
	address := fs.String("address", "", "Street address")
	address2 := fs.String("address2", "", "Address line 2")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State")
	zip := fs.String("zip", "", "Zip code")
	country := fs.String("country", app.Config.DefaultCountry, "Country")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	addr := models.AddressEntry{
		Address:  *address,
		Address2: *address2,
		City:     *city,
		State:    *state,
		ZipCode:  *zip,
		Country:  *country,
	}
	next, err := app.Contacts.Mutate(context.Background(), func(list []models.Contact) ([]models.Contact, error) {
		return contacts.MoveAddress(list, id, addr, app.Contacts.Now())
	})
	if err != nil {
		return fmt.Errorf("failed to move address: %w", err)
	}

	c, err := contacts.Get(next, id)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(app.out(), "✓ Address updated: %s (%d address(es) on file)\n",
		c.FullName(), len(c.AddressHistory))
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
