// ABOUTME: Follow-up tracking CLI commands
// ABOUTME: Commands for listing due follow-ups and logging interactions
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/models"
)

// FollowupListCommand lists contacts whose next follow-up has arrived.
func FollowupListCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("followups", flag.ExitOnError)
	priority := fs.String("priority", "", "Filter by priority (low, medium, high, urgent)")
	limit := fs.Int("limit", 10, "Maximum number of contacts to show")
	_ = fs.Parse(args)

	list, err := app.Contacts.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	out := app.out()
	due := contacts.DueFollowUps(list, app.Contacts.Now())
	if len(due) == 0 {
		_, _ = fmt.Fprintln(out, "No follow-ups due")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDAYS OVERDUE\tPRIORITY\tLAST CONTACT\tEMAIL")
	_, _ = fmt.Fprintln(w, "----\t------------\t--------\t------------\t-----")

	shown := 0
	for _, f := range due {
		if *priority != "" && f.Contact.Priority != *priority {
			continue
		}
		if shown == *limit {
			break
		}
		shown++

		indicator := "🟢"
		if f.DaysOverdue > 7 {
			indicator = "🔴"
		} else if f.DaysOverdue > 0 {
			indicator = "🟡"
		}

		_, _ = fmt.Fprintf(w, "%s %s\t%d\t%s\t%s\t%s\n",
			indicator, f.Contact.FullName(), f.DaysOverdue, f.Contact.Priority,
			orDash(f.Contact.LastContact), orDash(f.Contact.Email))
	}

	return w.Flush()
}

// LogInteractionCommand records a touch today and schedules the next follow-up.
func LogInteractionCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("log-interaction", flag.ExitOnError)
	days := fs.Int("days", app.Config.FollowUpDays, "Days until the next follow-up (0 clears it)")
	note := fs.String("note", "", "Note appended to the contact")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)
	now := app.Contacts.Now()

	next, err := app.Contacts.Mutate(context.Background(), func(list []models.Contact) ([]models.Contact, error) {
		out, err := contacts.ScheduleFollowUp(list, id, *days, now)
		if err != nil || *note == "" {
			return out, err
		}
		return contacts.Apply(out, id, func(c *models.Contact) error {
			line := models.Today(now) + ": " + *note
			if c.Notes != "" {
				line = c.Notes + "\n" + line
			}
			c.Notes = line
			return nil
		}, now)
	})
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	c, err := contacts.Get(next, id)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(app.out(), "✓ Interaction logged: %s (next follow-up %s)\n",
		c.FullName(), orDash(c.NextFollowUp))
	return nil
}
