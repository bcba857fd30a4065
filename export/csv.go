// ABOUTME: Bulk export of contacts to CSV and vCard files
// ABOUTME: Every CSV cell is quoted so spreadsheet imports keep leading zeros and commas intact
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/vcard"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatVCF = "vcf"
)

// Header is the CSV header row.
var Header = []string{
	"Name", "Organization", "Title", "Email", "Phone", "Mobile", "Website",
	"Roles", "Tags", "Notes", "Created", "Modified", "Completeness",
}

const listSeparator = "; "

// WriteCSV writes the header and one fully quoted row per contact.
func WriteCSV(w io.Writer, list []models.Contact) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range list {
		if _, err := bw.WriteString(csvRow(&list[i]) + "\n"); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Row returns the CSV cells for one contact, unquoted.
func Row(c *models.Contact) []string {
	return []string{
		c.FullName(),
		c.Organization,
		c.Title,
		c.Email,
		c.Phone,
		c.Mobile,
		c.Website,
		strings.Join(c.ProjectRoles, listSeparator),
		strings.Join(c.Tags, listSeparator),
		c.Notes,
		c.CreatedDate,
		c.LastModified,
		strconv.Itoa(c.DataCompleteness) + "%",
	}
}

func csvRow(c *models.Contact) string {
	cells := Row(c)
	for i, v := range cells {
		cells[i] = quote(v)
	}
	return strings.Join(cells, ",")
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// WriteVCF writes every contact as a vCard, separated by blank lines.
func WriteVCF(w io.Writer, list []models.Contact) error {
	if len(list) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, vcard.EncodeAll(list)+"\r\n"); err != nil {
		return fmt.Errorf("failed to write vcards: %w", err)
	}
	return nil
}

// Write dispatches on format.
func Write(w io.Writer, format string, list []models.Contact) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, list)
	case FormatVCF:
		return WriteVCF(w, list)
	default:
		return fmt.Errorf("unsupported export format %q (use csv or vcf)", format)
	}
}

// Filename is the default download name, e.g. contacts-2026-03-14.csv.
func Filename(format string, now time.Time) string {
	return fmt.Sprintf("contacts-%s.%s", models.Today(now), format)
}
