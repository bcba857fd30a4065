// ABOUTME: Import and export CLI commands
// ABOUTME: Reads vCard files into the collection and writes filtered CSV or vCard exports
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/export"
)

// ImportVCFCommand imports every card in a .vcf file.
func ImportVCFCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("import-vcf", flag.ExitOnError)
	dedupe := fs.Bool("dedupe", false, "Skip cards whose email already exists")
	tags := fs.String("tag", "", "Comma-separated tags applied to every imported contact")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("vcf file path is required")
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := app.Contacts.ImportVCF(context.Background(), string(data), contacts.ImportOptions{
		SkipDuplicates: *dedupe,
		Tags:           splitList(*tags),
	})
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	entry := &db.ImportLog{
		Source:     db.SourceVCF,
		FileName:   filepath.Base(path),
		Decoded:    result.Decoded,
		Imported:   result.Imported,
		Duplicates: result.Duplicates,
	}
	if err := db.CreateImportLog(app.DB, entry); err != nil {
		return err
	}

	out := app.out()
	_, _ = fmt.Fprintf(out, "✓ Imported %d of %d card(s) from %s\n", result.Imported, result.Decoded, filepath.Base(path))
	if result.Duplicates > 0 {
		_, _ = fmt.Fprintf(out, "  Skipped %d duplicate(s)\n", result.Duplicates)
	}
	return nil
}

// ImportHistoryCommand lists recent imports.
func ImportHistoryCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("imports", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum entries")
	_ = fs.Parse(args)

	logs, err := db.ListImportLogs(app.DB, *limit)
	if err != nil {
		return err
	}

	out := app.out()
	if len(logs) == 0 {
		_, _ = fmt.Fprintln(out, "No imports recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tSOURCE\tFILE\tDECODED\tIMPORTED\tDUPLICATES")
	_, _ = fmt.Fprintln(w, "----\t------\t----\t-------\t--------\t----------")
	for _, l := range logs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			l.ImportedAt.Format("2006-01-02 15:04"), l.Source, orDash(l.FileName),
			l.Decoded, l.Imported, l.Duplicates)
	}
	return w.Flush()
}

// ExportCommand writes the filtered collection as CSV or vCard.
func ExportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", export.FormatCSV, "csv or vcf")
	output := fs.String("output", "", "Output file (default: contacts-<date>.<format>, - for stdout)")
	donorsOnly := fs.Bool("donors", false, "Only export donors")
	filters := addFilterFlags(fs)
	_ = fs.Parse(args)

	list, err := app.Contacts.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	selected, err := filters.apply(list, *donorsOnly)
	if err != nil {
		return err
	}

	f := strings.ToLower(*format)
	if *output == "-" {
		return export.Write(app.out(), f, selected)
	}

	path := *output
	if path == "" {
		path = export.Filename(f, app.Contacts.Now())
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(file, f, selected); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(app.out(), "✓ Exported %d contact(s) to %s\n", len(selected), path)
	return nil
}
