// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and graph generation commands
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/donorbase/viz"
)

// VizGraphCampaignsCommand generates the donor to campaign graph.
func VizGraphCampaignsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz graph campaigns", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	list, err := app.Contacts.List(ctx)
	if err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(list).GenerateCampaignGraph(ctx)
	if err != nil {
		return err
	}
	return writeDOT(app, *output, dot)
}

// VizGraphDonorCommand generates the graph around a single donor.
func VizGraphDonorCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz graph donor", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID required")
	}

	ctx := context.Background()
	list, err := app.Contacts.List(ctx)
	if err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(list).GenerateDonorGraph(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	return writeDOT(app, *output, dot)
}

func VizDashboardCommand(app *App, _ []string) error {
	list, err := app.Contacts.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to generate dashboard stats: %w", err)
	}

	stats := viz.GenerateDashboardStats(list, app.Contacts.Now())
	_, _ = fmt.Fprint(app.out(), viz.RenderDashboard(stats))
	return nil
}

func writeDOT(app *App, output, dot string) error {
	if output != "" {
		return os.WriteFile(output, []byte(dot), 0644)
	}
	_, _ = fmt.Fprintln(app.out(), dot)
	return nil
}
