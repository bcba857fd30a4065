// ABOUTME: Entry point for the donorbase CLI, MCP server and TUI
// ABOUTME: Loads config, opens the database and routes to subcommands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/harperreed/donorbase/cli"
	"github.com/harperreed/donorbase/config"
	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/logging"
	"github.com/harperreed/donorbase/tui"
)

const version = "0.2.0"

type command func(app *cli.App, args []string) error

var crmCommands = map[string]command{
	"add-contact":     cli.AddContactCommand,
	"list-contacts":   cli.ListContactsCommand,
	"update-contact":  cli.UpdateContactCommand,
	"delete-contact":  cli.DeleteContactCommand,
	"move-address":    cli.MoveAddressCommand,
	"log-interaction": cli.LogInteractionCommand,
}

var donorCommands = map[string]command{
	"add-donation":    cli.AddDonationCommand,
	"ack-donation":    cli.AckDonationCommand,
	"remove-donation": cli.RemoveDonationCommand,
	"giving-level":    cli.GivingLevelCommand,
	"list":            cli.ListDonorsCommand,
	"stats":           cli.DonorStatsCommand,
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/donorbase/donorbase.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("donorbase version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	logger.Debug("database opened", zap.String("path", cfg.DBPath))

	if *initOnly {
		logger.Info("database initialized", zap.String("path", cfg.DBPath))
		return
	}

	app := cli.NewApp(database, cfg, logger)
	if err := route(app, args[0], args[1:]); err != nil {
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		_ = logger.Sync()
		_ = database.Close()
		os.Exit(1)
	}
}

func route(app *cli.App, name string, args []string) error {
	switch name {
	case "mcp":
		// MCP speaks JSON-RPC on stdout, so nothing else may print there
		return cli.MCPCommand(app, version)

	case "tui":
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("tui requires an interactive terminal")
		}
		_, err := tea.NewProgram(tui.NewModel(app.Contacts, app.Donors), tea.WithAltScreen()).Run()
		return err

	case "crm":
		return dispatch("crm", crmCommands, app, args)

	case "donor":
		return dispatch("donor", donorCommands, app, args)

	case "import-vcf":
		return cli.ImportVCFCommand(app, args)
	case "imports":
		return cli.ImportHistoryCommand(app, args)
	case "export":
		return cli.ExportCommand(app, args)
	case "followups":
		return cli.FollowupListCommand(app, args)

	case "viz":
		return routeViz(app, args)

	case "web":
		return cli.WebCommand(app, args)

	default:
		fmt.Printf("Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}
	return nil
}

func dispatch(group string, commands map[string]command, app *cli.App, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n", group)
		printUsage()
		os.Exit(1)
	}

	fn, ok := commands[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", group, args[0])
		printUsage()
		os.Exit(1)
	}
	return fn(app, args[1:])
}

func routeViz(app *cli.App, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: viz requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "dashboard":
		return cli.VizDashboardCommand(app, args[1:])
	case "graph":
		if len(args) < 2 {
			fmt.Println("Error: viz graph requires a type (campaigns or donor)")
			printUsage()
			os.Exit(1)
		}
		switch args[1] {
		case "campaigns":
			return cli.VizGraphCampaignsCommand(app, args[2:])
		case "donor":
			return cli.VizGraphDonorCommand(app, args[2:])
		default:
			fmt.Printf("Unknown graph type: %s\n\n", args[1])
		}
	default:
		fmt.Printf("Unknown viz command: %s\n\n", args[0])
	}
	printUsage()
	os.Exit(1)
	return nil
}

func printUsage() {
	fmt.Printf(`donorbase v%s - Donor and contact management for nonprofits

USAGE:
  donorbase [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/donorbase/donorbase.db)
  --init                 Initialize database and exit

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  tui                    Interactive terminal UI
  crm                    Contact management commands
  donor                  Donation and giving commands
  import-vcf <file>      Import contacts from a vCard file
  imports                Show import history
  export                 Export contacts as CSV or vCard
  followups              List contacts due for follow-up
  viz                    Visualization commands
  web [--port n]         Serve the read-only dashboard (default port 8080)

CRM COMMANDS:
  donorbase crm add-contact      Add a new contact
    --first, --last, --org         Name or organization (one required)
    --roles <a,b>                  Project roles (required)
    --email, --phone, --mobile     Contact details
    --tags, --groups <a,b>         Tags and groups
    --priority <level>             low, medium, high or urgent

  donorbase crm list-contacts    List contacts
    --query <text>                 Search name, organization, email and phone
    --role, --tag, --group         Membership filters
    --level, --donor-type          Donor filters
    --sort <key> [--desc]          name, organization, date, lastGift, completeness, amount
    --amount-field <field>         totalAmount, averageDonation or totalDonations

  donorbase crm update-contact [flags] <id>
    --donor-type <type>            individual, corporate, foundation or government
    --preferred-contact <method>   Donor's preferred contact method
    --add-interests <a,b>          Donor interests
  donorbase crm delete-contact <id>
  donorbase crm move-address [flags] <id>
  donorbase crm log-interaction [--days n] [--note text] <id>

DONOR COMMANDS:
  donorbase donor add-donation [flags] <contact-id>
    --amount <n>                   Gift amount (required)
    --date <YYYY-MM-DD>            Gift date (default: today)
    --type <type>                  cash, check, credit, stock, in-kind or planned
    --campaign <name>              Campaign name

  donorbase donor ack-donation <contact-id> <donation-id>
  donorbase donor remove-donation <contact-id> <donation-id>
  donorbase donor giving-level [contact-id]   Reclassify one donor or all donors
  donorbase donor list [filters]
  donorbase donor stats [--json]

EXPORT:
  donorbase export --format csv|vcf [--output file] [--donors] [filters]

VIZ COMMANDS:
  donorbase viz graph campaigns [--output file]
  donorbase viz graph donor <id> [--output file]
  donorbase viz dashboard

EXAMPLES:
  # Add a donor and record a gift
  donorbase crm add-contact --first Jane --last Doe --roles donor
  donorbase donor add-donation --amount 250 --campaign "Spring Gala" <id>

  # Export major donors to CSV
  donorbase export --format csv --level major --output major.csv

`, version)
}
