// ABOUTME: Web UI command
// ABOUTME: Serves the read-only donor dashboard over HTTP
package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/donorbase/web"
)

func WebCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	if *port <= 0 || *port > 65535 {
		return fmt.Errorf("invalid port %d", *port)
	}

	server, err := web.NewServer(app.Contacts, app.Donors, app.Config.FollowUpDays)
	if err != nil {
		return err
	}
	return server.Start(*port)
}
