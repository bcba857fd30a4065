// ABOUTME: Shared dependencies for CLI commands
// ABOUTME: Bundles the database, services and config every subcommand needs
package cli

import (
	"database/sql"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/harperreed/donorbase/config"
	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/db"
	"github.com/harperreed/donorbase/donors"
)

type App struct {
	DB       *sql.DB
	Contacts *contacts.Service
	Donors   *donors.Service
	Config   *config.Config
	Logger   *zap.Logger

	// Out receives command output; nil means stdout.
	Out io.Writer
}

// NewApp wires the contact and donor services over the SQLite contact store.
func NewApp(database *sql.DB, cfg *config.Config, logger *zap.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cs := contacts.NewService(db.NewContactStore(database, logger), logger)
	return &App{
		DB:       database,
		Contacts: cs,
		Donors:   donors.NewService(cs),
		Config:   cfg,
		Logger:   logger,
	}
}

func (a *App) out() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return os.Stdout
}
