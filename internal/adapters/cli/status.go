package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/database"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the latest session's state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus(cmd.Context())
		},
	}
}

func showStatus(ctx context.Context) error {
	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	version, err := store.Versions.Latest(ctx, cfg.Agent.PlayerID)
	if err != nil {
		return err
	}
	if version == nil {
		fmt.Println("No sessions yet.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRows([]table.Row{
		{"Version", version.ID},
		{"Status", version.Status},
		{"Player", version.PlayerID},
		{"Player level", version.PlayerLevel},
		{"Warehouse level", version.WarehouseLevel},
		{"Dispatchers", fmt.Sprintf("%d normal / %d union", version.DispatchersNormal, version.DispatchersUnion)},
		{"Commands sent", version.CommandNo},
		{"Next event", formatNextEvent(version)},
		{"Updated", version.UpdatedAt.Format(time.RFC3339)},
	})
	if version.ErrorMessage != "" {
		t.AppendRow(table.Row{"Error", version.ErrorMessage})
	}
	t.Render()
	return nil
}

func formatNextEvent(v *game.RunVersion) string {
	if v.NextEventAt == nil {
		return "-"
	}
	return v.NextEventAt.Format(time.RFC3339)
}

// openStore opens the configured database and wraps it in a store
func openStore() (*persistence.Store, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	return persistence.NewStore(db), func() { _ = database.Close(db) }, nil
}
