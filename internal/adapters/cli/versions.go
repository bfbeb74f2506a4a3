package cli

import (
	"context"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
)

// NewVersionsCommand creates the versions command
func NewVersionsCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List recent sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listVersions(cmd.Context(), count)
		},
	}
	cmd.Flags().IntVar(&count, "count", 5, "How many sessions to list")
	return cmd
}

func listVersions(ctx context.Context, count int) error {
	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	versions, err := store.Versions.LatestN(ctx, cfg.Agent.PlayerID, count)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Status", "Level", "Commands", "Next event", "Updated", "Error"})
	for _, v := range versions {
		nextEvent := "-"
		if v.NextEventAt != nil {
			nextEvent = v.NextEventAt.Format(time.RFC3339)
		}
		t.AppendRow(table.Row{
			v.ID, v.Status, v.PlayerLevel, v.CommandNo,
			nextEvent, v.UpdatedAt.Format(time.RFC3339), v.ErrorMessage,
		})
	}
	t.Render()
	return nil
}
