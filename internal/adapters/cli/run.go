package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/logging"
	"github.com/andrescamacho/railbot-go/internal/application/strategy"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/railbot-go/internal/infrastructure/database"
)

// loopPollInterval is how often the loop re-checks whether a session is due
const loopPollInterval = time.Minute

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var loop bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the decision engine",
		Long: `Run executes one full orchestrator pass: bootstrap a fresh session if one
is due, then collect rewards, dispatch trains and source job materials.
With --loop the engine keeps running, waking up whenever the next session
is due.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.Context(), loop)
		},
	}
	cmd.Flags().BoolVar(&loop, "loop", false, "Keep running instead of a single pass")
	return cmd
}

func runEngine(ctx context.Context, loop bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger := logging.NewLogger(&cfg.Logging)
	ctx = logging.WithLogger(ctx, logger)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	store := persistence.NewStore(db)
	clock := shared.NewRealClock()
	client := api.NewClient(&cfg.API, clock)
	orchestrator := strategy.NewOrchestrator(cfg, store, client, clock)

	if !loop {
		return orchestrator.Run(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := orchestrator.Run(ctx); err != nil {
			logger.Log("ERROR", "orchestrator pass failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		clock.Sleep(loopPollInterval)
	}
}
