package commands

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// TrainUnloadCommand frees an arrived train. Destination cargo is credited to
// the warehouse; a job delivery was already debited at dispatch and belongs to
// the job, so only the route is cleared.
type TrainUnloadCommand struct {
	trainID   int
	routeType string
	articleID int
	amount    int
}

// NewTrainUnload captures the train's carried load at construction time
func NewTrainUnload(train *game.Train) *TrainUnloadCommand {
	return &TrainUnloadCommand{
		trainID:   train.InstanceID,
		routeType: train.RouteType,
		articleID: train.LoadArticleID,
		amount:    train.LoadAmount,
	}
}

func (c *TrainUnloadCommand) Name() string { return "Train:Unload" }

func (c *TrainUnloadCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{"TrainId": c.trainID}
}

func (c *TrainUnloadCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *TrainUnloadCommand) PostProcessing(ctx context.Context, env *Env) error {
	if c.routeType == game.RouteDestination {
		if err := creditWarehouse(ctx, env, c.articleID, c.amount); err != nil {
			return err
		}
	}
	train, err := env.Store.Trains.FindByInstanceID(ctx, env.Version.ID, c.trainID)
	if err != nil {
		return err
	}
	train.ClearRoute()
	return env.Store.Trains.Save(ctx, env.Version.ID, train)
}

// TrainDispatchToDestinationCommand sends an idle train on a destination run
type TrainDispatchToDestinationCommand struct {
	trainID       int
	destinationID int
	articleID     int
	amount        int
	duration      time.Duration
}

// NewTrainDispatchToDestination captures the load the train will bring back.
// The amount is decided by the planner, not re-derived here.
func NewTrainDispatchToDestination(train *game.Train, dest *game.Destination, amount int) *TrainDispatchToDestinationCommand {
	return &TrainDispatchToDestinationCommand{
		trainID:       train.InstanceID,
		destinationID: dest.ID,
		articleID:     dest.ArticleID,
		amount:        amount,
		duration:      dest.Duration,
	}
}

func (c *TrainDispatchToDestinationCommand) Name() string { return "Train:DispatchToDestination" }

func (c *TrainDispatchToDestinationCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"TrainId":       c.trainID,
		"DestinationId": c.destinationID,
	}
}

func (c *TrainDispatchToDestinationCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *TrainDispatchToDestinationCommand) PostProcessing(ctx context.Context, env *Env) error {
	train, err := env.Store.Trains.FindByInstanceID(ctx, env.Version.ID, c.trainID)
	if err != nil {
		return err
	}
	if err := train.AssignRoute(game.RouteDestination, c.destinationID, env.Version.Now, c.duration); err != nil {
		return err
	}
	train.SetLoad(c.articleID, c.amount)
	return env.Store.Trains.Save(ctx, env.Version.ID, train)
}

// TrainDispatchToJobCommand sends an idle train to deliver material to a job
type TrainDispatchToJobCommand struct {
	trainID    int
	jobID      string
	locationID int
	articleID  int
	amount     int
	duration   time.Duration
}

// NewTrainDispatchToJob captures the delivery commitment at construction time
func NewTrainDispatchToJob(train *game.Train, job *game.Job, amount int) *TrainDispatchToJobCommand {
	return &TrainDispatchToJobCommand{
		trainID:    train.InstanceID,
		jobID:      job.ID,
		locationID: job.JobLocationID,
		articleID:  job.RequiredArticleID,
		amount:     amount,
		duration:   job.Duration,
	}
}

func (c *TrainDispatchToJobCommand) Name() string { return "Train:DispatchToJob" }

func (c *TrainDispatchToJobCommand) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"UniqueId": c.jobID,
		"TrainId":  c.trainID,
		"Load": map[string]interface{}{
			"Id":     c.articleID,
			"Amount": c.amount,
		},
	}
}

func (c *TrainDispatchToJobCommand) SleepRange() (time.Duration, time.Duration) {
	return 0, 0
}

func (c *TrainDispatchToJobCommand) PostProcessing(ctx context.Context, env *Env) error {
	if err := env.Store.Warehouse.Debit(ctx, env.Version.ID, c.articleID, c.amount); err != nil {
		return err
	}

	train, err := env.Store.Trains.FindByInstanceID(ctx, env.Version.ID, c.trainID)
	if err != nil {
		return err
	}
	if err := train.AssignRoute(game.RouteJob, c.locationID, env.Version.Now, c.duration); err != nil {
		return err
	}
	train.SetLoad(c.articleID, c.amount)
	if err := env.Store.Trains.Save(ctx, env.Version.ID, train); err != nil {
		return err
	}

	job, err := env.Store.Jobs.FindByID(ctx, env.Version.ID, c.jobID)
	if err != nil {
		return err
	}
	job.DispatchedAmount += c.amount
	return env.Store.Jobs.Save(ctx, env.Version.ID, job)
}
