package helpers

import (
	"context"
	"time"

	"github.com/andrescamacho/railbot-go/internal/adapters/api"
)

// FakeSender records command batches instead of hitting the network. Every
// batch succeeds; the response carries ServerTime and any queued deltas.
type FakeSender struct {
	Batches    []*api.CommandBatch
	ServerTime time.Time
	Deltas     []api.DeltaCommand
	Err        error
}

// NewFakeSender creates a sender answering with the given server time
func NewFakeSender(serverTime time.Time) *FakeSender {
	return &FakeSender{ServerTime: serverTime}
}

func (f *FakeSender) SendCommandBatch(ctx context.Context, batch *api.CommandBatch) (*api.BatchResponse, error) {
	f.Batches = append(f.Batches, batch)
	if f.Err != nil {
		return nil, f.Err
	}
	resp := &api.BatchResponse{
		Time:     f.ServerTime.Format(time.RFC3339),
		Commands: f.Deltas,
	}
	f.Deltas = nil
	return resp, nil
}

// LastBatch returns the most recently sent batch, nil when none was sent
func (f *FakeSender) LastBatch() *api.CommandBatch {
	if len(f.Batches) == 0 {
		return nil
	}
	return f.Batches[len(f.Batches)-1]
}
