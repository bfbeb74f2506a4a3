package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

func TestContractIsAvailable_BufferBeforeDeadline(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Deadline comfortably beyond the buffer
	deadline := now.Add(10 * time.Minute)
	contract := &game.Contract{AvailableTo: &deadline}
	assert.True(t, contract.IsAvailable(now))

	// Deadline inside the one-minute buffer: racing an expiry mid-flight
	closeDeadline := now.Add(30 * time.Second)
	contract = &game.Contract{AvailableTo: &closeDeadline}
	assert.False(t, contract.IsAvailable(now))

	// Exactly at the buffer boundary still counts as too close
	boundary := now.Add(game.ContractExpiryBuffer)
	contract = &game.Contract{AvailableTo: &boundary}
	assert.False(t, contract.IsAvailable(now))
}

func TestContractIsAvailable_UsedAndNotYetUsable(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)

	contract := &game.Contract{AvailableTo: &deadline, Used: true}
	assert.False(t, contract.IsAvailable(now))

	usableFrom := now.Add(time.Minute)
	contract = &game.Contract{AvailableTo: &deadline, UsableFrom: &usableFrom}
	assert.False(t, contract.IsAvailable(now))
}

func TestContractIsAvailable_ListDeadlineAlsoBuffered(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)
	listDeadline := now.Add(30 * time.Second)

	contract := &game.Contract{
		AvailableTo: &deadline,
		List:        &game.ContractList{ID: 1, AvailableTo: &listDeadline},
	}
	assert.False(t, contract.IsAvailable(now))
}

func TestContractFallsBackToExpiresAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	contract := &game.Contract{ExpiresAt: &expires}
	assert.True(t, contract.IsAvailable(now))
}
