package game

import "time"

// RunVersion lifecycle states
const (
	RunStatusQueued     = "queued"
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusError      = "error"
)

// SessionRetryCooldown is how long a run version rests after a session expiry
// before a fresh login is attempted.
const SessionRetryCooldown = 10 * time.Minute

// RunVersion is one play session: the unit of isolation for all player state.
// Never deleted; each user accumulates an append-only history of sessions.
type RunVersion struct {
	ID     int
	Status string

	// Server-synchronized clock, updated from every response's Time field
	Now time.Time

	DispatchersNormal int
	DispatchersUnion  int
	WarehouseLevel    int
	PlayerLevel       int
	PlayerID          int

	// Monotonically increasing per-batch sequence number
	CommandNo int

	// Earliest time the orchestrator must re-run. Advisory: re-running earlier
	// is a no-op decided by the version-creation policy.
	NextEventAt *time.Time

	ErrorMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextCommandNo increments and returns the batch sequence number
func (v *RunVersion) NextCommandNo() int {
	v.CommandNo++
	return v.CommandNo
}

// CanDispatch reports whether another train may be sent, given trains already
// en route against the normal dispatcher pool.
func (v *RunVersion) CanDispatch(enRoute int) bool {
	return enRoute < v.DispatchersNormal
}

// ScheduleNextEvent lowers NextEventAt to t if t is earlier (or none is set).
// Zero times are ignored.
func (v *RunVersion) ScheduleNextEvent(t time.Time) {
	if t.IsZero() {
		return
	}
	if v.NextEventAt == nil || t.Before(*v.NextEventAt) {
		tt := t
		v.NextEventAt = &tt
	}
}
