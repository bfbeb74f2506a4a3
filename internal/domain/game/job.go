package game

import "time"

// JobKind is the exclusive classification of a job
type JobKind string

const (
	JobKindEvent JobKind = "event"
	JobKindUnion JobKind = "union"
	JobKindStory JobKind = "story"
	JobKindSide  JobKind = "side"
)

// Region content categories (static definitions)
const (
	RegionContentStory = 1
	RegionContentEvent = 2
	RegionContentUnion = 3
)

// Job type discriminant for side jobs within story regions
const JobTypeSide = 5

// Region is a static map region with a content-category flag
type Region struct {
	ID              int
	ContentCategory int
}

// JobLocation is a static map location a job is bound to
type JobLocation struct {
	ID       int
	RegionID int
	Region   *Region
}

// Job is a location-bound task requiring a quantity of one article by a deadline
type Job struct {
	ID            string
	JobLocationID int
	JobType       int

	RequiredArticleID int
	RequiredAmount    int
	CurrentAmount     int
	// Amount committed by trains currently en route
	DispatchedAmount int

	Duration time.Duration

	UnlockAt        *time.Time
	ExpiresAt       *time.Time
	CollectableFrom *time.Time
	CompletedAt     *time.Time

	Reward []RewardItem

	Location *JobLocation
}

// Kind classifies the job into exactly one of event, union, story, side.
// Region flags take precedence; the side discriminant only applies within
// story regions.
func (j *Job) Kind() JobKind {
	if j.Location != nil && j.Location.Region != nil {
		switch j.Location.Region.ContentCategory {
		case RegionContentEvent:
			return JobKindEvent
		case RegionContentUnion:
			return JobKindUnion
		}
	}
	if j.JobType == JobTypeSide {
		return JobKindSide
	}
	return JobKindStory
}

// RemainingAmount is the quantity still needed, net of delivered and en-route amounts.
// Never negative.
func (j *Job) RemainingAmount() int {
	remaining := j.RequiredAmount - j.CurrentAmount - j.DispatchedAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether the job's window has closed
func (j *Job) IsExpired(now time.Time) bool {
	return j.ExpiresAt != nil && !j.ExpiresAt.After(now)
}

// IsUnlocked reports whether the job is open at the given time
func (j *Job) IsUnlocked(now time.Time) bool {
	return j.UnlockAt == nil || !j.UnlockAt.After(now)
}

// IsCollectable reports whether the job reward can be collected now
func (j *Job) IsCollectable(now time.Time) bool {
	return j.CollectableFrom != nil && !j.CollectableFrom.After(now) && j.CompletedAt == nil
}

// IsCompleted reports whether the job has been completed and collected
func (j *Job) IsCompleted() bool {
	return j.CompletedAt != nil
}
