package dispatch

import (
	"sort"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// Assignment is one train's planned delivery to a union job
type Assignment struct {
	Job    *game.Job
	Amount int
}

// UnionJobFinder searches assignments of idle union-capable trains to union
// jobs under a hard dispatcher cap. The search is exhaustive with backtracking;
// it stays tractable because both train and job counts are bounded by the
// dispatcher budget, typically single digits.
//
// All state is held per instance; a finder is built, fed pairs, run once and
// discarded.
type UnionJobFinder struct {
	trains    []*game.Train
	warehouse game.ArticleAmounts

	// jobs each train is allowed to serve, keyed by train instance id
	linked map[int][]*game.Job
	// amount committed to each job by the currently explored partial solution
	assigned map[string]int
	// warehouse stock consumed by the currently explored partial solution
	consumed game.ArticleAmounts

	current   map[int]Assignment
	best      map[int]Assignment
	bestScore float64

	budget             int
	withWarehouseLimit bool
}

// NewUnionJobFinder creates a finder over candidate trains. Trains are sorted
// by descending capacity so high-capacity options are explored first.
func NewUnionJobFinder(trains []*game.Train, warehouse game.ArticleAmounts) *UnionJobFinder {
	sorted := make([]*game.Train, len(trains))
	copy(sorted, trains)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Capacity() > sorted[j].Capacity()
	})
	return &UnionJobFinder{
		trains:    sorted,
		warehouse: warehouse,
		linked:    map[int][]*game.Job{},
		assigned:  map[string]int{},
		consumed:  game.ArticleAmounts{},
		current:   map[int]Assignment{},
	}
}

// AddJobTrain registers a candidate pair. Only pre-registered pairs are ever
// explored by the search.
func (f *UnionJobFinder) AddJobTrain(job *game.Job, train *game.Train) {
	f.linked[train.InstanceID] = append(f.linked[train.InstanceID], job)
}

// Dispatching runs the search and returns the best train->assignment map found.
// budget caps simultaneously usable dispatchers; withWarehouseLimit further
// caps each commitment by available stock of the job's required article.
func (f *UnionJobFinder) Dispatching(budget int, withWarehouseLimit bool) map[int]Assignment {
	f.budget = budget
	f.withWarehouseLimit = withWarehouseLimit
	f.best = nil
	f.bestScore = 0
	f.recur(0, 0)
	return f.best
}

// score sums 1 - progress over every job touched by the current assignment
// plus its linked peers; lower is better
func (f *UnionJobFinder) score() float64 {
	seen := map[string]*game.Job{}
	for _, jobs := range f.linked {
		for _, j := range jobs {
			seen[j.ID] = j
		}
	}
	total := 0.0
	for id, j := range seen {
		if j.RequiredAmount <= 0 {
			continue
		}
		progress := float64(j.CurrentAmount+j.DispatchedAmount+f.assigned[id]) / float64(j.RequiredAmount)
		if progress > 1 {
			progress = 1
		}
		total += 1 - progress
	}
	return total
}

// recur explores assignments for trains[idx:]. The best solution is updated at
// every node, not only at leaves, so early partial assignments also compete.
func (f *UnionJobFinder) recur(idx, dispatchers int) {
	if score := f.score(); f.best == nil || score < f.bestScore {
		f.bestScore = score
		f.best = make(map[int]Assignment, len(f.current))
		for k, v := range f.current {
			f.best[k] = v
		}
	}
	if dispatchers >= f.budget || idx >= len(f.trains) {
		return
	}

	train := f.trains[idx]
	jobs := f.linked[train.InstanceID]
	committed := false
	for _, job := range jobs {
		remaining := job.RemainingAmount() - f.assigned[job.ID]
		if remaining <= 0 {
			continue
		}
		amount := min(remaining, train.Capacity())
		if f.withWarehouseLimit {
			available := f.warehouse[job.RequiredArticleID] - f.consumed[job.RequiredArticleID]
			amount = min(amount, available)
		}
		if amount <= 0 {
			continue
		}

		f.current[train.InstanceID] = Assignment{Job: job, Amount: amount}
		f.assigned[job.ID] += amount
		f.consumed.Add(job.RequiredArticleID, amount)

		f.recur(idx+1, dispatchers+1)

		f.consumed.Add(job.RequiredArticleID, -amount)
		f.assigned[job.ID] -= amount
		delete(f.current, train.InstanceID)
		committed = true
	}

	// Skipping is always explored when the train had nothing to commit. When it
	// did commit somewhere, the skip branch only adds information if the train
	// had a real choice between jobs.
	if !committed {
		f.recur(idx+1, dispatchers)
	} else if len(jobs) > 1 {
		f.recur(idx+1, dispatchers)
	}
}
