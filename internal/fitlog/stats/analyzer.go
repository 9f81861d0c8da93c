package stats

import (
	"context"
	"time"

	"github.com/dkrsti/fitlog/internal/fitlog/settings"
	"github.com/dkrsti/fitlog/internal/fitlog/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=stats_test

type workoutsRepo interface {
	ListAll(ctx context.Context, params workouts.WorkoutParams) ([]workouts.Workout, error)
	ListByIDs(ctx context.Context, ids []int) ([]workouts.Workout, error)
	ListAllSets(ctx context.Context) ([]workouts.SetRecord, error)
	SetsForExercise(ctx context.Context, exerciseID int) ([]workouts.SetRecord, error)
}

type settingsRepo interface {
	Get(ctx context.Context) (*settings.AppSettings, error)
}

// Analyzer derives display statistics from the raw training log. It never
// writes; every call recomputes from a fresh read of the relevant records.
type Analyzer struct {
	workouts workoutsRepo
	settings settingsRepo

	// injectable clock and timezone, so that calendar-day bucketing
	// is deterministic in tests
	now func() time.Time
	loc *time.Location
}

type Option func(*Analyzer)

// WithNow replaces the analyzer clock.
func WithNow(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// WithLocation sets the timezone used for day and week boundaries.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		a.loc = loc
	}
}

func NewAnalyzer(workoutsRepo workoutsRepo, settingsRepo settingsRepo, opts ...Option) *Analyzer {
	a := &Analyzer{
		workouts: workoutsRepo,
		settings: settingsRepo,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
