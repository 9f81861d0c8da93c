package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dkrsti/fitlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// HistoryPoint is one workout's peak performance for a single exercise.
type HistoryPoint struct {
	Date         time.Time `json:"date"`
	MaxWeight    float64   `json:"maxWeight"`
	MaxReps      int       `json:"maxReps"`
	TotalVolume  float64   `json:"totalVolume"`
	Estimated1RM int       `json:"estimated1RM"`
}

type ExercisePRSummary struct {
	BestWeight float64    `json:"bestWeight"`
	Best1RM    int        `json:"best1RM"`
	BestDate   *time.Time `json:"bestDate"`
}

// ExerciseHistory returns one point per workout in which the exercise was
// logged, ordered by workout start time ascending. Warmup sets are ignored;
// a workout whose only sets for the exercise are warmups yields no point.
func (a *Analyzer) ExerciseHistory(ctx context.Context, exerciseID int) (_ []HistoryPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.exercisehistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	sets, err := a.workouts.SetsForExercise(ctx, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("sets for exercise: %w", err)
	}
	if len(sets) == 0 {
		return []HistoryPoint{}, nil
	}

	workoutIDs := make([]int, 0)
	seen := make(map[int]bool)
	for _, s := range sets {
		if !seen[s.WorkoutID] {
			seen[s.WorkoutID] = true
			workoutIDs = append(workoutIDs, s.WorkoutID)
		}
	}

	workoutsList, err := a.workouts.ListByIDs(ctx, workoutIDs)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	workoutStart := make(map[int]time.Time, len(workoutsList))
	for _, w := range workoutsList {
		workoutStart[w.ID] = w.StartTime
	}

	history := make([]HistoryPoint, 0)
	for _, workoutID := range workoutIDs {
		startTime, ok := workoutStart[workoutID]
		if !ok {
			continue
		}

		var point HistoryPoint
		var max1RM float64
		var hasWorkSet bool

		for _, s := range sets {
			if s.WorkoutID != workoutID || s.IsWarmup {
				continue
			}
			hasWorkSet = true

			weight := s.WeightValue()
			reps := s.RepsValue()

			// higher weight wins; at equal weight, higher reps wins
			if weight > point.MaxWeight {
				point.MaxWeight = weight
				point.MaxReps = reps
			} else if weight == point.MaxWeight && reps > point.MaxReps {
				point.MaxReps = reps
			}

			point.TotalVolume += weight * float64(reps)

			if weight > 0 && reps > 0 {
				if e1rm := epley(weight, reps); e1rm > max1RM {
					max1RM = e1rm
				}
			}
		}

		if !hasWorkSet {
			continue
		}

		point.Date = startTime
		point.Estimated1RM = int(math.Round(max1RM))
		history = append(history, point)
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	return history, nil
}

// ExercisePR reduces the exercise history to its best performance, judged
// by estimated one-rep-max. On equal 1RM the earlier workout keeps the record.
func (a *Analyzer) ExercisePR(ctx context.Context, exerciseID int) (_ *ExercisePRSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.exercisepr")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	history, err := a.ExerciseHistory(ctx, exerciseID)
	if err != nil {
		return nil, err
	}

	pr := &ExercisePRSummary{}
	for i := range history {
		if history[i].Estimated1RM > pr.Best1RM {
			pr.Best1RM = history[i].Estimated1RM
			pr.BestWeight = history[i].MaxWeight
			pr.BestDate = &history[i].Date
		}
	}

	return pr, nil
}

// epley estimates the one-rep-max as weight * (1 + reps/30).
func epley(weight float64, reps int) float64 {
	return weight * (1 + float64(reps)/30)
}
