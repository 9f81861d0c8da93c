package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/dkrsti/fitlog/internal/fitlog/workouts"
	"github.com/dkrsti/fitlog/internal/telemetry/tracing"
)

type WeekStats struct {
	TrainingDays int     `json:"trainingDays"`
	TotalMinutes float64 `json:"totalMinutes"`
	TotalSets    int     `json:"totalSets"`
	TotalWeight  float64 `json:"totalWeight"`
}

// WeekDelta holds per-metric percentage changes against the previous week.
// A nil metric means the previous week had no baseline to compare against.
type WeekDelta struct {
	TrainingDays *float64 `json:"trainingDays"`
	TotalMinutes *float64 `json:"totalMinutes"`
	TotalSets    *float64 `json:"totalSets"`
	TotalWeight  *float64 `json:"totalWeight"`
}

type WeekSummary struct {
	Current WeekStats `json:"current"`
	Last    WeekStats `json:"last"`
	Delta   WeekDelta `json:"delta"`
}

// ComputeRangeStats reduces the raw log to totals for the half-open
// interval [start, end). Day bucketing uses the location of start.
//
// Workouts are selected by start time. A workout without an end time, or
// with an end time at or before its start, contributes zero duration.
// Warmup sets are excluded everywhere; tonnage counts weight*reps only
// when both fields are logged.
func ComputeRangeStats(
	allWorkouts []workouts.Workout,
	allSets []workouts.SetRecord,
	start, end time.Time,
) WeekStats {
	selected := make(map[int]bool)
	days := make(map[string]bool)
	var totalMinutes float64

	for _, w := range allWorkouts {
		if w.StartTime.Before(start) || !w.StartTime.Before(end) {
			continue
		}
		selected[w.ID] = true
		days[DayKey(w.StartTime.In(start.Location()))] = true

		if w.EndTime != nil {
			if minutes := w.EndTime.Sub(w.StartTime).Minutes(); minutes > 0 {
				totalMinutes += minutes
			}
		}
	}

	var totalSets int
	var totalWeight float64
	for _, s := range allSets {
		if s.IsWarmup || !selected[s.WorkoutID] {
			continue
		}
		totalSets++
		if s.Weight != nil && s.Reps != nil {
			totalWeight += *s.Weight * float64(*s.Reps)
		}
	}

	return WeekStats{
		TrainingDays: len(days),
		TotalMinutes: totalMinutes,
		TotalSets:    totalSets,
		TotalWeight:  totalWeight,
	}
}

// WeekSummary compares the current calendar week against the 7 days right
// before it. Both windows are Monday-anchored, contiguous and non-overlapping.
func (a *Analyzer) WeekSummary(ctx context.Context) (_ *WeekSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.weeksummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := a.now().In(a.loc)
	currentStart := StartOfWeek(now)
	currentEnd := EndOfWeek(currentStart)
	lastStart := currentStart.AddDate(0, 0, -7)
	lastEnd := currentStart

	allWorkouts, err := a.workouts.ListAll(ctx, workouts.WorkoutParams{})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	allSets, err := a.workouts.ListAllSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	current := ComputeRangeStats(allWorkouts, allSets, currentStart, currentEnd)
	last := ComputeRangeStats(allWorkouts, allSets, lastStart, lastEnd)

	return &WeekSummary{
		Current: current,
		Last:    last,
		Delta: WeekDelta{
			TrainingDays: computeDelta(float64(current.TrainingDays), float64(last.TrainingDays)),
			TotalMinutes: computeDelta(current.TotalMinutes, last.TotalMinutes),
			TotalSets:    computeDelta(float64(current.TotalSets), float64(last.TotalSets)),
			TotalWeight:  computeDelta(current.TotalWeight, last.TotalWeight),
		},
	}, nil
}

// computeDelta returns the signed percentage change, or nil when there is
// no baseline. Rounding is left to the presentation layer.
func computeDelta(current, last float64) *float64 {
	if last == 0 {
		return nil
	}
	d := (current - last) / last * 100
	return &d
}
