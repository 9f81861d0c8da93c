package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkrsti/fitlog/internal/fitlog/settings"
	"github.com/dkrsti/fitlog/internal/fitlog/workouts"
	"github.com/dkrsti/fitlog/internal/telemetry/tracing"
)

type WeeklyGoalProgress struct {
	// TargetDays is nil when no weekly goal is configured
	TargetDays    *int `json:"targetDays"`
	CompletedDays int  `json:"completedDays"`
	StreakDays    int  `json:"streakDays"`
}

// WeeklyGoalProgress reports the configured weekly training-day goal, how
// many distinct days were trained in the current week, and the length of
// the consecutive-day streak ending today. The streak requires a workout
// today: with no training yet today it is 0, there is no grace day.
func (a *Analyzer) WeeklyGoalProgress(ctx context.Context) (_ *WeeklyGoalProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.weeklygoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var targetDays *int
	appSettings, err := a.settings.Get(ctx)
	switch {
	case errors.Is(err, settings.ErrSettingsNotFound):
		// no settings yet, no goal configured
	case err != nil:
		return nil, fmt.Errorf("get settings: %w", err)
	default:
		targetDays = appSettings.WeeklyTargetDays
	}

	allWorkouts, err := a.workouts.ListAll(ctx, workouts.WorkoutParams{})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	now := a.now().In(a.loc)
	weekStart := StartOfWeek(now)
	weekEnd := EndOfWeek(weekStart)

	daysThisWeek := make(map[string]bool)
	allDays := make(map[string]bool)
	for _, w := range allWorkouts {
		start := w.StartTime.In(a.loc)
		key := DayKey(start)
		allDays[key] = true
		if !start.Before(weekStart) && start.Before(weekEnd) {
			daysThisWeek[key] = true
		}
	}

	// walk back one calendar day at a time, starting today
	streakDays := 0
	year, month, day := now.Date()
	cursor := time.Date(year, month, day, 0, 0, 0, 0, a.loc)
	for allDays[DayKey(cursor)] {
		streakDays++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return &WeeklyGoalProgress{
		TargetDays:    targetDays,
		CompletedDays: len(daysThisWeek),
		StreakDays:    streakDays,
	}, nil
}
