package workouts

import "time"

// Workout is a single training session. StartTime is set when the session
// starts, EndTime when it is finished. A session without EndTime is still
// in progress (or was abandoned) and contributes zero duration to stats.
type Workout struct {
	ID         int        `json:"id"`
	TemplateID *int       `json:"templateId,omitempty"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// SetRecord is one logged set within a workout. Strength sets carry
// weight/reps, cardio sets carry duration/distance; the unused fields
// stay nil. Records are append-only, there is no update path.
type SetRecord struct {
	ID              int      `json:"id"`
	WorkoutID       int      `json:"workoutId"`
	ExerciseID      int      `json:"exerciseId"`
	IsWarmup        bool     `json:"isWarmup"`
	Weight          *float64 `json:"weight,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	DurationMinutes *float64 `json:"durationMinutes,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
}

// WeightValue returns the set weight, or 0 if not logged.
func (s SetRecord) WeightValue() float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

// RepsValue returns the rep count, or 0 if not logged.
func (s SetRecord) RepsValue() int {
	if s.Reps == nil {
		return 0
	}
	return *s.Reps
}
