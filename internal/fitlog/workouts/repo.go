package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkrsti/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutParams filters workout listings. Zero value means no filter.
type WorkoutParams struct {
	From *time.Time
	To   *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout (template_id, start_time, end_time, note)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		workout.TemplateID, workout.StartTime, workout.EndTime, workout.Note,
	).Scan(&workout.ID)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))

	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var workout Workout
	err = r.db.QueryRow(
		ctx,
		`SELECT id, template_id, start_time, end_time, note FROM workout WHERE id = $1;`,
		id,
	).Scan(&workout.ID, &workout.TemplateID, &workout.StartTime, &workout.EndTime, &workout.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	return &workout, nil
}

// Update overwrites the mutable workout fields (end time and note).
// Start time is fixed at creation and never rewritten.
func (r *Repo) Update(ctx context.Context, workout *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", workout.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET end_time = $1, note = $2 WHERE id = $3;`,
		workout.EndTime, workout.Note, workout.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM workout_set WHERE workout_id = $1;`, id); err != nil {
		return fmt.Errorf("delete workout sets: %w", err)
	}
	return nil
}

// ListAll returns workouts filtered by params, ordered by start time ascending.
func (r *Repo) ListAll(ctx context.Context, params WorkoutParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, template_id, start_time, end_time, note
			FROM workout
			WHERE ($1::timestamptz IS NULL OR start_time >= $1)
			AND ($2::timestamptz IS NULL OR start_time < $2)
		ORDER BY start_time ASC;`,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2workouts(rows)
}

// ListByIDs returns the workouts with the given ids, ordered by start time ascending.
// Unknown ids are silently skipped.
func (r *Repo) ListByIDs(ctx context.Context, ids []int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listbyids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids", len(ids)))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, template_id, start_time, end_time, note
			FROM workout
			WHERE id = ANY($1)
		ORDER BY start_time ASC;`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2workouts(rows)
}

func (r *Repo) AddSet(ctx context.Context, set SetRecord) (_ *SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", set.WorkoutID))
	span.SetAttributes(attribute.Int("exercise.id", set.ExerciseID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_set
				(workout_id, exercise_id, is_warmup, weight, reps, duration_minutes, distance)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		set.WorkoutID, set.ExerciseID, set.IsWarmup,
		set.Weight, set.Reps, set.DurationMinutes, set.Distance,
	).Scan(&set.ID)
	if err != nil {
		return nil, fmt.Errorf("insert set: %w", err)
	}

	return &set, nil
}

// SetsForWorkout returns all sets of one workout in insertion order.
func (r *Repo) SetsForWorkout(ctx context.Context, workoutID int) (_ []SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.setsforworkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", workoutID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, workout_id, exercise_id, is_warmup, weight, reps, duration_minutes, distance
			FROM workout_set
			WHERE workout_id = $1
		ORDER BY id ASC;`,
		workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2sets(rows)
}

// SetsForExercise returns every set ever logged for one exercise, in insertion order.
func (r *Repo) SetsForExercise(ctx context.Context, exerciseID int) (_ []SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.setsforexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, workout_id, exercise_id, is_warmup, weight, reps, duration_minutes, distance
			FROM workout_set
			WHERE exercise_id = $1
		ORDER BY id ASC;`,
		exerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2sets(rows)
}

// ListAllSets returns the full set log in insertion order.
func (r *Repo) ListAllSets(ctx context.Context) (_ []SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listallsets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, workout_id, exercise_id, is_warmup, weight, reps, duration_minutes, distance
			FROM workout_set
		ORDER BY id ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2sets(rows)
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var result []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.TemplateID, &w.StartTime, &w.EndTime, &w.Note); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result = append(result, w)
	}

	if result == nil {
		result = make([]Workout, 0)
	}

	return result, nil
}

func rows2sets(rows pgx.Rows) ([]SetRecord, error) {
	var result []SetRecord
	for rows.Next() {
		var s SetRecord
		if err := rows.Scan(
			&s.ID, &s.WorkoutID, &s.ExerciseID, &s.IsWarmup,
			&s.Weight, &s.Reps, &s.DurationMinutes, &s.Distance,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result = append(result, s)
	}

	if result == nil {
		result = make([]SetRecord, 0)
	}

	return result, nil
}
