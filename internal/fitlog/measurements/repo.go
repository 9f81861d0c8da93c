package measurements

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkrsti/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrMeasurementNotFound = errors.New("measurement not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, m BodyMeasurement) (_ *BodyMeasurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO body_measurement (date, weight, body_fat, note)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		m.Date, m.Weight, m.BodyFat, m.Note,
	).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("insert measurement: %w", err)
	}

	span.SetAttributes(attribute.Int("measurement.id", m.ID))

	return &m, nil
}

// ListAll returns all measurements ordered by date ascending.
func (r *Repo) ListAll(ctx context.Context) (_ []BodyMeasurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, date, weight, body_fat, note FROM body_measurement ORDER BY date ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	var result []BodyMeasurement
	for rows.Next() {
		var m BodyMeasurement
		if err := rows.Scan(&m.ID, &m.Date, &m.Weight, &m.BodyFat, &m.Note); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result = append(result, m)
	}

	if result == nil {
		result = make([]BodyMeasurement, 0)
	}

	return result, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM body_measurement WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMeasurementNotFound
	}
	return nil
}
