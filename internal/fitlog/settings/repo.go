package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkrsti/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// the settings table holds exactly one row
const singletonID = 1

var ErrSettingsNotFound = errors.New("settings not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context) (_ *AppSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.settings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var s AppSettings
	err = r.db.QueryRow(
		ctx,
		`SELECT id, weight_unit, weekly_target_days, body_weight_target
			FROM app_settings WHERE id = $1;`,
		singletonID,
	).Scan(&s.ID, &s.WeightUnit, &s.WeeklyTargetDays, &s.BodyWeightTarget)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Save upserts the singleton settings row.
func (r *Repo) Save(ctx context.Context, s AppSettings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.settings.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.ID = singletonID
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO app_settings (id, weight_unit, weekly_target_days, body_weight_target)
			VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			weight_unit = EXCLUDED.weight_unit,
			weekly_target_days = EXCLUDED.weekly_target_days,
			body_weight_target = EXCLUDED.body_weight_target;`,
		s.ID, s.WeightUnit, s.WeeklyTargetDays, s.BodyWeightTarget,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
