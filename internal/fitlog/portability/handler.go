package portability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkrsti/fitlog/internal/fitlog/exercises"
	"github.com/dkrsti/fitlog/internal/fitlog/measurements"
	"github.com/dkrsti/fitlog/internal/fitlog/settings"
	"github.com/dkrsti/fitlog/internal/fitlog/workouts"
	"github.com/dkrsti/fitlog/internal/telemetry/tracing"
	"github.com/dkrsti/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=portability_test

type exercisesRepo interface {
	ListAll(ctx context.Context) ([]exercises.Exercise, error)
}

type workoutsRepo interface {
	ListAll(ctx context.Context, params workouts.WorkoutParams) ([]workouts.Workout, error)
	ListAllSets(ctx context.Context) ([]workouts.SetRecord, error)
}

type measurementsRepo interface {
	ListAll(ctx context.Context) ([]measurements.BodyMeasurement, error)
}

type settingsRepo interface {
	Get(ctx context.Context) (*settings.AppSettings, error)
}

// ExportPayload is the full data dump handed to clients for backup.
type ExportPayload struct {
	Exercises    []exercises.Exercise           `json:"exercises"`
	Workouts     []workouts.Workout             `json:"workouts"`
	Sets         []workouts.SetRecord           `json:"sets"`
	Measurements []measurements.BodyMeasurement `json:"measurements"`
	Settings     *settings.AppSettings          `json:"settings,omitempty"`
}

type Handler struct {
	exercises    exercisesRepo
	workouts     workoutsRepo
	measurements measurementsRepo
	settings     settingsRepo
}

func NewHandler(
	exercisesRepo exercisesRepo,
	workoutsRepo workoutsRepo,
	measurementsRepo measurementsRepo,
	settingsRepo settingsRepo,
) *Handler {
	return &Handler{
		exercises:    exercisesRepo,
		workouts:     workoutsRepo,
		measurements: measurementsRepo,
		settings:     settingsRepo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export-data")
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.portability.export")
	defer span.End()

	payload := ExportPayload{}
	var err error

	if payload.Exercises, err = handler.exercises.ListAll(ctx); err != nil {
		log.Errorf("export, list exercises: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}
	if payload.Workouts, err = handler.workouts.ListAll(ctx, workouts.WorkoutParams{}); err != nil {
		log.Errorf("export, list workouts: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}
	if payload.Sets, err = handler.workouts.ListAllSets(ctx); err != nil {
		log.Errorf("export, list sets: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}
	if payload.Measurements, err = handler.measurements.ListAll(ctx); err != nil {
		log.Errorf("export, list measurements: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}

	payload.Settings, err = handler.settings.Get(ctx)
	if err != nil && !errors.Is(err, settings.ErrSettingsNotFound) {
		log.Errorf("export, get settings: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("export, marshal payload: %s", err)
		http.Error(w, "error, export failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(payloadJson))
}
