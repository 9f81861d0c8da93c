package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkrsti/fitlog/internal/telemetry/tracing"
	"github.com/dkrsti/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=settings_test

type settingsRepo interface {
	Get(ctx context.Context) (*AppSettings, error)
	Save(ctx context.Context, s AppSettings) error
}

type Handler struct {
	repo settingsRepo
}

func NewHandler(repo settingsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/settings", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-settings")
	router.HandleFunc("/settings", handler.HandleSave).Methods("PUT", "OPTIONS").Name("save-settings")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.get")
	defer span.End()

	s, err := handler.repo.Get(ctx)
	if errors.Is(err, ErrSettingsNotFound) {
		// first run, fall back to defaults without persisting
		s = &AppSettings{ID: 1, WeightUnit: UnitKilograms}
	} else if err != nil {
		log.Errorf("failed to get settings: %s", err)
		http.Error(w, "error, failed to get settings", http.StatusInternalServerError)
		return
	}

	settingsJson, err := json.Marshal(s)
	if err != nil {
		log.Errorf("failed to marshal settings: %s", err)
		http.Error(w, "error, failed to get settings", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(settingsJson))
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.save")
	defer span.End()

	var s AppSettings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "save settings failed", http.StatusBadRequest)
		return
	}

	if !s.WeightUnit.IsValid() {
		http.Error(w, "error, weight unit invalid", http.StatusBadRequest)
		return
	}
	if s.WeeklyTargetDays != nil && (*s.WeeklyTargetDays < 1 || *s.WeeklyTargetDays > 7) {
		http.Error(w, "error, weekly target days out of range", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Save(ctx, s); err != nil {
		log.Errorf("failed to save settings: %s", err)
		http.Error(w, "error, failed to save settings", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"saved": true}`)
}
