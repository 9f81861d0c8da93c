package measurements

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dkrsti/fitlog/internal/telemetry/metrics"
	"github.com/dkrsti/fitlog/internal/telemetry/tracing"
	"github.com/dkrsti/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=measurements_test

type measurementsRepo interface {
	Add(ctx context.Context, m BodyMeasurement) (*BodyMeasurement, error)
	ListAll(ctx context.Context) ([]BodyMeasurement, error)
	Delete(ctx context.Context, id int) error
}

type DeleteMeasurementResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo    measurementsRepo
	metrics *metrics.Manager
}

func NewHandler(repo measurementsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/measurements", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-measurement")
	router.HandleFunc("/measurements", handler.HandleList).Methods("GET", "OPTIONS").Name("list-measurements")
	router.HandleFunc("/measurements/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-measurement")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.measurements.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var m BodyMeasurement
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		log.Tracef("new measurement, unmarshal json params: %s", err)
		http.Error(w, "add measurement failed", http.StatusBadRequest)
		return
	}

	if m.Date.IsZero() || m.Weight <= 0 {
		http.Error(w, "error, measurement date or weight invalid", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, m)
	if err != nil {
		log.Errorf("failed to add measurement: %s", err)
		http.Error(w, "error, failed to add measurement", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMeasurementsAdded.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal measurement: %s", err)
		http.Error(w, "error, failed to add measurement", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.measurements.list")
	defer span.End()

	all, err := handler.repo.ListAll(ctx)
	if err != nil {
		log.Errorf("failed to list measurements: %s", err)
		http.Error(w, "error, failed to list measurements", http.StatusInternalServerError)
		return
	}

	allJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("failed to marshal measurements: %s", err)
		http.Error(w, "error, failed to list measurements", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(allJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.measurements.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, measurement id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrMeasurementNotFound) {
			http.Error(w, "measurement not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete measurement %d: %s", id, err)
		http.Error(w, "error, failed to delete measurement", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteMeasurementResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete measurement response: %s", err)
		http.Error(w, "error, failed to delete measurement", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}
