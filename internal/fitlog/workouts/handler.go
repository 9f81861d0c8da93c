package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dkrsti/fitlog/internal/telemetry/metrics"
	"github.com/dkrsti/fitlog/internal/telemetry/tracing"
	"github.com/dkrsti/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, id int) (*Workout, error)
	Update(ctx context.Context, workout *Workout) error
	Delete(ctx context.Context, id int) error
	ListAll(ctx context.Context, params WorkoutParams) ([]Workout, error)
	AddSet(ctx context.Context, set SetRecord) (*SetRecord, error)
	SetsForWorkout(ctx context.Context, workoutID int) ([]SetRecord, error)
}

type StartWorkoutRequest struct {
	TemplateID *int       `json:"templateId,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	Note       string     `json:"note,omitempty"`
}

type UpdateNoteRequest struct {
	Note string `json:"note"`
}

type WorkoutDetailsResponse struct {
	Workout Workout     `json:"workout"`
	Sets    []SetRecord `json:"sets"`
}

type DeleteWorkoutResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo    workoutsRepo
	metrics *metrics.Manager
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts", handler.HandleStart).Methods("POST", "OPTIONS").Name("start-workout")
	router.HandleFunc("/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	router.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	router.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	router.HandleFunc("/workouts/{id}/finish", handler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-workout")
	router.HandleFunc("/workouts/{id}/note", handler.HandleUpdateNote).Methods("PUT", "OPTIONS").Name("update-workout-note")
	router.HandleFunc("/workouts/{id}/sets", handler.HandleAddSet).Methods("POST", "OPTIONS").Name("add-set")
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.start")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var startReq StartWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&startReq); err != nil {
		log.Tracef("start workout, unmarshal json params: %s", err)
		http.Error(w, "start workout failed", http.StatusBadRequest)
		return
	}

	workout := Workout{
		TemplateID: startReq.TemplateID,
		StartTime:  time.Now(),
		Note:       startReq.Note,
	}
	if startReq.StartTime != nil {
		workout.StartTime = *startReq.StartTime
	}

	added, err := handler.repo.Add(ctx, workout)
	if err != nil {
		log.Errorf("failed to start workout: %s", err)
		http.Error(w, "error, failed to start workout", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsStarted.Inc()
	log.Debugf("workout started: %d", added.ID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal started workout: %s", err)
		http.Error(w, "error, failed to start workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.finish")
	defer span.End()

	id, err := handler.workoutID(r)
	if err != nil {
		http.Error(w, "error, workout id invalid", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "finish workout", err)
		return
	}

	now := time.Now()
	workout.EndTime = &now
	if err := handler.repo.Update(ctx, workout); err != nil {
		handler.writeRepoError(w, "finish workout", err)
		return
	}

	handler.metrics.CounterWorkoutsFinished.Inc()
	log.Debugf("workout finished: %d", workout.ID)

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal finished workout: %s", err)
		http.Error(w, "error, failed to finish workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(workoutJson))
}

func (handler *Handler) HandleUpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.updatenote")
	defer span.End()

	id, err := handler.workoutID(r)
	if err != nil {
		http.Error(w, "error, workout id invalid", http.StatusBadRequest)
		return
	}

	var noteReq UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&noteReq); err != nil {
		http.Error(w, "update workout note failed", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "update workout note", err)
		return
	}

	workout.Note = noteReq.Note
	if err := handler.repo.Update(ctx, workout); err != nil {
		handler.writeRepoError(w, "update workout note", err)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"updated": true}`)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addset")
	defer span.End()

	id, err := handler.workoutID(r)
	if err != nil {
		http.Error(w, "error, workout id invalid", http.StatusBadRequest)
		return
	}

	var set SetRecord
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Tracef("add set, unmarshal json params: %s", err)
		http.Error(w, "add set failed", http.StatusBadRequest)
		return
	}

	if set.ExerciseID == 0 {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}
	set.WorkoutID = id

	// the owning workout must exist, sets never dangle
	if _, err := handler.repo.Get(ctx, id); err != nil {
		handler.writeRepoError(w, "add set", err)
		return
	}

	added, err := handler.repo.AddSet(ctx, set)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "error, unknown exercise", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add set to workout %d: %s", id, err)
		http.Error(w, "error, failed to add set", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSetsAdded.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal added set: %s", err)
		http.Error(w, "error, failed to add set", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, err := handler.workoutID(r)
	if err != nil {
		http.Error(w, "error, workout id invalid", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "get workout", err)
		return
	}

	sets, err := handler.repo.SetsForWorkout(ctx, id)
	if err != nil {
		log.Errorf("failed to get sets for workout %d: %s", id, err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(WorkoutDetailsResponse{
		Workout: *workout,
		Sets:    sets,
	})
	if err != nil {
		log.Errorf("failed to marshal workout details: %s", err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	var params WorkoutParams
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "invalid from parameter", http.StatusBadRequest)
			return
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "invalid to parameter", http.StatusBadRequest)
			return
		}
		params.To = &to
	}

	workoutsList, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("failed to list workouts: %s", err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(workoutsList)
	if err != nil {
		log.Errorf("failed to marshal workouts: %s", err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id, err := handler.workoutID(r)
	if err != nil {
		http.Error(w, "error, workout id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		handler.writeRepoError(w, "delete workout", err)
		return
	}

	respJson, err := json.Marshal(DeleteWorkoutResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete workout response: %s", err)
		http.Error(w, "error, failed to delete workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) workoutID(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	return strconv.Atoi(vars["id"])
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	log.Errorf("%s: %s", action, err)
	http.Error(w, "error, "+action+" failed", http.StatusInternalServerError)
}
