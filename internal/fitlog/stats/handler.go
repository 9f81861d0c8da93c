package stats

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dkrsti/fitlog/internal/telemetry/tracing"
	"github.com/dkrsti/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/stats/weekly", handler.HandleWeekSummary).Methods("GET", "OPTIONS").Name("weekly-summary")
	router.HandleFunc("/stats/goals/weekly", handler.HandleWeeklyGoal).Methods("GET", "OPTIONS").Name("weekly-goal")
	router.HandleFunc("/stats/exercise/{id}/history", handler.HandleExerciseHistory).Methods("GET", "OPTIONS").Name("exercise-history")
	router.HandleFunc("/stats/exercise/{id}/pr", handler.HandleExercisePR).Methods("GET", "OPTIONS").Name("exercise-pr")
}

func (handler *Handler) HandleWeekSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.weeksummary")
	defer span.End()

	summary, err := handler.analyzer.WeekSummary(ctx)
	if err != nil {
		log.Errorf("failed to compute week summary: %s", err)
		http.Error(w, "error, failed to compute week summary", http.StatusInternalServerError)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal week summary: %s", err)
		http.Error(w, "error, failed to compute week summary", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(summaryJson))
}

func (handler *Handler) HandleWeeklyGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.weeklygoal")
	defer span.End()

	progress, err := handler.analyzer.WeeklyGoalProgress(ctx)
	if err != nil {
		log.Errorf("failed to compute weekly goal progress: %s", err)
		http.Error(w, "error, failed to compute weekly goal progress", http.StatusInternalServerError)
		return
	}

	progressJson, err := json.Marshal(progress)
	if err != nil {
		log.Errorf("failed to marshal weekly goal progress: %s", err)
		http.Error(w, "error, failed to compute weekly goal progress", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(progressJson))
}

func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.exercisehistory")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, exercise id invalid", http.StatusBadRequest)
		return
	}

	history, err := handler.analyzer.ExerciseHistory(ctx, exerciseID)
	if err != nil {
		log.Errorf("failed to compute history for exercise %d: %s", exerciseID, err)
		http.Error(w, "error, failed to compute exercise history", http.StatusInternalServerError)
		return
	}

	historyJson, err := json.Marshal(history)
	if err != nil {
		log.Errorf("failed to marshal exercise history: %s", err)
		http.Error(w, "error, failed to compute exercise history", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(historyJson))
}

func (handler *Handler) HandleExercisePR(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.exercisepr")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "error, exercise id invalid", http.StatusBadRequest)
		return
	}

	pr, err := handler.analyzer.ExercisePR(ctx, exerciseID)
	if err != nil {
		log.Errorf("failed to compute PR for exercise %d: %s", exerciseID, err)
		http.Error(w, "error, failed to compute exercise PR", http.StatusInternalServerError)
		return
	}

	prJson, err := json.Marshal(pr)
	if err != nil {
		log.Errorf("failed to marshal exercise PR: %s", err)
		http.Error(w, "error, failed to compute exercise PR", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(prJson))
}
