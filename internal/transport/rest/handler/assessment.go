package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"resistmap/internal/model"
	"resistmap/internal/scoring"
	"resistmap/internal/service"
	"resistmap/internal/transport/rest/middleware"
)

// AssessmentHandler handles the scoring endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

// SubmitRequest is the request body for full and free-tier scoring
type SubmitRequest struct {
	Responses []model.Response `json:"responses" validate:"required,min=1"`
}

// Start handles POST /v1/assessments/{category}/start
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	started, err := h.assessmentSvc.Start(r.Context(), category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAssessment) {
			writeError(w, http.StatusNotFound, "assessment category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, started)
}

// Submit handles POST /v1/assessments/{category}/submit
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	respondentID := middleware.GetRespondentID(r.Context())
	if respondentID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if middleware.GetCategory(r.Context()) != category {
		writeError(w, http.StatusForbidden, "token was issued for a different category")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "responses are required")
		return
	}

	result, err := h.assessmentSvc.Submit(r.Context(), respondentID, category, req.Responses)
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Preview handles POST /v1/assessments/{category}/preview (free tier, public)
func (h *AssessmentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "responses are required")
		return
	}

	result, err := h.assessmentSvc.Preview(r.Context(), category, req.Responses)
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// History handles GET /v1/assessments/results/me
func (h *AssessmentHandler) History(w http.ResponseWriter, r *http.Request) {
	respondentID := middleware.GetRespondentID(r.Context())
	if respondentID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	results, err := h.assessmentSvc.History(r.Context(), respondentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// CategoryResults handles GET /v1/assessments/{category}/results (admin)
func (h *AssessmentHandler) CategoryResults(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := h.assessmentSvc.CategoryResults(r.Context(), category, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Stats handles GET /v1/assessments/{category}/stats (admin)
func (h *AssessmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	counts, err := h.assessmentSvc.DominantDistribution(r.Context(), category, 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"dominant": counts})
}

// writeScoringError maps service/engine errors onto HTTP statuses
func writeScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownAssessment):
		writeError(w, http.StatusNotFound, "assessment category not found")
	case errors.Is(err, scoring.ErrIncompleteResponses):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrMalformedResponse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
