package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"resistmap/internal/model"
	"resistmap/internal/service"
)

// DefinitionHandler handles assessment definition endpoints (admin only)
type DefinitionHandler struct {
	definitionSvc *service.DefinitionService
}

// NewDefinitionHandler creates a new definition handler
func NewDefinitionHandler(definitionSvc *service.DefinitionService) *DefinitionHandler {
	return &DefinitionHandler{definitionSvc: definitionSvc}
}

// Create handles POST /v1/definitions
func (h *DefinitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var def model.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.definitionSvc.Create(r.Context(), &def)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidDefinition):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrCategoryExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "category": def.Category})
}

// Get handles GET /v1/definitions/{category}
func (h *DefinitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	def, err := h.definitionSvc.GetByCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAssessment) {
			writeError(w, http.StatusNotFound, "assessment category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, def)
}

// List handles GET /v1/definitions
func (h *DefinitionHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.definitionSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"definitions": defs})
}

// Update handles PUT /v1/definitions/{category}
func (h *DefinitionHandler) Update(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	var def model.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	def.Category = category

	if err := h.definitionSvc.Update(r.Context(), &def); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidDefinition):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrUnknownAssessment):
			writeError(w, http.StatusNotFound, "assessment category not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, def)
}

// Delete handles DELETE /v1/definitions/{category}
func (h *DefinitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	if err := h.definitionSvc.Delete(r.Context(), category); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": category})
}
