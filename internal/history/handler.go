package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yudhap/patungan/internal/settlement"
	"github.com/yudhap/patungan/pkg/response"
)

// Handler handles HTTP requests for saved sessions
type Handler struct {
	service *Service
}

// NewHandler creates a new history handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for saved-session endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Save)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	return r
}

// Save handles POST /sessions
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var session settlement.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.service.Save(r.Context(), &session)
	if err != nil {
		if errors.Is(err, ErrEmptySession) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to save session")
		return
	}

	response.JSON(w, http.StatusCreated, rec)
}

// GetByID handles GET /sessions/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get session")
		return
	}

	response.JSON(w, http.StatusOK, rec)
}

// List handles GET /sessions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	records, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list sessions")
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.JSONWithMeta(w, http.StatusOK, records, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Delete handles DELETE /sessions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete session")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
