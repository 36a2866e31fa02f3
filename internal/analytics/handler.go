package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yudhap/patungan/internal/history"
	"github.com/yudhap/patungan/pkg/response"
)

// Handler handles HTTP requests for analytics
type Handler struct {
	service *Service
	history *history.Service
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service, history *history.Service) *Handler {
	return &Handler{service: service, history: history}
}

// Routes returns the router for analytics endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Report)

	return r
}

// Report handles GET /analytics
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to load sessions")
		return
	}

	response.JSON(w, http.StatusOK, h.service.Aggregate(records))
}
