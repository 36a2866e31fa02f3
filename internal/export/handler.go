package export

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yudhap/patungan/internal/settlement"
	"github.com/yudhap/patungan/pkg/response"
)

// Handler handles HTTP requests for exports
type Handler struct {
	service *Service
	calc    *settlement.Service
}

// NewHandler creates a new export handler
func NewHandler(service *Service, calc *settlement.Service) *Handler {
	return &Handler{service: service, calc: calc}
}

// Routes returns the router for export endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/text", h.Text)
	r.Post("/csv", h.CSV)

	return r
}

// Text handles POST /exports/text
func (h *Handler) Text(w http.ResponseWriter, r *http.Request) {
	var session settlement.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result := h.calc.Calculate(&session)
	transfers := h.calc.SuggestTransfers(result)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.service.Text(&session, result, transfers)))
}

// CSV handles POST /exports/csv
func (h *Handler) CSV(w http.ResponseWriter, r *http.Request) {
	var session settlement.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result := h.calc.Calculate(&session)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="settlement.csv"`)
	w.WriteHeader(http.StatusOK)
	// Headers are already sent; a write failure here can only abort the stream.
	_ = h.service.WriteCSV(w, result)
}
