package settlement

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yudhap/patungan/internal/settlement/split"
	"github.com/yudhap/patungan/pkg/response"
)

// Handler handles HTTP requests for settlement calculations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// Routes returns the router for calculation endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Calculate)
	r.Post("/custom-split", h.CustomSplit)
	r.Post("/tip", h.WithTip)
	r.Post("/transfers", h.Transfers)
	r.Post("/evaluate", h.Evaluate)

	return r
}

// Calculate handles POST /calculations
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, h.service.Calculate(req.Session))
}

// CustomSplit handles POST /calculations/custom-split
func (h *Handler) CustomSplit(w http.ResponseWriter, r *http.Request) {
	var req CustomSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.CalculateCustomSplit(req.Session, req.Percentages)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// WithTip handles POST /calculations/tip
func (h *Handler) WithTip(w http.ResponseWriter, r *http.Request) {
	var req TipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.CalculateWithTip(req.Session, req.TipAmount, split.TipMode(req.Mode))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Transfers handles POST /calculations/transfers
func (h *Handler) Transfers(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result := h.service.Calculate(req.Session)
	transfers := h.service.SuggestTransfers(result)

	response.JSON(w, http.StatusOK, &TransfersResponse{Transfers: transfers})
}

// Evaluate handles POST /calculations/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	response.JSON(w, http.StatusOK, &EvaluateResponse{
		Expression: req.Expression,
		Value:      h.service.EvaluateExpression(req.Expression),
	})
}
