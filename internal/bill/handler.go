package bill

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hamadsh/billsplit/pkg/middleware"
	"github.com/hamadsh/billsplit/pkg/response"
)

// Handler handles HTTP requests for bill operations
type Handler struct {
	service *Service
}

// NewHandler creates a new bill handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for bill endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/recent", h.Recent)
	r.Get("/history", h.History)
	r.Get("/stats", h.Stats)
	r.Get("/team/{teamId}", h.ListByTeam)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Edit)
	r.Post("/{id}/settle", h.Settle)

	return r
}

// Create handles POST /bills
// @Summary      Create a new bill
// @Description  Create a bill with splits computed by the equal, custom, or percentage method and optional payments
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body CreateBillRequest true "Bill creation request"
// @Success      201 {object} response.APIResponse{data=BillResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /bills [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	detail, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create bill")
		return
	}

	response.JSON(w, http.StatusCreated, detail.ToResponse())
}

// GetByID handles GET /bills/{id}
// @Summary      Get bill by ID
// @Description  Get a bill with all its splits and payments
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID"
// @Success      200 {object} response.APIResponse{data=BillResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /bills/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	detail, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get bill")
		return
	}

	response.JSON(w, http.StatusOK, detail.ToResponse())
}

// Edit handles PUT /bills/{id}
// @Summary      Edit a bill
// @Description  Replace a bill's fields and its entire split and payment collections atomically
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID"
// @Param        request body EditBillRequest true "Bill edit request"
// @Success      200 {object} response.APIResponse{data=BillResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /bills/{id} [put]
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req EditBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	detail, err := h.service.Edit(r.Context(), actorID, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to edit bill")
		return
	}

	response.JSON(w, http.StatusOK, detail.ToResponse())
}

// Settle handles POST /bills/{id}/settle
// @Summary      Settle your split
// @Description  Mark the acting user's split on this bill as settled
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /bills/{id}/settle [post]
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid bill ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Settle(r.Context(), id, userID); err != nil {
		response.FromError(w, err, "Failed to settle split")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Split settled"})
}

// ListByTeam handles GET /bills/team/{teamId}
// @Summary      List bills by team
// @Description  Get all bills for a team, newest first
// @Tags         bills
// @Produce      json
// @Param        teamId path string true "Team ID"
// @Success      200 {object} response.APIResponse{data=[]BillResponse}
// @Router       /bills/team/{teamId} [get]
func (h *Handler) ListByTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(chi.URLParam(r, "teamId"))
	if err != nil {
		response.BadRequest(w, "Invalid team ID")
		return
	}

	bills, err := h.service.ListByTeam(r.Context(), teamID)
	if err != nil {
		response.InternalError(w, "Failed to list bills")
		return
	}

	response.JSON(w, http.StatusOK, toBillResponses(bills))
}

// Recent handles GET /bills/recent
// @Summary      Recent bills
// @Description  Get the acting user's five most recent bills across their teams
// @Tags         bills
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]BillResponse}
// @Router       /bills/recent [get]
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	bills, err := h.service.Recent(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list recent bills")
		return
	}

	response.JSON(w, http.StatusOK, toBillResponses(bills))
}

// History handles GET /bills/history
// @Summary      Bill history
// @Description  Get every bill in the user's teams classified into all, paid, owe, or settled for that user
// @Tags         bills
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]HistoryEntry}
// @Router       /bills/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	entries, err := h.service.History(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to load history")
		return
	}

	response.JSON(w, http.StatusOK, entries)
}

// Stats handles GET /bills/stats
// @Summary      Dashboard stats
// @Description  Get the acting user's total spend, active team count, and bills created
// @Tags         bills
// @Produce      json
// @Success      200 {object} response.APIResponse{data=StatsResponse}
// @Router       /bills/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to load stats")
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

func toBillResponses(bills []*Bill) []*BillResponse {
	responses := make([]*BillResponse, len(bills))
	for i, b := range bills {
		responses[i] = b.ToResponse()
	}
	return responses
}
