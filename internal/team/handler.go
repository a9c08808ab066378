package team

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hamadsh/billsplit/pkg/middleware"
	"github.com/hamadsh/billsplit/pkg/response"
)

// Handler handles HTTP requests for team operations
type Handler struct {
	service *Service
}

// NewHandler creates a new team handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for team endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/invites", h.ListInvites)
	r.Post("/invites/{inviteId}", h.RespondInvite)
	r.Get("/{id}", h.Details)
	r.Post("/{id}/invites", h.Invite)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{userId}", h.RemoveMember)

	return r
}

// Create handles POST /teams
// @Summary      Create a new team
// @Description  Create a team and enroll the creator as its first member
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        request body CreateTeamRequest true "Team creation request"
// @Success      201 {object} response.APIResponse{data=TeamResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /teams [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create team")
		return
	}

	response.JSON(w, http.StatusCreated, t.ToResponse())
}

// List handles GET /teams
// @Summary      List your teams
// @Description  Get all teams the acting user is an active member of
// @Tags         teams
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]TeamResponse}
// @Router       /teams [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	teams, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list teams")
		return
	}

	responses := make([]*TeamResponse, len(teams))
	for i, t := range teams {
		responses[i] = t.ToResponse()
	}

	response.JSON(w, http.StatusOK, responses)
}

// Details handles GET /teams/{id}
// @Summary      Get team details
// @Description  Get a team with its full membership, removed members flagged
// @Tags         teams
// @Produce      json
// @Param        id path string true "Team ID"
// @Success      200 {object} response.APIResponse{data=TeamResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /teams/{id} [get]
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid team ID")
		return
	}

	t, members, err := h.service.Details(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get team")
		return
	}

	resp := t.ToResponse()
	resp.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		resp.Members[i] = m.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// Invite handles POST /teams/{id}/invites
// @Summary      Invite by email
// @Description  Record a pending invitation; at most one pending invite per team and email
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        request body InviteRequest true "Invite request"
// @Success      201 {object} response.APIResponse{data=InviteResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /teams/{id}/invites [post]
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid team ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	invite, err := h.service.Invite(r.Context(), id, actorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create invite")
		return
	}

	response.JSON(w, http.StatusCreated, invite.ToResponse())
}

// ListInvites handles GET /teams/invites?email=...
// @Summary      List pending invites
// @Description  Get the pending invites addressed to an email
// @Tags         teams
// @Produce      json
// @Param        email query string true "Invitee email"
// @Success      200 {object} response.APIResponse{data=[]InviteResponse}
// @Router       /teams/invites [get]
func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	invites, err := h.service.ListInvites(r.Context(), email)
	if err != nil {
		response.FromError(w, err, "Failed to list invites")
		return
	}

	responses := make([]*InviteResponse, len(invites))
	for i, invite := range invites {
		responses[i] = invite.ToResponse()
	}

	response.JSON(w, http.StatusOK, responses)
}

// RespondInvite handles POST /teams/invites/{inviteId}
// @Summary      Answer an invite
// @Description  Accept or reject a pending invite; acceptance enrolls the user in the team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        inviteId path string true "Invite ID"
// @Param        request body RespondInviteRequest true "Answer"
// @Success      200 {object} response.APIResponse{data=InviteResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /teams/invites/{inviteId} [post]
func (h *Handler) RespondInvite(w http.ResponseWriter, r *http.Request) {
	inviteID, err := uuid.Parse(chi.URLParam(r, "inviteId"))
	if err != nil {
		response.BadRequest(w, "Invalid invite ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req RespondInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Accept == nil {
		response.BadRequest(w, "accept is required")
		return
	}

	invite, err := h.service.Respond(r.Context(), inviteID, userID, *req.Accept)
	if err != nil {
		response.FromError(w, err, "Failed to answer invite")
		return
	}

	response.JSON(w, http.StatusOK, invite.ToResponse())
}

// AddMember handles POST /teams/{id}/members
// @Summary      Add a member
// @Description  Enroll a user directly; only the team creator may add
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        request body AddMemberRequest true "Member request"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /teams/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid team ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	member, err := h.service.AddMember(r.Context(), id, actorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to add member")
		return
	}

	response.JSON(w, http.StatusCreated, member.ToResponse())
}

// RemoveMember handles DELETE /teams/{id}/members/{userId}
// @Summary      Remove a member
// @Description  Soft-remove a membership and mark the member's splits in the team's bills removed
// @Tags         teams
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        userId path string true "User ID"
// @Success      200 {object} response.APIResponse{data=RemovedMemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /teams/{id}/members/{userId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid team ID")
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	affected, err := h.service.RemoveMember(r.Context(), id, userID, actorID)
	if err != nil {
		response.FromError(w, err, "Failed to remove member")
		return
	}

	response.JSON(w, http.StatusOK, &RemovedMemberResponse{
		UserID:           userID,
		AffectedSplitIDs: affected,
	})
}
