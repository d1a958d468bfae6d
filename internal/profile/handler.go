package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/logofolio/service/internal/middleware"
	"github.com/logofolio/service/internal/response"
)

// service is the account behavior the handlers need; *Service satisfies it.
type service interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, displayName *string) (*Profile, error)
	IsNotFound(err error) bool
}

var _ service = (*Service)(nil)

// Handler holds HTTP handlers for operator account endpoints.
type Handler struct {
	svc service
}

// NewHandler creates a new profile Handler.
func NewHandler(svc service) *Handler {
	return &Handler{svc: svc}
}

// GetMe godoc
//
//	@Summary		Get current profile
//	@Description	Returns the profile of the currently authenticated operator.
//	@Tags			profiles
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=Profile}
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/profiles/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	p, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

type updateMeRequest struct {
	DisplayName *string `json:"displayName"`
}

// UpdateMe godoc
//
//	@Summary		Update current profile
//	@Description	Updates the display name of the currently authenticated operator.
//	@Tags			profiles
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		updateMeRequest	true	"Fields to update"
//	@Success		200		{object}	response.Envelope{data=Profile}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/profiles/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		response.BadRequest(w, "displayName must not be blank")
		return
	}

	p, err := h.svc.Update(r.Context(), userID, req.DisplayName)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}
