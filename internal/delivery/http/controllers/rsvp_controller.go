package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

// CreateRSVPRequest is the request body for POST /events/{eventID}/rsvps.
type CreateRSVPRequest struct {
	Status   string `json:"status"`
	PlusOnes int    `json:"plus_ones"`
}

// Validate implements Validator.
func (c CreateRSVPRequest) Validate() []string {
	var errs []string
	if c.Status == "" {
		errs = append(errs, "status is required")
	} else if !domain.ValidRSVPStatus(c.Status) {
		errs = append(errs, "status must be YES, NO, or MAYBE")
	}
	if c.PlusOnes < 0 {
		errs = append(errs, "plus_ones must be non-negative")
	}
	return errs
}

// UpdateRSVPRequest is the request body for PATCH /rsvps/{rsvpID}. All fields optional; omitted fields are unchanged.
type UpdateRSVPRequest struct {
	Status   *string `json:"status"`
	PlusOnes *int    `json:"plus_ones"`
}

// Validate implements Validator.
func (u UpdateRSVPRequest) Validate() []string {
	var errs []string
	if u.Status != nil && !domain.ValidRSVPStatus(*u.Status) {
		errs = append(errs, "status must be YES, NO, or MAYBE")
	}
	if u.PlusOnes != nil && *u.PlusOnes < 0 {
		errs = append(errs, "plus_ones must be non-negative")
	}
	return errs
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateRSVP godoc
// @Summary RSVP to an event
// @Description Create an RSVP for the authenticated user. RSVPs to PRIVATE events await host approval; all others are approved immediately. One RSVP per user per event.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CreateRSVPRequest true "RSVP data"
// @Success 201 {object} helpers.APIResponse "data contains the created RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already RSVP'd)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RSVPController) CreateRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateRSVPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.CreateRSVP(r.Context(), eventID, userID, req.Status, req.PlusOnes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "you have already RSVP'd to this event")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// UpdateRSVP godoc
// @Summary Update an RSVP
// @Description Update the status and/or plus-ones of the caller's own RSVP. Optional fields omitted from body are unchanged.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Param body body UpdateRSVPRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not your RSVP)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID} [patch]
func (c *RSVPController) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	rsvpID := r.PathValue("rsvpID")
	if rsvpID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing rsvpID")
		return
	}
	var req UpdateRSVPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.UpdateRSVP(r.Context(), rsvpID, userID, req.Status, req.PlusOnes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "rsvp not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// ApproveRSVP godoc
// @Summary Approve a pending RSVP
// @Description Approve an RSVP to is_approved true. Only the event host can approve. Re-approving an approved RSVP is a no-op.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the updated RSVP"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID}/approve [post]
func (c *RSVPController) ApproveRSVP(w http.ResponseWriter, r *http.Request) {
	c.setApproval(w, r, true)
}

// RejectRSVP godoc
// @Summary Reject an RSVP
// @Description Set an RSVP to is_approved false. Only the event host can reject.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the updated RSVP"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID}/reject [post]
func (c *RSVPController) RejectRSVP(w http.ResponseWriter, r *http.Request) {
	c.setApproval(w, r, false)
}

func (c *RSVPController) setApproval(w http.ResponseWriter, r *http.Request, approve bool) {
	rsvpID := r.PathValue("rsvpID")
	if rsvpID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing rsvpID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var rsvp *domain.RSVP
	var err error
	if approve {
		rsvp, err = c.Service.ApproveRSVP(r.Context(), rsvpID, userID)
	} else {
		rsvp, err = c.Service.RejectRSVP(r.Context(), rsvpID, userID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "rsvp not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// GuestList godoc
// @Summary List the guests of an event
// @Description Returns RSVPs for the event. The host sees all RSVPs including pending ones; other callers see approved RSVPs. For PRIVATE events only approved guests may view the list.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is an array of RSVPs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests [get]
func (c *RSVPController) GuestList(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvps, err := c.Service.GuestList(r.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if rsvps == nil {
		rsvps = []*domain.RSVP{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, rsvps)
}
