package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

// AddPaymentLinkRequest is the request body for POST /events/{eventID}/payment-link.
type AddPaymentLinkRequest struct {
	PaymentLink string   `json:"payment_link"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
}

// Validate implements Validator.
func (a AddPaymentLinkRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.PaymentLink) == "" {
		errs = append(errs, "payment_link is required")
	}
	if a.Amount != nil && *a.Amount < 0 {
		errs = append(errs, "amount must be non-negative")
	}
	return errs
}

// ConfirmPaymentRequest is the request body for POST /events/{eventID}/payments/confirm.
type ConfirmPaymentRequest struct {
	Notes *string `json:"notes"`
}

// UpdatePaymentStatusRequest is the request body for PATCH /payments/{paymentID}/status.
type UpdatePaymentStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// Validate implements Validator.
func (u UpdatePaymentStatusRequest) Validate() []string {
	var errs []string
	if u.Status == "" {
		errs = append(errs, "status is required")
	} else if !domain.ValidPaymentStatus(u.Status) {
		errs = append(errs, "status must be PENDING, PAID, FAILED, or REFUNDED")
	}
	return errs
}

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// AddPaymentLink godoc
// @Summary Attach a payment link to an event
// @Description Stores the host's external payment link (Venmo, PayPal, etc.) with optional amount and description. Only the host can attach. One link record per event.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AddPaymentLinkRequest true "Payment link data"
// @Success 201 {object} helpers.APIResponse "data contains the link record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (link already exists)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/payment-link [post]
func (c *PaymentController) AddPaymentLink(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req AddPaymentLinkRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	payment, err := c.Service.AddPaymentLink(r.Context(), eventID, hostID, strings.TrimSpace(req.PaymentLink), req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "payment link already exists for this event")
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
	h.WriteJSONSuccess(w, http.StatusCreated, payment)
}

// ConfirmPayment godoc
// @Summary Confirm a payment manually
// @Description Records that the authenticated guest paid through the event's external payment link. Fails with 412 if the host never attached a link, and with 409 if the guest already confirmed.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body ConfirmPaymentRequest true "Optional confirmation notes"
// @Success 200 {object} helpers.APIResponse "data contains the PAID payment record"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already confirmed)"
// @Failure 412 {object} helpers.APIResponse "error.code: precondition_failed (no payment link)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/payments/confirm [post]
func (c *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req ConfirmPaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	payment, err := c.Service.ConfirmPayment(r.Context(), eventID, userID, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrNoPaymentLink) {
			h.WriteJSONError(w, http.StatusPreconditionFailed, h.ErrCodePreconditionFailed, "no payment link for this event")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "payment already confirmed")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, payment)
}

// UpdatePaymentStatus godoc
// @Summary Override a payment's status
// @Description Lets the event host move a payment to any status (e.g. mark FAILED or REFUNDED) with optional notes.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paymentID path string true "Payment ID (UUID)"
// @Param body body UpdatePaymentStatusRequest true "New status and optional notes"
// @Success 200 {object} helpers.APIResponse "data contains the updated payment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/{paymentID}/status [patch]
func (c *PaymentController) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("paymentID")
	if paymentID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing paymentID")
		return
	}
	var req UpdatePaymentStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	payment, err := c.Service.UpdateStatus(r.Context(), paymentID, hostID, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "payment not found")
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
	h.WriteJSONSuccess(w, http.StatusOK, payment)
}

// EventPaymentStatus godoc
// @Summary Get the payment summary of an event
// @Description Returns the payment link, amount, confirmed and pending counts, and whether the caller has paid. Visible to the host, to participants, or to anyone when the event is PUBLIC.
// @Tags payments
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the payment summary"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/payments [get]
func (c *PaymentController) EventPaymentStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	summary, err := c.Service.EventPaymentStatus(r.Context(), eventID, userID)
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
	h.WriteJSONSuccess(w, http.StatusOK, summary)
}
