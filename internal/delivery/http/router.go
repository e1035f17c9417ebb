package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

// Controllers bundles the controllers mounted by NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Event        *controllers.EventController
	RSVP         *controllers.RSVPController
	Payment      *controllers.PaymentController
	Notification *controllers.NotificationController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	optAuth := middleware.OptionalAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events", optAuth(c.Event.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", optAuth(c.Event.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))

	// RSVPs
	mux.HandleFunc("POST /events/{eventID}/rsvps", auth(c.RSVP.CreateRSVP))
	mux.HandleFunc("GET /events/{eventID}/guests", auth(c.RSVP.GuestList))
	mux.HandleFunc("PATCH /rsvps/{rsvpID}", auth(c.RSVP.UpdateRSVP))
	mux.HandleFunc("POST /rsvps/{rsvpID}/approve", auth(c.RSVP.ApproveRSVP))
	mux.HandleFunc("POST /rsvps/{rsvpID}/reject", auth(c.RSVP.RejectRSVP))

	// Payments
	mux.HandleFunc("POST /events/{eventID}/payment-link", auth(c.Payment.AddPaymentLink))
	mux.HandleFunc("POST /events/{eventID}/payments/confirm", auth(c.Payment.ConfirmPayment))
	mux.HandleFunc("GET /events/{eventID}/payments", optAuth(c.Payment.EventPaymentStatus))
	mux.HandleFunc("PATCH /payments/{paymentID}/status", auth(c.Payment.UpdatePaymentStatus))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notification.ListNotifications))
	mux.HandleFunc("POST /notifications/mark-read", auth(c.Notification.MarkRead))
	mux.HandleFunc("POST /notifications/mark-all-read", auth(c.Notification.MarkAllRead))
	mux.HandleFunc("GET /notifications/unread-count", auth(c.Notification.UnreadCount))
	mux.HandleFunc("POST /events/{eventID}/broadcast", auth(c.Notification.BroadcastMessage))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
