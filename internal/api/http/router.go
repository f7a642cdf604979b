package http

import (
	"net/http"

	"renthub-backend/internal/security"
	"renthub-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the router exposes.
type Services struct {
	Rentals       service.RentalService
	Handovers     service.HandoverService
	Disputes      service.DisputeService
	Deposits      service.DepositService
	Wallet        service.WalletService
	Payments      service.PaymentService
	Notifications service.NotificationService
}

// NewRouter wires all routes under /api/v1. User routes sit behind JWT
// auth, moderation and custody routes additionally behind a role, and
// the gateway webhook behind an API key.
func NewRouter(svcs Services, mw *Middleware) *mux.Router {
	root := mux.NewRouter()
	root.Use(LogRequests)

	api := root.PathPrefix("/api/v1").Subrouter()

	rentals := NewRentalHandler(svcs.Rentals, svcs.Handovers)
	disputes := NewDisputeHandler(svcs.Disputes)
	deposits := NewDepositHandler(svcs.Deposits)
	wallet := NewWalletHandler(svcs.Wallet)
	payments := NewPaymentHandler(svcs.Payments)
	notifications := NewNotificationHandler(svcs.Notifications)

	// Authenticated user routes
	user := api.NewRoute().Subrouter()
	user.Use(mw.Authenticate)
	user.HandleFunc("/rentals", rentals.CreateRental).Methods(http.MethodPost)
	user.HandleFunc("/rentals", rentals.ListRentals).Methods(http.MethodGet)
	user.HandleFunc("/rentals/{id}", rentals.GetRental).Methods(http.MethodGet)
	user.HandleFunc("/rentals/{id}/timeline", rentals.GetTimeline).Methods(http.MethodGet)
	user.HandleFunc("/rentals/{id}/handover/renter-confirmation", rentals.ConfirmHandoverByRenter).Methods(http.MethodPost)
	user.HandleFunc("/rentals/{id}/handover/owner-confirmation", rentals.ConfirmHandoverByOwner).Methods(http.MethodPost)
	user.HandleFunc("/rentals/{id}/disputes", disputes.RaiseDispute).Methods(http.MethodPost)
	user.HandleFunc("/wallet/balance", wallet.GetBalance).Methods(http.MethodGet)
	user.HandleFunc("/wallet/transactions", wallet.GetTransactions).Methods(http.MethodGet)
	user.HandleFunc("/notifications", notifications.GetNotifications).Methods(http.MethodGet)
	user.HandleFunc("/notifications/{id}/read", notifications.MarkAsRead).Methods(http.MethodPost)

	// Moderator routes
	moderator := api.NewRoute().Subrouter()
	moderator.Use(mw.Authenticate, mw.RequireRole(security.RoleModerator))
	moderator.HandleFunc("/rentals/{id}/disputes/resolution", disputes.ResolveDispute).Methods(http.MethodPost)
	moderator.HandleFunc("/rentals/{id}/disputes", disputes.GetDispute).Methods(http.MethodGet)

	// Admin deposit custody routes
	admin := api.NewRoute().Subrouter()
	admin.Use(mw.Authenticate, mw.RequireRole(security.RoleAdmin))
	admin.HandleFunc("/deposits/{id}", deposits.GetDeposit).Methods(http.MethodGet)
	admin.HandleFunc("/deposits/{id}/hold", deposits.HoldDeposit).Methods(http.MethodPost)
	admin.HandleFunc("/deposits/{id}/release", deposits.ReleaseDeposit).Methods(http.MethodPost)
	admin.HandleFunc("/deposits/{id}/partial-release", deposits.ReleasePartialDeposit).Methods(http.MethodPost)

	// Payment gateway webhook
	gateway := api.NewRoute().Subrouter()
	gateway.Use(mw.RequireAPIKey)
	gateway.HandleFunc("/payments/capture-events", payments.HandleCaptureEvent).Methods(http.MethodPost)

	return root
}
