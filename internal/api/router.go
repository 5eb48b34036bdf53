// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"splitledger/internal/api/handler"
	apimiddleware "splitledger/internal/api/middleware"
	"splitledger/internal/auth"
)

// Handlers bundles the endpoint handlers the router wires up.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Group   *handler.GroupHandler
	Expense *handler.ExpenseHandler
	Payment *handler.PaymentHandler
	Balance *handler.BalanceHandler
}

// NewRouter sets up and returns a new HTTP router. Everything except the
// health check and the auth endpoints requires a valid bearer token.
func NewRouter(h Handlers, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(apimiddleware.RequireAuth(jwtManager))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.User.List)
			r.Get("/{userID}", h.User.Get)
			r.Put("/{userID}", h.User.Update)
			r.Delete("/{userID}", h.User.Delete)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.Group.List)
			r.Post("/", h.Group.Create)
			r.Get("/{groupID}", h.Group.Get)
			r.Put("/{groupID}", h.Group.Update)
			r.Delete("/{groupID}", h.Group.Delete)
			r.Post("/{groupID}/members", h.Group.AddMember)
			r.Delete("/{groupID}/members/{userID}", h.Group.RemoveMember)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.Expense.ListByGroup)
			r.Post("/", h.Expense.Create)
			r.Get("/user/{userID}/group/{groupID}", h.Expense.ListByUserAndGroup)
			r.Get("/{expenseID}", h.Expense.Get)
			r.Put("/{expenseID}", h.Expense.Update)
			r.Delete("/{expenseID}", h.Expense.Delete)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.Payment.ListByGroup)
			r.Post("/", h.Payment.Create)
			r.Get("/between/{user1ID}/{user2ID}", h.Payment.ListBetweenUsers)
			r.Get("/user/{userID}", h.Payment.ListByUser)
			r.Get("/{paymentID}", h.Payment.Get)
			r.Put("/{paymentID}", h.Payment.Update)
			r.Delete("/{paymentID}", h.Payment.Delete)
		})

		r.Route("/balances", func(r chi.Router) {
			r.Get("/group/{groupID}", h.Balance.GroupSummary)
			r.Get("/user/{userID}/group/{groupID}", h.Balance.UserBalance)
			r.Get("/user/{userID}", h.Balance.UserBalances)
			r.Get("/debtors/{groupID}", h.Balance.Debtors)
			r.Get("/creditors/{groupID}", h.Balance.Creditors)
			r.Post("/recalculate/{groupID}", h.Balance.Recalculate)
			r.Get("/settlements/{groupID}", h.Balance.Settlements)
		})
	})

	return r
}
