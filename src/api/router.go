package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"
	"fintrack-server/src/service"
)

type Deps struct {
	Transactions   *service.TransactionService
	Auth           *service.AuthService
	JWTSecret      []byte
	AllowedOrigins []string
}

func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", handlers.Register(deps.Auth))
		r.Post("/login", handlers.Login(deps.Auth))
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handlers.Register(deps.Auth))
			r.Post("/login", handlers.Login(deps.Auth))
		})

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(deps.JWTSecret)).Group(func(r chi.Router) {
			r.Post("/transactions", handlers.CreateTransaction(deps.Transactions))
			r.Get("/transactions", handlers.GetTransactions(deps.Transactions))
			r.Get("/transactions/summary", handlers.GetTransactionSummary(deps.Transactions))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(deps.Transactions))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(deps.Transactions))
		})
	})

	return r
}
