// Package devserver is an in-memory stand-in for the remote persistence API
// the dashboard synchronizes against. It speaks the same wire contract
// (bearer-token auth, JSON bodies, {message} error payloads) so the client
// core can be developed and end-to-end tested without a real backend.
//
// Transactions are append-only here too: the ledger routes expose no update
// or delete.
package devserver

import (
	"crypto/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server carries the router, the in-memory store and the signing secret.
type Server struct {
	store  *Store
	secret []byte
	log    *logrus.Logger
	router chi.Router
}

// New builds a Server with a fresh store and a per-process random signing
// secret; restarting invalidates all tokens along with all data.
func New(log *logrus.Logger) *Server {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.WithError(err).Fatal("devserver: cannot seed signing secret")
	}
	s := &Server{store: NewStore(), secret: secret, log: log}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/products", s.handleListProducts)
			r.Post("/products", s.handleCreateProduct)
			r.Put("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)

			r.Get("/customers", s.handleListCustomers)
			r.Post("/customers", s.handleCreateCustomer)
			r.Put("/customers/{id}", s.handleUpdateCustomer)
			r.Delete("/customers/{id}", s.handleDeleteCustomer)

			r.Get("/transactions", s.handleListTransactions)
			r.Post("/transactions", s.handleCreateTransaction)
			// The ledger is append-only; say so instead of 404ing.
			r.Put("/transactions/{id}", s.handleLedgerImmutable)
			r.Delete("/transactions/{id}", s.handleLedgerImmutable)
		})
	})
	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Store exposes the backing store for seeding.
func (s *Server) Store() *Store { return s.store }
