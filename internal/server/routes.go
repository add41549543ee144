package server

import (
	"compress/gzip"
	"net/http"

	"github.com/designdesk/designdesk/internal/handler"
	"github.com/designdesk/designdesk/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRoutes(handler *handler.Handler) {
	s.setupMiddleware()

	s.mux.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/login", http.HandlerFunc(handler.Login))
			r.Post("/register", http.HandlerFunc(handler.Register))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth)

				r.Get("/balance", http.HandlerFunc(handler.GetBalance))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", http.HandlerFunc(handler.SubmitRequest))
				r.Get("/", http.HandlerFunc(handler.GetRequests))

				r.Route("/{requestID}/files", func(r chi.Router) {
					r.Post("/", http.HandlerFunc(handler.AttachFiles))
					r.Get("/", http.HandlerFunc(handler.GetRequestFiles))
				})
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Post("/", http.HandlerFunc(handler.CreateInvoice))
				r.Get("/", http.HandlerFunc(handler.GetInvoices))

				r.Route("/{invoiceID}", func(r chi.Router) {
					r.Get("/", http.HandlerFunc(handler.GetInvoice))
					r.Delete("/", http.HandlerFunc(handler.DeleteInvoice))
					r.Post("/send", http.HandlerFunc(handler.SendInvoice))
					r.Post("/cancel", http.HandlerFunc(handler.CancelInvoice))
					r.Post("/items", http.HandlerFunc(handler.AddInvoiceItem))
					r.Delete("/items/{itemID}", http.HandlerFunc(handler.RemoveInvoiceItem))
					r.Post("/pay", http.HandlerFunc(handler.PayInvoice))
					r.Post("/checkout", http.HandlerFunc(handler.CheckoutInvoice))
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/capture", http.HandlerFunc(handler.CapturePayment))
				r.Post("/decline", http.HandlerFunc(handler.DeclinePayment))
				r.Post("/cancel", http.HandlerFunc(handler.CancelPayment))
			})
		})
	})
}

func (s *Server) setupMiddleware() {
	s.mux.Use(
		middleware.Logger,
		chiMiddleware.Compress(gzip.BestCompression, "application/json", "text/html", "text/plain"),
	)
}
