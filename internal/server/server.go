package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/designdesk/designdesk/internal/billing"
	"github.com/designdesk/designdesk/internal/config"
	"github.com/designdesk/designdesk/internal/handler"
	"github.com/designdesk/designdesk/internal/intake"
	"github.com/designdesk/designdesk/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	config  config.Config
	mux     chi.Router
	server  *http.Server
	storage storage.Storage
	intake  *intake.Service
	billing *billing.Service
}

func NewServer(config config.Config, storage storage.Storage, intake *intake.Service, billing *billing.Service) *Server {
	mux := chi.NewMux()

	return &Server{
		config:  config,
		mux:     mux,
		storage: storage,
		intake:  intake,
		billing: billing,
		server: &http.Server{
			Addr:              config.Address,
			Handler:           mux,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       15 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	s.setupRoutes(handler.NewHandler(s.storage, s.intake, s.billing))

	zap.L().Info("starting server", zap.String("address", s.config.Address))

	if err := s.server.ListenAndServe(); err != nil {
		return fmt.Errorf("error starting server: %w", err)
	}

	return nil
}

func (s *Server) Stop() error {
	zap.L().Info("stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error stopping server: %w", err)
	}

	return nil
}
