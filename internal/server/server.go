//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/service"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

type Tracker interface {
	TrackShipment(ctx context.Context, rawID, callerKey string) (*service.ShipmentView, error)
}

type QuoteIntake interface {
	SubmitQuote(ctx context.Context, callerKey string, in service.SubmitQuoteInput) (*storage.Quote, error)
}

type Admin interface {
	UpdateShipmentStatus(ctx context.Context, principal *auth.Principal, in service.UpdateStatusInput) (*storage.StatusLogEntry, error)
	CreateShipment(ctx context.Context, principal *auth.Principal, in service.CreateShipmentInput) (*storage.Shipment, error)
	ListShipments(ctx context.Context, principal *auth.Principal, limit, offset int) ([]storage.Shipment, error)
	ListQuotes(ctx context.Context, principal *auth.Principal, statusFilter string, limit, offset int) ([]storage.Quote, error)
	UpdateQuoteStatus(ctx context.Context, principal *auth.Principal, id, rawStatus string) (*storage.Quote, error)
	DeleteQuote(ctx context.Context, principal *auth.Principal, id string) error
}

type Authorizer interface {
	Authorize(ctx context.Context, header string) (*auth.Principal, error)
}

type Server struct {
	tracker      Tracker
	quotes       QuoteIntake
	admin        Admin
	gate         Authorizer
	corsOrigin   string
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(tracker Tracker, quotes QuoteIntake, admin Admin, gate Authorizer, corsOrigin string, logger *zap.Logger) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Server{
		tracker:      tracker,
		quotes:       quotes,
		admin:        admin,
		gate:         gate,
		corsOrigin:   corsOrigin,
		logger:       logger,
		AuditManager: NewAuditManager(2, 5, 500*time.Millisecond, logger),
	}
}

// Run serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("port", port))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.AuditManager.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("http server shutdown completed")

	s.AuditManager.Shutdown(ctx)
	s.logger.Info("server shutdown completed")

	return nil
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Handle("/track", s.corsMiddleware(http.HandlerFunc(s.handleTrack))).
		Methods(http.MethodPost, http.MethodOptions).Name("trackShipment")
	r.Handle("/quotes", s.corsMiddleware(http.HandlerFunc(s.handleSubmitQuote))).
		Methods(http.MethodPost, http.MethodOptions).Name("submitQuote")

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(s.authMiddleware, s.auditLogMiddleware)
	admin.HandleFunc("/shipments/status", s.handleUpdateShipmentStatus).Methods(http.MethodPost).Name("updateShipmentStatus")
	admin.HandleFunc("/shipments", s.handleCreateShipment).Methods(http.MethodPost).Name("createShipment")
	admin.HandleFunc("/shipments", s.handleListShipments).Methods(http.MethodGet).Name("listShipments")
	admin.HandleFunc("/quotes", s.handleListQuotes).Methods(http.MethodGet).Name("listQuotes")
	admin.HandleFunc("/quotes/{id}/status", s.handleUpdateQuoteStatus).Methods(http.MethodPut).Name("updateQuoteStatus")
	admin.HandleFunc("/quotes/{id}", s.handleDeleteQuote).Methods(http.MethodDelete).Name("deleteQuote")

	return r
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.corsOrigin)
		h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.gate.Authorize(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, kindUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrw := newResponseWriterWrapper(w, false)

		next.ServeHTTP(wrw, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.Int("status", wrw.GetStatusCode()),
			zap.Int("bytes", wrw.GetBytes()),
			zap.Duration("duration", time.Since(start)))
	})
}
