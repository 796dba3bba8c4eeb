package api

import (
	"context"
	"fmt"
	"net/http"

	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Users    domain.UserService
	Items    domain.ItemService
	Bookings domain.BookingService
	Requests domain.RequestService
}

type HTTPServer struct {
	cfg           config.APIConfig
	svc           Services
	store         domain.Store
	userLimiter   domain.RateLimiter
	clientLimiter *rateLimiter
	logger        zerolog.Logger
	server        *http.Server
}

// NewHTTPServer wires routes and middleware. userLimiter may be nil.
func NewHTTPServer(
	cfg config.APIConfig,
	svc Services,
	store domain.Store,
	userLimiter domain.RateLimiter,
	logger *zerolog.Logger,
) *HTTPServer {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "http").Logger()
	}

	s := &HTTPServer{
		cfg:           cfg,
		svc:           svc,
		store:         store,
		userLimiter:   userLimiter,
		clientLimiter: newRateLimiter(cfg.RateLimit),
		logger:        base,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           s.observe(mux),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
	return s
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)

	mux.HandleFunc("POST /items", s.withUser(s.handleCreateItem))
	mux.HandleFunc("GET /items", s.withUser(s.handleListOwnerItems))
	mux.HandleFunc("GET /items/search", s.withUser(s.handleSearchItems))
	mux.HandleFunc("GET /items/search/listings", s.withUser(s.handleSearchListings))
	mux.HandleFunc("GET /items/{itemId}", s.withUser(s.handleGetItem))
	mux.HandleFunc("PATCH /items/{itemId}", s.withUser(s.handleUpdateItem))
	mux.HandleFunc("POST /items/{itemId}/comment", s.withUser(s.handleCreateComment))

	mux.HandleFunc("POST /bookings", s.withUser(s.handleCreateBooking))
	mux.HandleFunc("GET /bookings", s.withUser(s.handleListBookerBookings))
	mux.HandleFunc("GET /bookings/owner", s.withUser(s.handleListOwnerBookings))
	mux.HandleFunc("GET /bookings/owner/export", s.withUser(s.handleExportOwnerBookings))
	mux.HandleFunc("GET /bookings/{bookingId}", s.withUser(s.handleGetBooking))
	mux.HandleFunc("PATCH /bookings/{bookingId}", s.withUser(s.handleApproveBooking))

	mux.HandleFunc("POST /requests", s.withUser(s.handleCreateRequest))
	mux.HandleFunc("GET /requests", s.withUser(s.handleListOwnRequests))
	mux.HandleFunc("GET /requests/all", s.withUser(s.handleListOtherRequests))
	mux.HandleFunc("GET /requests/{requestId}", s.withUser(s.handleGetRequest))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
}

// Handler exposes the full middleware chain, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store not configured")
		return
	}
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("readiness check failed")
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
