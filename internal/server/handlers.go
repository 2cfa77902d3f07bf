package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/service"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

const maxBodyBytes = 1 << 20

const (
	kindInvalidInput      = "INVALID_INPUT"
	kindInvalidStatus     = "INVALID_STATUS"
	kindNotFound          = "NOT_FOUND"
	kindUnauthorized      = "UNAUTHORIZED"
	kindRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	kindIllegalTransition = "ILLEGAL_TRANSITION"
	kindConflict          = "CONFLICT"
	kindStoreFailure      = "STORE_FAILURE"
	kindTimeout           = "TIMEOUT"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Error("failed to encode response", zap.Error(err))
		}
	}
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, errorResponse{Error: message, Kind: kind})
}

// respondServiceError maps service errors to status codes. Store failures
// get a generic message; the detail is only logged.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, kindUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrRateLimitExceeded):
		respondError(w, http.StatusTooManyRequests, kindRateLimitExceeded, "Too many requests, please try again later")
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, kindInvalidInput, err.Error())
	case errors.Is(err, storage.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, kindInvalidStatus, err.Error())
	case errors.Is(err, storage.ErrQuoteNotFound):
		respondError(w, http.StatusNotFound, kindNotFound, "Quote not found")
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, kindNotFound, "Shipment not found")
	case errors.Is(err, status.ErrIllegalTransition):
		respondError(w, http.StatusConflict, kindIllegalTransition, err.Error())
	case errors.Is(err, storage.ErrConcurrentUpdate):
		respondError(w, http.StatusConflict, kindConflict, "The record was changed by another request, reload and retry")
	case errors.Is(err, service.ErrTimeout):
		respondError(w, http.StatusGatewayTimeout, kindTimeout, "The request timed out, please try again")
	default:
		if !errors.Is(err, service.ErrStoreFailure) {
			s.logger.Error("unclassified error", zap.String("path", r.URL.Path), zap.Error(err))
		}
		respondError(w, http.StatusInternalServerError, kindStoreFailure, "Something went wrong, please try again later")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// callerKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop if present, else the peer address.
func callerKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func pageParams(r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &limit}, {"offset", &offset}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, false
		}
		*p.dst = v
	}
	return limit, offset, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var trackRequest struct {
		TrackingNumber string `json:"tracking_number"`
	}

	// A malformed body still goes through TrackShipment so it is counted
	// against the caller before being rejected as invalid input.
	_ = decodeJSON(w, r, &trackRequest)

	view, err := s.tracker.TrackShipment(r.Context(), trackRequest.TrackingNumber, callerKey(r))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleSubmitQuote(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitQuoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Invalid request body")
		return
	}

	q, err := s.quotes.SubmitQuote(r.Context(), callerKey(r), in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Quote request received",
		"id":      q.ID,
	})
}

func (s *Server) handleUpdateShipmentStatus(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Invalid request body")
		return
	}

	entry, err := s.admin.UpdateShipmentStatus(r.Context(), auth.PrincipalFrom(r.Context()), in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	var in service.CreateShipmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Invalid request body")
		return
	}

	shipment, err := s.admin.CreateShipment(r.Context(), auth.PrincipalFrom(r.Context()), in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, shipment)
}

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(r)
	if !ok {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Invalid value for 'limit' or 'offset' parameter")
		return
	}

	shipments, err := s.admin.ListShipments(r.Context(), auth.PrincipalFrom(r.Context()), limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, shipments)
}

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(r)
	if !ok {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Invalid value for 'limit' or 'offset' parameter")
		return
	}

	quotes, err := s.admin.ListQuotes(r.Context(), auth.PrincipalFrom(r.Context()), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

func (s *Server) handleUpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	quoteID := mux.Vars(r)["id"]
	if quoteID == "" {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Missing quote ID")
		return
	}

	var statusRequest struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &statusRequest); err != nil {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Invalid request body")
		return
	}

	q, err := s.admin.UpdateQuoteStatus(r.Context(), auth.PrincipalFrom(r.Context()), quoteID, statusRequest.Status)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, q)
}

func (s *Server) handleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	quoteID := mux.Vars(r)["id"]
	if quoteID == "" {
		respondError(w, http.StatusBadRequest, kindInvalidInput, "Missing quote ID")
		return
	}

	if err := s.admin.DeleteQuote(r.Context(), auth.PrincipalFrom(r.Context()), quoteID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Quote deleted",
	})
}
