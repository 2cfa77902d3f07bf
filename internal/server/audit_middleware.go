package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/auth"
)

// auditLogMiddleware runs inside the gate, so the principal is already on
// the request context.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-Type")
		skipRequestBody := strings.Contains(contentType, "multipart/form-data")
		entry := AuditLogEntry{
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   handlerName(r),
			QuoteID:   mux.Vars(r)["id"],
		}

		if p := auth.PrincipalFrom(r.Context()); p != nil {
			entry.Subject = p.Subject
		}

		if !skipRequestBody && r.Body != nil {
			requestBody, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)

			if strings.HasSuffix(r.URL.Path, "/status") {
				var statusRequest struct {
					ShipmentID string `json:"shipment_id"`
					Status     string `json:"status"`
				}
				if err := json.Unmarshal(requestBody, &statusRequest); err == nil {
					entry.ShipmentID = statusRequest.ShipmentID
					entry.NewStatus = statusRequest.Status
				}
			}
		}

		wrw := newResponseWriterWrapper(w, true)

		next.ServeHTTP(wrw, r)

		entry.StatusCode = wrw.GetStatusCode()
		entry.Response = string(wrw.GetBody())

		s.AuditManager.LogEntry(entry)
	})
}

func handlerName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if name := route.GetName(); name != "" {
			return name
		}
	}
	return "unknown"
}
