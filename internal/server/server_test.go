package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/auth"
	mock_server "gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/server/mocks"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/service"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
)

var adminPrincipal = &auth.Principal{Subject: "admin", Admin: true}

type testServer struct {
	tracker *mock_server.MockTracker
	quotes  *mock_server.MockQuoteIntake
	admin   *mock_server.MockAdmin
	gate    *mock_server.MockAuthorizer
	server  *Server
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	ts := &testServer{
		tracker: mock_server.NewMockTracker(ctrl),
		quotes:  mock_server.NewMockQuoteIntake(ctrl),
		admin:   mock_server.NewMockAdmin(ctrl),
		gate:    mock_server.NewMockAuthorizer(ctrl),
	}
	ts.server = New(ts.tracker, ts.quotes, ts.admin, ts.gate, "*", zap.NewNop())
	ts.handler = ts.server.Handler()
	return ts
}

func (ts *testServer) do(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleTrack(t *testing.T) {
	eta := "2025-01-05"
	view := &service.ShipmentView{
		TrackingNumber:    "AFG-2024-0001",
		Origin:            "Kabul",
		Destination:       "Herat",
		CurrentStatus:     status.InTransit,
		EstimatedDelivery: &eta,
		StatusLogs: []service.StatusLogView{
			{Status: status.InTransit, Location: "Kandahar", CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
	}

	tests := []struct {
		name           string
		body           string
		setupMocks     func(tracker *mock_server.MockTracker)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "shipment found",
			body: `{"tracking_number":"afg-2024-0001"}`,
			setupMocks: func(tracker *mock_server.MockTracker) {
				tracker.EXPECT().TrackShipment(gomock.Any(), "afg-2024-0001", "192.0.2.1").Return(view, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"tracking_number":"AFG-2024-0001","origin":"Kabul","destination":"Herat",
				"current_status":"in_transit","estimated_delivery":"2025-01-05",
				"shipment_status_logs":[{"status":"in_transit","location":"Kandahar","notes":"","created_at":"2025-01-02T00:00:00Z"}]}`,
		},
		{
			name: "shipment not found",
			body: `{"tracking_number":"AFG-2099-9999"}`,
			setupMocks: func(tracker *mock_server.MockTracker) {
				tracker.EXPECT().TrackShipment(gomock.Any(), "AFG-2099-9999", gomock.Any()).Return(nil, service.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Shipment not found","kind":"NOT_FOUND"}`,
		},
		{
			name: "rate limited",
			body: `{"tracking_number":"AFG-2024-0001"}`,
			setupMocks: func(tracker *mock_server.MockTracker) {
				tracker.EXPECT().TrackShipment(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, service.ErrRateLimitExceeded)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `{"error":"Too many requests, please try again later","kind":"RATE_LIMIT_EXCEEDED"}`,
		},
		{
			name: "malformed body still reaches the limiter",
			body: `{"tracking_number":`,
			setupMocks: func(tracker *mock_server.MockTracker) {
				tracker.EXPECT().TrackShipment(gomock.Any(), "", gomock.Any()).
					Return(nil, fmt.Errorf("%w: tracking_number is required", service.ErrInvalidInput))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid input: tracking_number is required","kind":"INVALID_INPUT"}`,
		},
		{
			name: "store failure hides detail",
			body: `{"tracking_number":"AFG-2024-0001"}`,
			setupMocks: func(tracker *mock_server.MockTracker) {
				tracker.EXPECT().TrackShipment(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: dial tcp 10.1.2.3:5432: connection refused", service.ErrStoreFailure))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Something went wrong, please try again later","kind":"STORE_FAILURE"}`,
		},
		{
			name: "store timeout",
			body: `{"tracking_number":"AFG-2024-0001"}`,
			setupMocks: func(tracker *mock_server.MockTracker) {
				tracker.EXPECT().TrackShipment(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, service.ErrTimeout)
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   `{"error":"The request timed out, please try again","kind":"TIMEOUT"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			tc.setupMocks(ts.tracker)

			rr := ts.do(http.MethodPost, "/track", tc.body, nil)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "authorization, x-client-info, apikey, content-type", rr.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestTrackPreflight(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodOptions, "/track", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestTrackCallerKey(t *testing.T) {
	ts := newTestServer(t)
	ts.tracker.EXPECT().TrackShipment(gomock.Any(), "AFG-2024-0001", "203.0.113.5").Return(nil, service.ErrNotFound)

	rr := ts.do(http.MethodPost, "/track", `{"tracking_number":"AFG-2024-0001"}`,
		map[string]string{"X-Forwarded-For": " 203.0.113.5 , 10.0.0.1"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCallerKey(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{name: "first forwarded hop", forwarded: "198.51.100.7, 10.0.0.1", remoteAddr: "10.0.0.1:5555", want: "198.51.100.7"},
		{name: "peer host", remoteAddr: "192.0.2.10:41000", want: "192.0.2.10"},
		{name: "peer without port", remoteAddr: "192.0.2.10", want: "192.0.2.10"},
		{name: "blank forwarded header", forwarded: " , ", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/track", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			assert.Equal(t, tc.want, callerKey(req))
		})
	}
}

func TestHandleSubmitQuote(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		ts := newTestServer(t)
		ts.quotes.EXPECT().SubmitQuote(gomock.Any(), "192.0.2.1", service.SubmitQuoteInput{
			Name: "Mina", Email: "mina@example.com", ServiceType: "express", Weight: 3,
		}).Return(&storage.Quote{ID: "q1", Status: status.Pending}, nil)

		rr := ts.do(http.MethodPost, "/quotes", `{"name":"Mina","email":"mina@example.com","service_type":"express","weight":3}`, nil)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"message":"Quote request received","id":"q1"}`, rr.Body.String())
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("invalid body", func(t *testing.T) {
		ts := newTestServer(t)
		rr := ts.do(http.MethodPost, "/quotes", `[1,2`, nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid request body","kind":"INVALID_INPUT"}`, rr.Body.String())
	})
}

func TestAdminRequiresAuthorization(t *testing.T) {
	ts := newTestServer(t)
	ts.gate.EXPECT().Authorize(gomock.Any(), "").Return(nil, auth.ErrUnauthorized)

	rr := ts.do(http.MethodPost, "/admin/shipments/status", `{"shipment_id":"ship-1","status":"delivered"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Unauthorized","kind":"UNAUTHORIZED"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
}

func TestHandleUpdateShipmentStatus(t *testing.T) {
	in := service.UpdateStatusInput{ShipmentID: "ship-1", Status: "delivered", Location: "Herat", Notes: "Signed"}
	body := `{"shipment_id":"ship-1","status":"delivered","location":"Herat","notes":"Signed"}`

	tests := []struct {
		name           string
		body           string
		setupMocks     func(admin *mock_server.MockAdmin)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "appended",
			body: body,
			setupMocks: func(admin *mock_server.MockAdmin) {
				admin.EXPECT().UpdateShipmentStatus(gomock.Any(), adminPrincipal, in).Return(&storage.StatusLogEntry{
					ID: "e1", ShipmentID: "ship-1", Status: status.Delivered, Location: "Herat", Notes: "Signed",
					CreatedAt: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"success":true,"entry":{"id":"e1","shipment_id":"ship-1","status":"delivered",
				"location":"Herat","notes":"Signed","created_at":"2025-01-05T10:00:00Z"}}`,
		},
		{
			name:           "invalid body",
			body:           `{"shipment_id":`,
			setupMocks:     func(admin *mock_server.MockAdmin) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid request body","kind":"INVALID_INPUT"}`,
		},
		{
			name: "unknown status",
			body: body,
			setupMocks: func(admin *mock_server.MockAdmin) {
				admin.EXPECT().UpdateShipmentStatus(gomock.Any(), adminPrincipal, in).
					Return(nil, fmt.Errorf("%w: unknown status %q", storage.ErrInvalidStatus, "lost"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid status: unknown status \"lost\"","kind":"INVALID_STATUS"}`,
		},
		{
			name: "unknown shipment",
			body: body,
			setupMocks: func(admin *mock_server.MockAdmin) {
				admin.EXPECT().UpdateShipmentStatus(gomock.Any(), adminPrincipal, in).
					Return(nil, fmt.Errorf("%w: %w", service.ErrNotFound, storage.ErrShipmentNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Shipment not found","kind":"NOT_FOUND"}`,
		},
		{
			name: "illegal transition",
			body: body,
			setupMocks: func(admin *mock_server.MockAdmin) {
				admin.EXPECT().UpdateShipmentStatus(gomock.Any(), adminPrincipal, in).
					Return(nil, fmt.Errorf("%w: delivered is terminal", status.ErrIllegalTransition))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"illegal status transition: delivered is terminal","kind":"ILLEGAL_TRANSITION"}`,
		},
		{
			name: "unexpected error",
			body: body,
			setupMocks: func(admin *mock_server.MockAdmin) {
				admin.EXPECT().UpdateShipmentStatus(gomock.Any(), adminPrincipal, in).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Something went wrong, please try again later","kind":"STORE_FAILURE"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)
			tc.setupMocks(ts.admin)

			rr := ts.do(http.MethodPost, "/admin/shipments/status", tc.body, map[string]string{"Authorization": "Bearer token"})

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestAuditRecordsAdminRequests(t *testing.T) {
	ts := newTestServer(t)
	ts.gate.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(adminPrincipal, nil)
	ts.admin.EXPECT().UpdateShipmentStatus(gomock.Any(), adminPrincipal, gomock.Any()).
		Return(&storage.StatusLogEntry{ID: "e1", Status: status.PickedUp}, nil)

	rr := ts.do(http.MethodPost, "/admin/shipments/status", `{"shipment_id":"ship-1","status":"picked_up"}`,
		map[string]string{"Authorization": "Bearer token"})
	require.Equal(t, http.StatusOK, rr.Code)

	select {
	case entry := <-ts.server.AuditManager.inputChan:
		assert.Equal(t, "updateShipmentStatus", entry.Handler)
		assert.Equal(t, "admin", entry.Subject)
		assert.Equal(t, "ship-1", entry.ShipmentID)
		assert.Equal(t, "picked_up", entry.NewStatus)
		assert.Equal(t, http.StatusOK, entry.StatusCode)
		assert.Contains(t, entry.Response, `"success":true`)
	default:
		t.Fatal("no audit entry recorded")
	}
}

func TestHandleAdminShipments(t *testing.T) {
	header := map[string]string{"Authorization": "Bearer token"}

	t.Run("create", func(t *testing.T) {
		ts := newTestServer(t)
		ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)
		ts.admin.EXPECT().CreateShipment(gomock.Any(), adminPrincipal, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *auth.Principal, in service.CreateShipmentInput) (*storage.Shipment, error) {
				assert.Equal(t, "Kabul", in.Origin)
				assert.Equal(t, 2.5, in.Weight)
				return &storage.Shipment{ID: "ship-1", TrackingNumber: "AFG-2025-1234", CurrentStatus: status.Registered}, nil
			})

		rr := ts.do(http.MethodPost, "/admin/shipments", `{"origin":"Kabul","weight":2.5}`, header)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got storage.Shipment
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "AFG-2025-1234", got.TrackingNumber)
	})

	t.Run("list with paging", func(t *testing.T) {
		ts := newTestServer(t)
		ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)
		ts.admin.EXPECT().ListShipments(gomock.Any(), adminPrincipal, 10, 20).Return([]storage.Shipment{{ID: "ship-1"}}, nil)

		rr := ts.do(http.MethodGet, "/admin/shipments?limit=10&offset=20", "", header)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"id":"ship-1"`)
	})

	t.Run("list with bad limit", func(t *testing.T) {
		ts := newTestServer(t)
		ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)

		rr := ts.do(http.MethodGet, "/admin/shipments?limit=ten", "", header)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid value for 'limit' or 'offset' parameter","kind":"INVALID_INPUT"}`, rr.Body.String())
	})
}

func TestHandleAdminQuotes(t *testing.T) {
	header := map[string]string{"Authorization": "Bearer token"}

	t.Run("list by status", func(t *testing.T) {
		ts := newTestServer(t)
		ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)
		ts.admin.EXPECT().ListQuotes(gomock.Any(), adminPrincipal, "pending", 0, 0).Return([]storage.Quote{}, nil)

		rr := ts.do(http.MethodGet, "/admin/quotes?status=pending", "", header)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("update status", func(t *testing.T) {
		ts := newTestServer(t)
		ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)
		ts.admin.EXPECT().UpdateQuoteStatus(gomock.Any(), adminPrincipal, "q1", "contacted").
			Return(&storage.Quote{ID: "q1", Status: status.Contacted}, nil)

		rr := ts.do(http.MethodPut, "/admin/quotes/q1/status", `{"status":"contacted"}`, header)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"contacted"`)
	})

	t.Run("update raced", func(t *testing.T) {
		ts := newTestServer(t)
		ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)
		ts.admin.EXPECT().UpdateQuoteStatus(gomock.Any(), adminPrincipal, "q1", "completed").Return(nil, storage.ErrConcurrentUpdate)

		rr := ts.do(http.MethodPut, "/admin/quotes/q1/status", `{"status":"completed"}`, header)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), `"kind":"CONFLICT"`)
	})

	t.Run("delete missing", func(t *testing.T) {
		ts := newTestServer(t)
		ts.gate.EXPECT().Authorize(gomock.Any(), "Bearer token").Return(adminPrincipal, nil)
		ts.admin.EXPECT().DeleteQuote(gomock.Any(), adminPrincipal, "q404").
			Return(fmt.Errorf("%w: %w", service.ErrNotFound, storage.ErrQuoteNotFound))

		rr := ts.do(http.MethodDelete, "/admin/quotes/q404", "", header)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Quote not found","kind":"NOT_FOUND"}`, rr.Body.String())
	})
}

func TestHandleDeleteQuote(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name           string
		quoteID        string
		setupMocks     func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "deleted",
			quoteID: "q1",
			setupMocks: func() {
				ts.admin.EXPECT().DeleteQuote(gomock.Any(), adminPrincipal, "q1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Quote deleted"}`,
		},
		{
			name:           "missing id",
			quoteID:        "",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing quote ID","kind":"INVALID_INPUT"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			req := httptest.NewRequest(http.MethodDelete, "/admin/quotes/"+tc.quoteID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tc.quoteID})
			req = req.WithContext(auth.WithPrincipal(req.Context(), adminPrincipal))
			rr := httptest.NewRecorder()

			ts.server.handleDeleteQuote(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = ts.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, bytes.Contains(rr.Body.Bytes(), []byte("go_goroutines")))
}
