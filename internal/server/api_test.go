package server_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/ratelimit"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository/memory"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/service"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/tracking"
)

var jwtSecret = []byte("test-secret")

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	store := memory.NewStore()
	users := memory.NewUserRepo()
	require.NoError(t, auth.EnsureAdmin(ctx, users, "admin", "s3cret", logger))

	ledger := storage.NewLedger(store, store.Shipments(), store.StatusLogs(), store.Outbox())
	book := storage.NewQuoteBook(memory.NewQuoteRepo(), status.Permissive)
	limiter := ratelimit.New(100, time.Minute)
	viewCache := cache.NewShipmentCache(time.Minute)

	gate := auth.NewGate(time.Second, logger,
		auth.WithVerifier("Basic", auth.NewBasicVerifier(users)),
		auth.WithVerifier("Bearer", auth.NewJWTVerifier(jwtSecret)),
	)

	srv := server.New(
		service.NewTrackingService(ledger, limiter, viewCache, time.Second, logger),
		service.NewQuoteService(book, limiter, time.Second, logger),
		service.NewAdminService(ledger, book, viewCache, tracking.NewGenerator(tracking.DefaultPrefix), time.Second, logger),
		gate,
		"*",
		logger,
	)
	return srv.Handler()
}

func call(t *testing.T, h http.Handler, method, target, body, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func basic(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwtSecret)
	require.NoError(t, err)
	return "Bearer " + signed
}

func track(t *testing.T, h http.Handler, trackingNumber string) service.ShipmentView {
	t.Helper()
	rr := call(t, h, http.MethodPost, "/track", `{"tracking_number":"`+trackingNumber+`"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var v service.ShipmentView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestAPI_ShipmentLifecycle(t *testing.T) {
	h := newAPI(t)
	adminAuth := basic("admin", "s3cret")

	rr := call(t, h, http.MethodPost, "/admin/shipments", `{
		"sender_name":"Ahmad","sender_address":"Street 1, Kabul",
		"receiver_name":"Farid","receiver_address":"Street 2, Herat",
		"origin":"Kabul","destination":"Herat","weight":2.5,"estimated_delivery":"2025-01-05"}`, adminAuth)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created storage.Shipment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.True(t, tracking.Valid(created.TrackingNumber))

	v := track(t, h, strings.ToLower(created.TrackingNumber))
	assert.Equal(t, created.TrackingNumber, v.TrackingNumber)
	assert.Equal(t, status.Registered, v.CurrentStatus)
	require.NotNil(t, v.EstimatedDelivery)
	assert.Equal(t, "2025-01-05", *v.EstimatedDelivery)
	require.Len(t, v.StatusLogs, 1)

	update := `{"shipment_id":"` + created.ID + `","status":"in_transit","location":"Kandahar"}`

	rr = call(t, h, http.MethodPost, "/admin/shipments/status", update, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = call(t, h, http.MethodPost, "/admin/shipments/status", update, basic("admin", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = call(t, h, http.MethodPost, "/admin/shipments/status", update, bearer(t, "viewer"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Len(t, track(t, h, created.TrackingNumber).StatusLogs, 1)

	rr = call(t, h, http.MethodPost, "/admin/shipments/status", update, adminAuth)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"success":true`)

	v = track(t, h, created.TrackingNumber)
	assert.Equal(t, status.InTransit, v.CurrentStatus)
	require.Len(t, v.StatusLogs, 2)
	assert.Equal(t, "Kandahar", v.StatusLogs[0].Location)

	rr = call(t, h, http.MethodPost, "/admin/shipments/status", `{"shipment_id":"`+created.ID+`","status":"lost"}`, bearer(t, auth.AdminRole))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"kind":"INVALID_STATUS"`)
	assert.Len(t, track(t, h, created.TrackingNumber).StatusLogs, 2)

	rr = call(t, h, http.MethodGet, "/admin/shipments", "", bearer(t, auth.AdminRole))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), created.TrackingNumber)
}

func TestAPI_LookupErrors(t *testing.T) {
	h := newAPI(t)

	rr := call(t, h, http.MethodPost, "/track", `{"tracking_number":"AFG-2099-9999"}`, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Shipment not found","kind":"NOT_FOUND"}`, rr.Body.String())

	rr = call(t, h, http.MethodPost, "/track", `{"tracking_number":"   "}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"kind":"INVALID_INPUT"`)
}

func TestAPI_QuoteLifecycle(t *testing.T) {
	h := newAPI(t)
	adminAuth := bearer(t, auth.AdminRole)

	rr := call(t, h, http.MethodPost, "/quotes", `{"name":"Mina","email":"mina@example.com","phone":"+93 700",
		"service_type":"standard","origin":"Kabul","destination":"Dubai","weight":40}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = call(t, h, http.MethodGet, "/admin/quotes?status=pending", "", adminAuth)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), created.ID)

	rr = call(t, h, http.MethodPut, "/admin/quotes/"+created.ID+"/status", `{"status":"contacted"}`, adminAuth)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = call(t, h, http.MethodDelete, "/admin/quotes/"+created.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(t, h, http.MethodDelete, "/admin/quotes/"+created.ID, "", adminAuth)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = call(t, h, http.MethodDelete, "/admin/quotes/"+created.ID, "", adminAuth)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
