package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwripp/booking-backend/internal/app"
)

func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	container, err := app.NewContainer(app.Config{
		OpsJWTSecret:   "test-secret",
		OpsTokenTTL:    time.Hour,
		HoldTTLDefault: 15 * time.Minute,
		HoldTTLMax:     time.Hour,
		StoragePath:    t.TempDir(),
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	require.NoError(t, err)
	return container
}

func opsToken(t *testing.T, container *app.Container) string {
	t.Helper()
	token, err := container.JWTManager.GenerateOpsToken("ops@tripwripp.com")
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createTestTrip(t *testing.T, container *app.Container, token string, slots int) string {
	t.Helper()
	start := time.Now().UTC().Add(30 * 24 * time.Hour)
	w := doJSON(t, container.Router, http.MethodPost, "/v1/trips", token, gin.H{
		"name":             "Kyoto Autumn Walk",
		"country":          "Japan",
		"region":           "Asia",
		"description":      "A week of temples and maple leaves.",
		"start_date":       start.Format(time.RFC3339),
		"end_date":         start.Add(7 * 24 * time.Hour).Format(time.RFC3339),
		"total_slots":      slots,
		"price_per_person": 1800,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var trip struct {
		ID string `json:"id"`
	}
	decode(t, w, &trip)
	require.NotEmpty(t, trip.ID)
	return trip.ID
}

func holdBody(tripID string, partySize int) gin.H {
	return gin.H{
		"trip_id":    tripID,
		"party_size": partySize,
		"holder": gin.H{
			"name":  "Mina",
			"email": "mina@example.com",
		},
	}
}

func TestTripAdminRequiresToken(t *testing.T) {
	container := newTestContainer(t)

	w := doJSON(t, container.Router, http.MethodPost, "/v1/trips", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, container.Router, http.MethodPost, "/v1/trips", "not-a-token", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingFlow(t *testing.T) {
	container := newTestContainer(t)
	token := opsToken(t, container)
	tripID := createTestTrip(t, container, token, 5)

	// Trip is publicly visible.
	w := doJSON(t, container.Router, http.MethodGet, "/v1/trips/"+tripID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Full availability before any holds.
	w = doJSON(t, container.Router, http.MethodGet, "/v1/trips/"+tripID+"/availability", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var avail struct {
		TotalSlots     int `json:"total_slots"`
		AvailableSlots int `json:"available_slots"`
	}
	decode(t, w, &avail)
	assert.Equal(t, 5, avail.TotalSlots)
	assert.Equal(t, 5, avail.AvailableSlots)

	// Hold three slots.
	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "", holdBody(tripID, 3))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		ID        string     `json:"id"`
		Status    string     `json:"status"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	decode(t, w, &res)
	assert.Equal(t, "held", res.Status)
	require.NotNil(t, res.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), *res.ExpiresAt, time.Minute)

	w = doJSON(t, container.Router, http.MethodGet, "/v1/trips/"+tripID+"/availability", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &avail)
	assert.Equal(t, 2, avail.AvailableSlots)

	// Confirm the hold; the deadline disappears from the payload.
	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations/"+res.ID+"/confirm", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res.ExpiresAt = nil
	decode(t, w, &res)
	assert.Equal(t, "confirmed", res.Status)
	assert.Nil(t, res.ExpiresAt)

	// Confirming again is rejected.
	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations/"+res.ID+"/confirm", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Cancelling a confirmed reservation frees its slots.
	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations/"+res.ID+"/cancel", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, container.Router, http.MethodGet, "/v1/trips/"+tripID+"/availability", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &avail)
	assert.Equal(t, 5, avail.AvailableSlots)
}

func TestHoldRejectedWhenFull(t *testing.T) {
	container := newTestContainer(t)
	token := opsToken(t, container)
	tripID := createTestTrip(t, container, token, 2)

	w := doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "", holdBody(tripID, 2))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "", holdBody(tripID, 1))
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestHoldValidation(t *testing.T) {
	container := newTestContainer(t)
	token := opsToken(t, container)
	tripID := createTestTrip(t, container, token, 2)

	// Unknown trip.
	w := doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "",
		holdBody("00000000-0000-0000-0000-000000000000", 1))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Party size below one fails binding.
	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "", holdBody(tripID, 0))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Hold durations above the cap are clamped, not rejected.
	body := holdBody(tripID, 1)
	body["hold_duration_seconds"] = int((2 * time.Hour).Seconds())
	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		ExpiresAt *time.Time `json:"expires_at"`
	}
	decode(t, w, &res)
	require.NotNil(t, res.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), *res.ExpiresAt, time.Minute)
}

func TestCancelledTripNotBookable(t *testing.T) {
	container := newTestContainer(t)
	token := opsToken(t, container)
	tripID := createTestTrip(t, container, token, 4)

	w := doJSON(t, container.Router, http.MethodPatch, "/v1/trips/"+tripID+"/status", token,
		gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "", holdBody(tripID, 1))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReservationListIsOpsOnly(t *testing.T) {
	container := newTestContainer(t)
	token := opsToken(t, container)
	tripID := createTestTrip(t, container, token, 4)

	w := doJSON(t, container.Router, http.MethodPost, "/v1/reservations", "", holdBody(tripID, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, container.Router, http.MethodGet, "/v1/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, container.Router, http.MethodGet, fmt.Sprintf("/v1/reservations?trip_id=%s", tripID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Total int `json:"total"`
	}
	decode(t, w, &page)
	assert.Equal(t, 1, page.Total)
}
