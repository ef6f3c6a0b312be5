package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		BaseURL:           server.URL,
		AuthToken:         "test-token",
		VersionConstraint: ">= 1.0.0, < 2.0.0",
		Timeout:           2 * time.Second,
		Logger:            zerolog.Nop(),
	})
	require.NoError(t, err)
	return client, server
}

func TestClientTodaySummary(t *testing.T) {
	var gotAuth, gotRequestID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		assert.Equal(t, "/api/v1/wearables/summary", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("patient_id"))

		w.Header().Set("X-Api-Version", "1.4.2")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SummaryPayload{
			Steps:    StepsPayload{Total: 4932},
			Calories: CaloriesPayload{Total: 1877},
		})
	}))

	payload, err := client.TodaySummary(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 4932, payload.Steps.Total)
	assert.Equal(t, 1877, payload.Calories.Total)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientRequestIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-Id")] = true
		_ = json.NewEncoder(w).Encode(SummaryPayload{})
	}))

	for i := 0; i < 5; i++ {
		_, err := client.TodaySummary(context.Background(), "p1")
		require.NoError(t, err)
	}
	assert.Len(t, seen, 5)
}

func TestClientAggregatedMetrics(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wearables/metrics/recent", r.URL.Path)
		assert.Equal(t, "daily", r.URL.Query().Get("period"))
		assert.Equal(t, "168", r.URL.Query().Get("hours"))
		_ = json.NewEncoder(w).Encode(MetricsAggregate{
			Points: []AggregatePoint{{Label: "2025-11-12", Steps: 8000}},
		})
	}))

	aggregate, err := client.AggregatedMetrics(context.Background(), "p1", PeriodDaily, 7)
	require.NoError(t, err)
	require.Len(t, aggregate.Points, 1)
	assert.Equal(t, 8000, aggregate.Points[0].Steps)
	// Period/days are backfilled when the backend omits them.
	assert.Equal(t, PeriodDaily, aggregate.Period)
	assert.Equal(t, 7, aggregate.Days)
}

func TestClientPairedDevices(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wearables/devices/paired", r.URL.Path)
		assert.Equal(t, "a1", r.URL.Query().Get("android_user_id"))
		_ = json.NewEncoder(w).Encode([]PairedDevice{{DeviceName: "Apple Watch", IsActive: true}})
	}))

	devices, err := client.PairedDevices(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Apple Watch", devices[0].DeviceName)
}

func TestClientProfile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/patient/p1/profile", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Profile{ID: "p1", Name: "Asha Rao"})
	}))

	profile, err := client.Profile(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", profile.Name)
}

func TestClientRemoteError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Patient profile not found"}`))
	}))

	_, err := client.Profile(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Patient profile not found")
}

func TestClientDecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))

	_, err := client.TodaySummary(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClientTransportError(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := client.TodaySummary(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClientVersionMismatchIsNonFatal(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Api-Version", "3.0.0")
		_ = json.NewEncoder(w).Encode(SummaryPayload{Steps: StepsPayload{Total: 1}})
	}))

	payload, err := client.TodaySummary(context.Background(), "p1")
	require.NoError(t, err, "version mismatch logs a warning but does not fail")
	assert.Equal(t, 1, payload.Steps.Total)
}

func TestNewClientRejectsBadConstraint(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "http://localhost", VersionConstraint: "not-a-range"})
	assert.Error(t, err)
}

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "backend returned status 500", (&APIError{StatusCode: 500}).Error())
	assert.Equal(t, "backend returned status 404: nope",
		(&APIError{StatusCode: 404, Message: "nope"}).Error())
}
