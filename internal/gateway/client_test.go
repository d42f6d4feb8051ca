package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"childcare-assistant/internal/common/config"
	apperrors "childcare-assistant/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient(config.GatewayConfig{BaseURL: server.URL + "/api/", AuthToken: "tok", Timeout: 2000})
}

func TestClient_List(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/attendance", r.URL.Path)
		assert.Equal(t, "today", r.URL.Query().Get("timeframe"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"a1","status":"present"}]`))
	})

	data, err := client.List(context.Background(), ResourceAttendance, url.Values{"timeframe": {"today"}})
	require.NoError(t, err)

	list, ok := data.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestClient_ListErrors(t *testing.T) {
	t.Run("non-2xx is a network error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.List(context.Background(), ResourceBilling, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNetwork))

		var fe *apperrors.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
		assert.Equal(t, ResourceBilling, fe.Resource)
	})

	t.Run("invalid json is a parse error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":`))
		})

		_, err := client.List(context.Background(), ResourceStaff, nil)
		assert.True(t, errors.Is(err, apperrors.ErrParse))
	})

	t.Run("connection failure is a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()
		client := NewClient(config.GatewayConfig{BaseURL: server.URL, Timeout: 500})

		_, err := client.List(context.Background(), ResourceChildren, nil)
		assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	})
}

func TestClient_Mutations(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, r.Method+" "+r.URL.Path+" "+string(body))
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"id":"b1"}`))
	})

	ctx := context.Background()
	_, err := client.Create(ctx, ResourceBookings, map[string]string{"family": "Lee"})
	require.NoError(t, err)
	_, err = client.Update(ctx, ResourceBookings, "b1", map[string]string{"status": "confirmed"})
	require.NoError(t, err)
	require.NoError(t, client.Delete(ctx, ResourceBookings, "b1"))

	assert.Equal(t, []string{
		`POST /api/bookings {"family":"Lee"}`,
		`PUT /api/bookings/b1 {"status":"confirmed"}`,
		`DELETE /api/bookings/b1 `,
	}, calls)

	_, err = client.Create(ctx, "/reports", map[string]string{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
