package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrobles/consola-pagos/internal/domain"
	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

func TestClient_ListExitoso(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"payments": []map[string]any{
				{"id": "p-1", "reservationId": "r-1", "userId": "u-1", "status": "success",
					"amount": "10000.50", "currency": "CLP", "purchaseDate": "2026-02-01T10:00:00Z"},
			},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL, logger.Nop())
	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p-1", list[0].ID)
	assert.Equal(t, entity.StatusSuccess, list[0].Status)
	assert.True(t, list[0].Amount.Equal(decimal.RequireFromString("10000.50")))
}

// success:false en un 2xx es fallo y arrastra el mensaje del backend.
func TestClient_ListSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"indice caido"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL, logger.Nop())
	_, err := c.List(context.Background())
	require.ErrorIs(t, err, domain.ErrAPIUnsuccessful)
	assert.Contains(t, err.Error(), "indice caido")
}

// Todo no-2xx es fallo.
func TestClient_ListNo2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL, logger.Nop())
	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrServer)
}

// Create envía POST al webhook y genera referencia si no viene.
func TestClient_Create(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/webhooks/payments", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL, logger.Nop())
	err := c.Create(context.Background(), CreateInput{
		ReservationID: "r-9",
		UserID:        "u-9",
		Amount:        decimal.NewFromInt(5000),
		Currency:      "CLP",
		Status:        entity.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "r-9", body["reservationId"])
	assert.NotEmpty(t, body["reference"], "debe generarse una referencia")
}

// UpdateStatus envía PUT con id y estado.
func TestClient_UpdateStatus(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL, logger.Nop())
	require.NoError(t, c.UpdateStatus(context.Background(), "p-3", entity.StatusRefund))
	assert.Equal(t, "p-3", body["id"])
	assert.Equal(t, "refund", body["status"])
}

func TestClient_UpdateStatusFallido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(422)
		_, _ = w.Write([]byte(`{"success":false,"error":"transicion invalida"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL, logger.Nop())
	err := c.UpdateStatus(context.Background(), "p-3", entity.PaymentStatus("???"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServer)
}
