package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmrobles/consola-pagos/internal/domain"
	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// Client consume el backend de pagos. Contrato del backend: todo no-2xx es
// fallo; un 2xx con success:false también lo es, arrastrando el string de
// error del cuerpo. No hay reintento automático: el caller decide si reintenta.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// NewClient construye el cliente. httpClient debe venir decorado con el
// interceptor para que las llamadas lleven el bearer token.
func NewClient(httpClient *http.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, log: log}
}

type listResponse struct {
	Success  bool             `json:"success"`
	Payments []entity.Payment `json:"payments"`
	Error    string           `json:"error"`
}

type writeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CreateInput datos para registrar un pago vía webhook.
type CreateInput struct {
	ReservationID string               `json:"reservationId"`
	UserID        string               `json:"userId"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      string               `json:"currency"`
	Status        entity.PaymentStatus `json:"status,omitempty"`
	// Reference referencia generada por la consola para correlacionar el alta.
	Reference string `json:"reference,omitempty"`
}

// List trae el listado completo de pagos (GET /api/payments).
func (c *Client) List(ctx context.Context) ([]entity.Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/payments", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pagos: listar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: listar pagos respondió %d", domain.ErrServer, resp.StatusCode)
	}
	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pagos: cuerpo ilegible: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrAPIUnsuccessful, out.Error)
	}
	return out.Payments, nil
}

// Create registra un pago (POST /api/webhooks/payments). Si no viene
// referencia se genera una para poder correlacionar en los logs.
func (c *Client) Create(ctx context.Context, in CreateInput) error {
	if in.Reference == "" {
		in.Reference = uuid.NewString()
	}
	c.log.Info().Str("reserva", in.ReservationID).Str("ref", in.Reference).Msg("pagos: creando pago")
	return c.write(ctx, http.MethodPost, in)
}

// UpdateStatus cambia el estado de un pago (PUT /api/webhooks/payments).
func (c *Client) UpdateStatus(ctx context.Context, paymentID string, status entity.PaymentStatus) error {
	body := struct {
		ID     string               `json:"id"`
		Status entity.PaymentStatus `json:"status"`
	}{ID: paymentID, Status: status}
	c.log.Info().Str("pago", paymentID).Str("estado", string(status)).Msg("pagos: actualizando estado")
	return c.write(ctx, http.MethodPut, body)
}

// write serializa y envía una mutación al endpoint de webhooks.
func (c *Client) write(ctx context.Context, method string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/webhooks/payments", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pagos: enviar webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: webhook respondió %d: %s", domain.ErrServer, resp.StatusCode, string(b))
	}
	var out writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("pagos: cuerpo ilegible: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", domain.ErrAPIUnsuccessful, out.Error)
	}
	return nil
}
