package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de un pago según el backend. Conjunto cerrado de
// literales; cualquier otro valor cae en el bucket "unknown" al presentarse.
type PaymentStatus string

// Estados conocidos del backend de pagos.
const (
	StatusPending   PaymentStatus = "pending"
	StatusSuccess   PaymentStatus = "success"
	StatusFailure   PaymentStatus = "failure"
	StatusUnderpaid PaymentStatus = "underpaid"
	StatusOverpaid  PaymentStatus = "overpaid"
	StatusExpired   PaymentStatus = "expired"
	StatusRefund    PaymentStatus = "refund"
)

// Payment registro de pago/transacción. El backend es el dueño del dato; la
// consola solo mantiene copias efímeras por petición.
type Payment struct {
	ID            string          `json:"id"`
	ReservationID string          `json:"reservationId"`
	UserID        string          `json:"userId"`
	PurchaseDate  time.Time       `json:"purchaseDate"`
	Status        PaymentStatus   `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// StatusDisplay etiqueta y color de presentación de un estado.
type StatusDisplay struct {
	Label string
	Color string // nombre CSS usado por las vistas
}

var statusDisplays = map[PaymentStatus]StatusDisplay{
	StatusPending:   {Label: "Pendiente", Color: "orange"},
	StatusSuccess:   {Label: "Exitoso", Color: "green"},
	StatusFailure:   {Label: "Fallido", Color: "red"},
	StatusUnderpaid: {Label: "Pago insuficiente", Color: "goldenrod"},
	StatusOverpaid:  {Label: "Pago en exceso", Color: "teal"},
	StatusExpired:   {Label: "Expirado", Color: "gray"},
	StatusRefund:    {Label: "Reembolsado", Color: "purple"},
}

// unknownDisplay bucket genérico para estados no reconocidos.
// Es una decisión de presentación, no un error.
var unknownDisplay = StatusDisplay{Label: "Desconocido", Color: "dimgray"}

// Display devuelve la presentación del estado, con fallback a "Desconocido".
func (s PaymentStatus) Display() StatusDisplay {
	if d, ok := statusDisplays[s]; ok {
		return d
	}
	return unknownDisplay
}

// Known indica si el estado pertenece al conjunto cerrado de literales.
func (s PaymentStatus) Known() bool {
	_, ok := statusDisplays[s]
	return ok
}
