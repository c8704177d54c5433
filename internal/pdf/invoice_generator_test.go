package pdf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
)

func samplePayment() entity.Payment {
	d, _ := time.Parse("2006-01-02", "2026-02-14")
	return entity.Payment{
		ID:            "p-55",
		ReservationID: "r-55",
		UserID:        "u-9",
		PurchaseDate:  d,
		Status:        entity.StatusSuccess,
		Amount:        decimal.RequireFromString("125000.50"),
		Currency:      "CLP",
	}
}

// El documento generado es un PDF y el nombre sigue el patrón
// factura-<reserva>-<fecha>.pdf con la fecha actual.
func TestGenerate_PDFYNombreDeArchivo(t *testing.T) {
	fixed, _ := time.Parse("2006-01-02", "2026-08-29")
	g := NewInvoiceGenerator().WithClock(func() time.Time { return fixed })

	raw, filename, err := g.Generate(context.Background(), samplePayment())
	require.NoError(t, err)

	assert.Equal(t, "factura-r-55-2026-08-29.pdf", filename)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"), "debe emitir un PDF")
	assert.NotEmpty(t, raw)
}

// Un estado desconocido no rompe la generación: usa la etiqueta de fallback.
func TestGenerate_EstadoDesconocidoNoFalla(t *testing.T) {
	p := samplePayment()
	p.Status = entity.PaymentStatus("estado-raro")

	raw, _, err := NewInvoiceGenerator().Generate(context.Background(), p)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
