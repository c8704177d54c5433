// Package pdf genera el comprobante PDF de una transacción: un documento de
// una sola página con un bloque de cabecera (título, reserva, fecha de
// emisión) y un bloque de detalle con los campos del pago etiquetados.
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// InvoiceGenerator genera el comprobante de un pago con Maroto v2.
type InvoiceGenerator struct {
	now func() time.Time
}

// NewInvoiceGenerator construye el generador.
func NewInvoiceGenerator() *InvoiceGenerator {
	return &InvoiceGenerator{now: time.Now}
}

// WithClock reemplaza el reloj (tests: el nombre del archivo depende de la fecha).
func (g *InvoiceGenerator) WithClock(now func() time.Time) *InvoiceGenerator {
	g.now = now
	return g
}

// Generate produce el PDF y el nombre de archivo derivado de la reserva y la
// fecha actual: factura-<reservationID>-<YYYY-MM-DD>.pdf.
func (g *InvoiceGenerator) Generate(_ context.Context, p entity.Payment) (pdfBytes []byte, filename string, err error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pago", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(p, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	for _, r := range detailRows(p) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}

	filename = fmt.Sprintf("factura-%s-%s.pdf", p.ReservationID, g.now().Format("2006-01-02"))
	return doc.GetBytes(), filename, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y reserva + fecha de emisión (der).
func headerRow(p entity.Payment, emitted time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("COMPROBANTE DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Consola de Pagos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Reserva: "+p.ReservationID, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
			}),
			text.New("Emitido: "+emitted.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// detailRows: una fila etiqueta/valor por campo del pago.
func detailRows(p entity.Payment) []core.Row {
	display := p.Status.Display()
	fields := []struct{ label, value string }{
		{"Transacción", p.ID},
		{"Reserva", p.ReservationID},
		{"Usuario", p.UserID},
		{"Fecha de compra", p.PurchaseDate.Format("2006-01-02")},
		{"Estado", display.Label},
		{"Monto", p.Amount.StringFixed(2) + " " + p.Currency},
	}

	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("DETALLE DE LA TRANSACCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	for _, f := range fields {
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(f.label+":", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1, Left: 2,
			})),
			col.New(8).Add(text.New(f.value, props.Text{
				Size: 9, Top: 1,
			})),
		))
	}
	return rows
}

// footerRow: leyenda al pie.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Este comprobante fue generado por la consola de pagos. "+
				"Conserve este documento como soporte de la transacción.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
