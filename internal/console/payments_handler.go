package console

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/internal/payments"
	"github.com/jmrobles/consola-pagos/internal/pdf"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// PaymentsHandler listado de transacciones, comprobante PDF y operaciones de
// administración (alta y cambio de estado vía el backend).
type PaymentsHandler struct {
	client   *payments.Client
	pdfGen   *pdf.InvoiceGenerator
	pageSize int
	log      *logger.Logger
}

// NewPaymentsHandler construye el handler.
func NewPaymentsHandler(client *payments.Client, pdfGen *pdf.InvoiceGenerator, pageSize int, log *logger.Logger) *PaymentsHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &PaymentsHandler{client: client, pdfGen: pdfGen, pageSize: pageSize, log: log}
}

// filterFromQuery arma los predicados desde el query string. "Limpiar
// filtros" es simplemente navegar sin parámetros (vuelve a la página 0).
func filterFromQuery(c *fiber.Ctx) (payments.Filter, int) {
	f := payments.Filter{
		Search: c.Query("busqueda"),
		Status: entity.PaymentStatus(c.Query("estado")),
		From:   c.Query("desde"),
		To:     c.Query("hasta"),
	}
	page, err := strconv.Atoi(c.Query("pagina"))
	if err != nil || page < 0 {
		page = 0
	}
	return f, page
}

// List renderiza el listado: fetch una vez, filtros en memoria, paginación.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	st, err := SessionFromCtx(c)
	if err != nil {
		return err
	}
	f, pageNum := filterFromQuery(c)

	base := fiber.Map{
		"Title":     "Transacciones",
		"UserEmail": st.User.Email,
		"UserRole":  string(st.User.Role),
		"Filter":    f,
	}

	list, err := h.client.List(c.UserContext())
	if err != nil {
		// Sin reintento automático: el botón "Reintentar" de la vista es la
		// única vía de reintento.
		h.log.Error().Err(err).Msg("listar transacciones")
		base["Error"] = "error al cargar las transacciones"
		return render(c, fiber.StatusBadGateway, "transacciones", base)
	}

	filtered := f.Apply(list)
	page := payments.Paginate(filtered, pageNum, h.pageSize)

	rows := make([]fiber.Map, 0, len(page.Items))
	for _, p := range page.Items {
		d := p.Status.Display()
		rows = append(rows, fiber.Map{
			"ID":            p.ID,
			"ReservationID": p.ReservationID,
			"UserID":        p.UserID,
			"Date":          p.PurchaseDate.Format("2006-01-02"),
			"StatusLabel":   d.Label,
			"StatusColor":   d.Color,
			"Amount":        p.Amount.StringFixed(2),
			"Currency":      p.Currency,
		})
	}

	statuses := make([]fiber.Map, 0, 7)
	for _, s := range []entity.PaymentStatus{
		entity.StatusPending, entity.StatusSuccess, entity.StatusFailure,
		entity.StatusUnderpaid, entity.StatusOverpaid, entity.StatusExpired,
		entity.StatusRefund,
	} {
		statuses = append(statuses, fiber.Map{
			"Value":    string(s),
			"Label":    s.Display().Label,
			"Selected": s == f.Status,
		})
	}

	base["Rows"] = rows
	base["Statuses"] = statuses
	base["Summary"] = page.Summary()
	base["HasPrev"] = page.HasPrev()
	base["HasNext"] = page.HasNext()
	base["PrevURL"] = pageURL(f, page.Number-1)
	base["NextURL"] = pageURL(f, page.Number+1)
	return render(c, fiber.StatusOK, "transacciones", base)
}

// Invoice genera y descarga el comprobante PDF de una transacción.
func (h *PaymentsHandler) Invoice(c *fiber.Ctx) error {
	id := c.Params("id")
	list, err := h.client.List(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("cargar transacción para el comprobante")
		return c.Status(fiber.StatusBadGateway).SendString("error al cargar la transacción")
	}

	var found *entity.Payment
	for i := range list {
		if list[i].ID == id {
			found = &list[i]
			break
		}
	}
	if found == nil {
		return c.Status(fiber.StatusNotFound).SendString("transacción no encontrada")
	}

	pdfBytes, filename, err := h.pdfGen.Generate(c.UserContext(), *found)
	if err != nil {
		h.log.Error().Err(err).Str("pago", id).Msg("generación del comprobante PDF")
		return c.Status(fiber.StatusInternalServerError).SendString("no se pudo generar el comprobante")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

// Create registra un pago (solo administradores; el guard corre antes).
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	amount, err := decimal.NewFromString(c.FormValue("monto"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("monto inválido")
	}
	in := payments.CreateInput{
		ReservationID: c.FormValue("reserva"),
		UserID:        c.FormValue("usuario"),
		Amount:        amount,
		Currency:      c.FormValue("moneda"),
		Status:        entity.PaymentStatus(c.FormValue("estado")),
	}
	if in.ReservationID == "" || in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).SendString("reserva y usuario son requeridos")
	}
	if err := h.client.Create(c.UserContext(), in); err != nil {
		h.log.Error().Err(err).Msg("crear pago")
		return c.Status(fiber.StatusBadGateway).SendString("error al crear el pago")
	}
	return c.Redirect("/transacciones", fiber.StatusFound)
}

// UpdateStatus cambia el estado de un pago (solo administradores).
func (h *PaymentsHandler) UpdateStatus(c *fiber.Ctx) error {
	status := entity.PaymentStatus(c.FormValue("estado"))
	if status == "" {
		return c.Status(fiber.StatusBadRequest).SendString("estado requerido")
	}
	if err := h.client.UpdateStatus(c.UserContext(), c.Params("id"), status); err != nil {
		h.log.Error().Err(err).Msg("actualizar estado del pago")
		return c.Status(fiber.StatusBadGateway).SendString("error al actualizar el pago")
	}
	return c.Redirect("/transacciones", fiber.StatusFound)
}

// AccessDenied página informativa a la que redirigen los guards.
func (h *PaymentsHandler) AccessDenied(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "acceso_denegado", fiber.Map{"Title": "Acceso denegado"})
}

// pageURL reconstruye el query string preservando filtros al cambiar de página.
func pageURL(f payments.Filter, page int) string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("busqueda", f.Search)
	}
	if f.Status != "" {
		q.Set("estado", string(f.Status))
	}
	if f.From != "" {
		q.Set("desde", f.From)
	}
	if f.To != "" {
		q.Set("hasta", f.To)
	}
	if page > 0 {
		q.Set("pagina", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/transacciones"
	}
	return "/transacciones?" + q.Encode()
}
