package payments

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
)

// Filter predicados sobre el listado en memoria. Se aplican en orden:
// búsqueda por texto, estado exacto, rango de fechas inclusivo.
type Filter struct {
	// Search subcadena insensible a mayúsculas y acentos, contra
	// id / reservationId / userId.
	Search string
	// Status coincidencia exacta contra el literal del estado. Vacío = todos.
	Status entity.PaymentStatus
	// From y To en formato YYYY-MM-DD, inclusivos. Vacío = sin cota.
	From string
	To   string
}

// IsZero indica si no hay ningún predicado activo.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.Status == "" && f.From == "" && f.To == ""
}

// Apply filtra la lista sin mutarla.
func (f Filter) Apply(list []entity.Payment) []entity.Payment {
	if f.IsZero() {
		return list
	}
	needle := foldText(f.Search)
	out := make([]entity.Payment, 0, len(list))
	for _, p := range list {
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.From != "" || f.To != "" {
			// La fecha de compra se normaliza a YYYY-MM-DD y se compara como
			// string: el formato es lexicográficamente ordenable.
			d := p.PurchaseDate.Format("2006-01-02")
			if f.From != "" && d < f.From {
				continue
			}
			if f.To != "" && d > f.To {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p entity.Payment, needle string) bool {
	for _, field := range []string{p.ID, p.ReservationID, p.UserID} {
		if strings.Contains(foldText(field), needle) {
			return true
		}
	}
	return false
}

// foldText pasa a minúsculas y elimina diacríticos (NFD + remover marcas),
// para que "José" encuentre "jose" y viceversa.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ── Paginación ───────────────────────────────────────────────────────────────

// Page una página del listado filtrado. Number es 0-based.
type Page struct {
	Items  []entity.Payment
	Number int
	Size   int
	Total  int
}

// Paginate corta la lista filtrada. Páginas fuera de rango devuelven una
// página vacía con el total correcto.
func Paginate(list []entity.Payment, page, size int) Page {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	start := page * size
	end := start + size
	total := len(list)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{Items: list[start:end], Number: page, Size: size, Total: total}
}

// TotalPages cantidad de páginas del listado.
func (p Page) TotalPages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// HasPrev / HasNext para los controles de navegación.
func (p Page) HasPrev() bool { return p.Number > 0 }
func (p Page) HasNext() bool { return (p.Number+1)*p.Size < p.Total }

// Summary resumen al pie del listado: "Mostrando 1 - 10 de 25".
// Con lista vacía: "Mostrando 0 - 0 de 0".
func (p Page) Summary() string {
	if p.Total == 0 || len(p.Items) == 0 {
		return fmt.Sprintf("Mostrando 0 - 0 de %d", p.Total)
	}
	first := p.Number*p.Size + 1
	last := p.Number*p.Size + len(p.Items)
	return fmt.Sprintf("Mostrando %d - %d de %d", first, last, p.Total)
}
