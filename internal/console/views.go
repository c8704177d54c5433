package console

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// Las vistas son plantillas html/template compiladas una sola vez. La consola
// renderiza HTML del lado del servidor; no hay assets ni framework de front.
var views = template.Must(template.New("views").Parse(`
{{define "layout_top"}}<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>{{.Title}} — Consola de Pagos</title></head>
<body>
<h1>Consola de Pagos</h1>
{{end}}

{{define "layout_bottom"}}</body></html>{{end}}

{{define "login"}}{{template "layout_top" .}}
<h2>Iniciar sesión</h2>
{{if .Error}}<p class="error" style="color:red">{{.Error}}</p>{{end}}
{{if .Email}}<p>Última sesión: {{.Email}}</p>{{end}}
<form method="post" action="/login">
  <label>Email <input type="email" name="email" required></label>
  <label>Contraseña <input type="password" name="password" required></label>
  <button type="submit">Entrar</button>
</form>
{{template "layout_bottom" .}}{{end}}

{{define "denied"}}{{template "layout_top" .}}
<h2>Acceso denegado</h2>
<p>No tienes permisos para ver esta sección.</p>
<p>Rol actual: {{.CurrentRole}}</p>
<p>Rol requerido: {{.RequiredRole}}</p>
<p><a href="/acceso-denegado">Más información</a> · <a href="/transacciones">Volver</a></p>
{{template "layout_bottom" .}}{{end}}

{{define "acceso_denegado"}}{{template "layout_top" .}}
<h2>Acceso denegado</h2>
<p>Tu sesión no tiene privilegios suficientes o fue rechazada por el servidor.</p>
<p><a href="/login">Iniciar sesión de nuevo</a></p>
{{template "layout_bottom" .}}{{end}}

{{define "transacciones"}}{{template "layout_top" .}}
<h2>Transacciones</h2>
<p>Sesión: {{.UserEmail}} ({{.UserRole}}) · <a href="/logout">Salir</a></p>
{{if .Error}}
<p class="error" style="color:red">{{.Error}}</p>
<form method="get" action="/transacciones"><button type="submit">Reintentar</button></form>
{{else}}
<form method="get" action="/transacciones">
  <input type="text" name="busqueda" placeholder="id, reserva o usuario" value="{{.Filter.Search}}">
  <select name="estado">
    <option value="">Todos los estados</option>
    {{range .Statuses}}<option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Label}}</option>{{end}}
  </select>
  <input type="date" name="desde" value="{{.Filter.From}}">
  <input type="date" name="hasta" value="{{.Filter.To}}">
  <button type="submit">Filtrar</button>
  <a href="/transacciones">Limpiar filtros</a>
</form>
<table border="1">
  <tr><th>ID</th><th>Reserva</th><th>Usuario</th><th>Fecha</th><th>Estado</th><th>Monto</th><th></th></tr>
  {{range .Rows}}
  <tr>
    <td>{{.ID}}</td><td>{{.ReservationID}}</td><td>{{.UserID}}</td><td>{{.Date}}</td>
    <td style="color:{{.StatusColor}}">{{.StatusLabel}}</td>
    <td>{{.Amount}} {{.Currency}}</td>
    <td><a href="/transacciones/{{.ID}}/factura">PDF</a></td>
  </tr>
  {{end}}
</table>
<p>{{.Summary}}</p>
<p>
  {{if .HasPrev}}<a href="{{.PrevURL}}">Anterior</a>{{end}}
  {{if .HasNext}}<a href="{{.NextURL}}">Siguiente</a>{{end}}
</p>
{{end}}
{{template "layout_bottom" .}}{{end}}
`))

// render ejecuta la plantilla indicada y responde HTML con el status dado.
func render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
