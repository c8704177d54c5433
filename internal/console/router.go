package console

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmrobles/consola-pagos/internal/session"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Session  *session.Context
	Auth     *AuthHandler
	Payments *PaymentsHandler
	Log      *logger.Logger
}

// Router registra las rutas de la consola.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log))
	app.Use(SessionMiddleware(deps.Session))

	// Público
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/transacciones", fiber.StatusFound)
	})
	app.Get("/login", deps.Auth.LoginPage)
	app.Post("/login", deps.Auth.LoginSubmit)
	app.Get("/logout", deps.Auth.Logout)
	app.Get("/auth/callback", deps.Auth.Callback)
	app.Get("/acceso-denegado", deps.Payments.AccessDenied)

	// Protegido (requiere sesión)
	tx := app.Group("/transacciones", RequireAuth())
	tx.Get("/", deps.Payments.List)
	tx.Get("/:id/factura", deps.Payments.Invoice)

	// Protegido (requiere Administrador)
	admin := app.Group("/pagos", RequireAuth(), RequireAdmin())
	admin.Post("/", deps.Payments.Create)
	admin.Post("/:id/estado", deps.Payments.UpdateStatus)
}
