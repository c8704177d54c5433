package console

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/internal/session"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// Locals keys.
const (
	localSession   = "session_state"
	localRequestID = "request_id"
)

// ErrNoSessionMiddleware se devuelve cuando un handler consulta la sesión sin
// que el middleware la haya instalado. Es un guard de error de programación,
// no una condición recuperable.
var ErrNoSessionMiddleware = errors.New(
	"console: SessionFromCtx llamado fuera de SessionMiddleware; registra el middleware antes de las rutas protegidas")

// SessionMiddleware toma una instantánea del estado de sesión por petición y
// la deja en Locals. Los guards y handlers leen siempre esta instantánea.
func SessionMiddleware(sess *session.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localSession, sess.Current())
		return c.Next()
	}
}

// SessionFromCtx devuelve la instantánea de sesión. Falla ruidosamente si el
// middleware no corrió (ver ErrNoSessionMiddleware).
func SessionFromCtx(c *fiber.Ctx) (session.State, error) {
	v := c.Locals(localSession)
	if v == nil {
		return session.State{}, ErrNoSessionMiddleware
	}
	st, ok := v.(session.State)
	if !ok {
		return session.State{}, ErrNoSessionMiddleware
	}
	return st, nil
}

// RequireAuth bloquea las vistas protegidas: sin sesión definitiva se redirige
// al login. No mantiene estado propio; decide solo con los booleanos derivados.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := SessionFromCtx(c)
		if err != nil {
			return err
		}
		if !st.IsAuthenticated {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireAdmin exige el rol Administrador. Un autenticado sin privilegio ve la
// vista de denegado con su rol actual frente al requerido (no se renderiza el
// contenido protegido).
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := SessionFromCtx(c)
		if err != nil {
			return err
		}
		if !st.IsAuthenticated {
			return c.Redirect("/login", fiber.StatusFound)
		}
		if !st.IsAdmin {
			return render(c, fiber.StatusForbidden, "denied", fiber.Map{
				"Title":        "Acceso denegado",
				"CurrentRole":  string(st.User.Role),
				"RequiredRole": string(entity.RoleAdministrador),
			})
		}
		return c.Next()
	}
}

// RequestLogger middleware de trazabilidad: id de petición + línea por request.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(localRequestID, reqID)
		err := c.Next()
		log.Info().
			Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Msg("petición atendida")
		return err
	}
}
