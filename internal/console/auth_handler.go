package console

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jmrobles/consola-pagos/internal/auth"
	"github.com/jmrobles/consola-pagos/internal/domain"
	"github.com/jmrobles/consola-pagos/internal/session"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// AuthHandler maneja login, logout y el callback del proveedor externo.
type AuthHandler struct {
	sess     *session.Context
	resolver *auth.Resolver
	client   *auth.Client
	ttl      time.Duration
	log      *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sess *session.Context, resolver *auth.Resolver, client *auth.Client, ttl time.Duration, log *logger.Logger) *AuthHandler {
	return &AuthHandler{sess: sess, resolver: resolver, client: client, ttl: ttl, log: log}
}

// LoginPage renderiza el formulario. En la página de login la inicialización
// es reducida: se carga la sesión ya almacenada solo para mostrarla, sin
// resolver la URL ni disparar redirecciones, para no pelear con el propio
// flujo de envío del formulario.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	h.sess.RefreshAuth()
	st := h.sess.Current()
	return render(c, fiber.StatusOK, "login", fiber.Map{
		"Title": "Iniciar sesión",
		"Email": st.User.Email,
		"Error": c.Query("error"),
	})
}

// LoginSubmit procesa el formulario contra el servicio de auth externo.
func (h *AuthHandler) LoginSubmit(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return render(c, fiber.StatusBadRequest, "login", fiber.Map{
			"Title": "Iniciar sesión",
			"Error": "email y contraseña son requeridos",
		})
	}

	token, user, err := h.client.Login(c.UserContext(), email, password)
	if err != nil {
		h.log.Warn().Err(err).Str("email", email).Msg("login fallido")
		return render(c, loginErrorStatus(err), "login", fiber.Map{
			"Title": "Iniciar sesión",
			"Error": loginErrorMessage(err),
		})
	}

	if err := h.sess.Login(token, user, h.ttl); err != nil {
		h.log.Error().Err(err).Msg("persistir sesión tras login")
		return render(c, fiber.StatusInternalServerError, "login", fiber.Map{
			"Title": "Iniciar sesión",
			"Error": "no se pudo guardar la sesión",
		})
	}
	return c.Redirect("/transacciones", fiber.StatusFound)
}

// Logout limpia la sesión y navega al login (la navegación es responsabilidad
// del caller del Logout, es decir, de este handler).
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sess.Logout()
	return c.Redirect("/login", fiber.StatusFound)
}

// Callback recibe el retorno del proveedor de login externo. La URL completa
// de la petición se pasa al resolver; si produce identidad se redirige a la
// URL limpia (sin credenciales visibles) o al listado.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	res, ok := h.resolver.Resolve(c.OriginalURL())
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}
	h.sess.RefreshAuth()
	h.log.Info().Str("origen", string(res.Source)).Str("usuario", res.User.ID).Msg("sesión resuelta por callback")
	return c.Redirect("/transacciones", fiber.StatusFound)
}

// loginErrorMessage distingue credenciales inválidas (401/403) de error del
// servidor (5xx) y del fallback genérico.
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "credenciales inválidas"
	case errors.Is(err, domain.ErrServer):
		return "error del servidor, intenta más tarde"
	default:
		return "no se pudo iniciar sesión"
	}
}

func loginErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrServer):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
