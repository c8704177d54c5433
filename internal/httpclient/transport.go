// Package httpclient implementa el interceptor de peticiones salientes: un
// decorador de http.RoundTripper que adjunta el bearer token a las llamadas
// dirigidas al backend y reacciona a 401/403 cerrando la sesión.
//
// Es la única implementación del patrón; el cliente decorado se inyecta a
// quien lo necesite en lugar de parchear ningún estado global del proceso.
package httpclient

import (
	"net/http"
	"strings"

	"github.com/jmrobles/consola-pagos/internal/session"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// ForcedLogoutFunc se invoca ante un 401/403 del backend. Es fire-and-forget:
// no reintenta ni refresca tokens; la respuesta se devuelve sin modificar.
type ForcedLogoutFunc func(status int, url string)

// AuthTransport decora un http.RoundTripper. Para peticiones clasificadas como
// "hacia nuestro backend" adjunta Authorization: Bearer <token> (leído fresco
// del TokenStore en cada llamada, nunca cacheado) y Content-Type por defecto.
// Las peticiones a otros orígenes pasan intactas.
type AuthTransport struct {
	base        http.RoundTripper
	store       *session.TokenStore
	apiBase     string
	onForbidden ForcedLogoutFunc
	log         *logger.Logger
}

// New construye el transporte. base nil usa http.DefaultTransport.
func New(base http.RoundTripper, store *session.TokenStore, apiBase string, onForbidden ForcedLogoutFunc, log *logger.Logger) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{
		base:        base,
		store:       store,
		apiBase:     strings.TrimSuffix(apiBase, "/"),
		onForbidden: onForbidden,
		log:         log,
	}
}

// Wrap devuelve un *http.Client cuyo transporte es un AuthTransport. Es
// idempotente: si el cliente ya está decorado no se envuelve dos veces.
func Wrap(client *http.Client, store *session.TokenStore, apiBase string, onForbidden ForcedLogoutFunc, log *logger.Logger) *http.Client {
	if client == nil {
		client = &http.Client{}
	}
	if _, ok := client.Transport.(*AuthTransport); ok {
		return client
	}
	client.Transport = New(client.Transport, store, apiBase, onForbidden, log)
	return client
}

// RoundTrip implementa http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.isAPIRequest(req.URL.String()) {
		return t.base.RoundTrip(req)
	}

	// RoundTrip no debe mutar la petición original.
	out := req.Clone(req.Context())
	if token := t.store.GetToken(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get("Content-Type") == "" && out.Body != nil {
		out.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		// Los errores de transporte nunca se tragan: log y re-lanzar intactos.
		t.log.Error().Err(err).Str("url", req.URL.String()).Msg("interceptor: fallo de red")
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		t.log.Warn().Int("status", resp.StatusCode).Str("url", req.URL.String()).
			Msg("interceptor: backend rechazó la sesión")
		if t.onForbidden != nil {
			t.onForbidden(resp.StatusCode, req.URL.String())
		}
	}
	return resp, nil
}

// isAPIRequest clasifica la petición: URL que comienza con la base del API o
// que contiene /api/ como segmento de ruta.
func (t *AuthTransport) isAPIRequest(rawURL string) bool {
	if t.apiBase != "" && strings.HasPrefix(rawURL, t.apiBase) {
		return true
	}
	return strings.Contains(rawURL, "/api/")
}
