package auth

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/internal/session"
	"github.com/jmrobles/consola-pagos/pkg/jwtclaims"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// Source origen del que se obtuvo la sesión.
type Source string

const (
	SourceFragment Source = "fragment"
	SourceQuery    Source = "query"
	SourceStore    Source = "store"
)

// Resolved resultado de la resolución de identidad.
type Resolved struct {
	Token  string
	User   entity.User
	Source Source
	// CleanURL es la URL con el fragmento removido cuando Source==fragment
	// (el análogo del history.replaceState). Vacío en los demás orígenes.
	CleanURL string
}

// Resolver determina la identidad actual al arrancar una vista: primero el
// fragmento de la URL, luego el query string (callback del flujo de login
// externo) y por último el TokenStore. El primer origen que produce resultado
// gana. La tolerancia de formas múltiples existe porque la respuesta del
// servicio de auth no está bajo control de esta consola.
type Resolver struct {
	store *session.TokenStore
	log   *logger.Logger
	ttl   time.Duration
}

// NewResolver construye el resolver. ttl aplica a las sesiones que se
// persisten al llegar por URL.
func NewResolver(store *session.TokenStore, ttl time.Duration, log *logger.Logger) *Resolver {
	return &Resolver{store: store, ttl: ttl, log: log}
}

// Resolve intenta los tres orígenes en orden. ok=false significa que no hay
// identidad por ninguna vía.
func (r *Resolver) Resolve(rawURL string) (Resolved, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		r.log.Warn().Err(err).Str("url", rawURL).Msg("auth: URL de entrada inválida")
		u = nil
	}

	if u != nil {
		if res, ok := r.fromFragment(u); ok {
			return res, true
		}
		if res, ok := r.fromQuery(u); ok {
			return res, true
		}
	}
	return r.fromStore()
}

// fromFragment origen 1: #token=...&user=<json url-encoded>. Un user ausente o
// corrupto no invalida el token: se sintetiza un placeholder.
func (r *Resolver) fromFragment(u *url.URL) (Resolved, bool) {
	vals, err := url.ParseQuery(u.EscapedFragment())
	if err != nil {
		return Resolved{}, false
	}
	token := vals.Get("token")
	if token == "" {
		return Resolved{}, false
	}

	user := entity.PlaceholderUser()
	if raw := vals.Get("user"); raw != "" {
		var parsed entity.User
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			r.log.Warn().Err(err).Msg("auth: user del fragmento ilegible, se usa placeholder")
		} else {
			user = parsed
		}
	}

	r.persist(token, user)

	clean := *u
	clean.Fragment = ""
	clean.RawFragment = ""
	return Resolved{Token: token, User: user, Source: SourceFragment, CleanURL: clean.String()}, true
}

// fromQuery origen 2: token bajo token/accessToken/jwt; user bajo user/usuario
// o anidado en data. Token sin ningún user intenta decodificar el payload JWT;
// si no tiene forma JWT este origen no produce resultado (cae al siguiente).
func (r *Resolver) fromQuery(u *url.URL) (Resolved, bool) {
	q := u.Query()

	var token string
	for _, key := range []string{"token", "accessToken", "jwt"} {
		if v := q.Get(key); v != "" {
			token = v
			break
		}
	}
	if token == "" {
		return Resolved{}, false
	}

	user, ok := userFromQuery(q)
	if !ok {
		synth, err := synthesizeUser(token)
		if err != nil {
			r.log.Debug().Err(err).Msg("auth: token por query sin user ni claims legibles")
			return Resolved{}, false
		}
		user = synth
	}

	r.persist(token, user)
	return Resolved{Token: token, User: user, Source: SourceQuery}, true
}

// fromStore origen 3: la sesión persistida (expiración validada por el store).
func (r *Resolver) fromStore() (Resolved, bool) {
	token := r.store.GetToken()
	if token == "" {
		return Resolved{}, false
	}
	user, _ := r.store.GetUser()
	return Resolved{Token: token, User: user, Source: SourceStore}, true
}

// userFromQuery extrae el user de los parámetros aceptados.
func userFromQuery(q url.Values) (entity.User, bool) {
	for _, key := range []string{"user", "usuario"} {
		if raw := q.Get(key); raw != "" {
			var u entity.User
			if err := json.Unmarshal([]byte(raw), &u); err == nil {
				return u, true
			}
		}
	}
	// Forma anidada: ?data={"user":{...}} o {"usuario":{...}}
	if raw := q.Get("data"); raw != "" {
		var wrapper struct {
			User    *entity.User `json:"user"`
			Usuario *entity.User `json:"usuario"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapper); err == nil {
			if wrapper.User != nil {
				return *wrapper.User, true
			}
			if wrapper.Usuario != nil {
				return *wrapper.Usuario, true
			}
		}
	}
	return entity.User{}, false
}

// synthesizeUser construye el usuario desde los claims habituales del emisor.
func synthesizeUser(token string) (entity.User, error) {
	claims, err := jwtclaims.DecodeUnverified(token)
	if err != nil {
		return entity.User{}, err
	}
	u := entity.User{
		ID:    jwtclaims.FirstString(claims, "id", "sub"),
		Email: jwtclaims.FirstString(claims, "email", "correo"),
		Name:  jwtclaims.FirstString(claims, "name", "nombre"),
		Role:  entity.Role(jwtclaims.FirstString(claims, "role", "rol")),
	}
	if u.ID == "" {
		u.ID = "unknown"
	}
	if u.Role == "" {
		u.Role = entity.RoleUsuario
	}
	return u, nil
}

func (r *Resolver) persist(token string, user entity.User) {
	if err := r.store.Store(token, user, r.ttl); err != nil {
		r.log.Error().Err(err).Msg("auth: persistir sesión resuelta por URL")
	}
}
