package session

import (
	"sync"
	"time"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// State espejo en memoria de la sesión, con los booleanos derivados ya
// calculados. Puede quedar desfasado respecto al TokenStore hasta el próximo
// RefreshAuth/Login/Logout; esa es la semántica esperada.
type State struct {
	User            entity.User
	Token           string
	IsAuthenticated bool
	IsAdmin         bool
}

// Listener recibe el estado resultante tras un cambio de sesión.
type Listener func(State)

// Context mantiene el estado reactivo de la sesión y lo sincroniza con el
// TokenStore. Las operaciones concurrentes Login/Logout no se serializan más
// allá del mutex: gana la última escritura, lo cual es aceptable porque son
// acciones de usuario efectivamente seriales.
type Context struct {
	store *TokenStore
	log   *logger.Logger

	mu        sync.RWMutex
	state     State
	onChange  []Listener
	onExpired []Listener
}

// NewContext construye el contexto y carga el estado inicial desde el store.
func NewContext(store *TokenStore, log *logger.Logger) *Context {
	c := &Context{store: store, log: log}
	c.RefreshAuth()
	return c
}

// Current devuelve una copia del estado actual.
func (c *Context) Current() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Login persiste la sesión y actualiza el estado de forma síncrona.
func (c *Context) Login(token string, user entity.User, ttl time.Duration) error {
	if err := c.store.Store(token, user, ttl); err != nil {
		return err
	}
	c.setState(derive(token, user, true))
	return nil
}

// Logout limpia el store y anula el estado. No navega: el caller decide a
// dónde redirigir.
func (c *Context) Logout() {
	c.store.Clear()
	c.setState(State{})
}

// RefreshAuth relee el TokenStore hacia el estado reactivo. Útil tras una
// mutación del almacenamiento hecha fuera de este contexto.
func (c *Context) RefreshAuth() {
	token := c.store.GetToken()
	user, ok := c.store.GetUser()
	c.setState(derive(token, user, ok))
}

// ForceLogout limpia la sesión y notifica a los suscriptores de expiración.
// Lo invoca el interceptor HTTP ante un 401/403 del backend.
func (c *Context) ForceLogout(reason string) {
	c.log.Warn().Str("motivo", reason).Msg("sesión: cierre forzado")
	c.store.Clear()
	c.setState(State{})

	c.mu.RLock()
	listeners := make([]Listener, len(c.onExpired))
	copy(listeners, c.onExpired)
	st := c.state
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(st)
	}
}

// OnChange registra un listener para cualquier cambio de estado.
func (c *Context) OnChange(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// OnExpired registra un listener para cierres forzados (401/403).
func (c *Context) OnExpired(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

func (c *Context) setState(st State) {
	c.mu.Lock()
	c.state = st
	listeners := make([]Listener, len(c.onChange))
	copy(listeners, c.onChange)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}

// derive calcula los booleanos a partir de token y usuario. No hay máquina de
// estados: IsAuthenticated es token no vacío, IsAdmin el literal exacto.
func derive(token string, user entity.User, hasUser bool) State {
	if token == "" {
		return State{}
	}
	st := State{Token: token, IsAuthenticated: true}
	if hasUser {
		st.User = user
		st.IsAdmin = user.EsAdmin()
	}
	return st
}
