package session

import (
	"encoding/json"
	"time"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// Claves persistidas. KeyToken guarda el bearer token crudo; KeyUser el sobre
// JSON {token, user, expiresAt}.
const (
	KeyToken = "auth_token"
	KeyUser  = "auth_user"
)

// DefaultTTL vigencia por defecto de una sesión almacenada.
const DefaultTTL = 3600 * time.Second

// TokenStore dueño único de la sesión persistida. Contrato: nunca lanza error
// hacia el caller en lecturas; ante cualquier duda (JSON corrupto, expiración)
// responde "no hay sesión" y registra en el log.
type TokenStore struct {
	storage Storage
	log     *logger.Logger
	now     func() time.Time
}

// NewTokenStore construye el store. now se inyecta para poder testear expiración.
func NewTokenStore(storage Storage, log *logger.Logger) *TokenStore {
	return &TokenStore{storage: storage, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *TokenStore) WithClock(now func() time.Time) *TokenStore {
	s.now = now
	return s
}

// Store persiste token crudo y sobre JSON bajo las dos claves. No hay garantía
// de atomicidad entre ambas escrituras; ningún caller la necesita.
func (s *TokenStore) Store(token string, user entity.User, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	env := entity.Session{
		Token:     token,
		User:      user,
		ExpiresAt: s.now().Add(ttl).UnixMilli(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := s.storage.Set(KeyToken, token); err != nil {
		return err
	}
	return s.storage.Set(KeyUser, string(raw))
}

// GetToken devuelve el token vigente o "" si no hay sesión, está expirada o
// el sobre está corrupto.
func (s *TokenStore) GetToken() string {
	env, ok := s.readEnvelope()
	if !ok {
		return ""
	}
	return env.Token
}

// GetUser devuelve el usuario de la sesión vigente. ok=false si no hay sesión.
func (s *TokenStore) GetUser() (entity.User, bool) {
	env, ok := s.readEnvelope()
	if !ok {
		return entity.User{}, false
	}
	return env.User, true
}

// Clear borra ambas claves. Idempotente.
func (s *TokenStore) Clear() {
	if err := s.storage.Delete(KeyToken); err != nil {
		s.log.Warn().Err(err).Msg("sesión: borrar auth_token")
	}
	if err := s.storage.Delete(KeyUser); err != nil {
		s.log.Warn().Err(err).Msg("sesión: borrar auth_user")
	}
}

// readEnvelope lee y valida el sobre. Expiración implica borrado perezoso de
// ambas claves en esta misma lectura.
func (s *TokenStore) readEnvelope() (entity.Session, bool) {
	raw, err := s.storage.Get(KeyUser)
	if err != nil {
		if err != ErrKeyNotFound {
			s.log.Warn().Err(err).Msg("sesión: leer auth_user")
		}
		return entity.Session{}, false
	}
	var env entity.Session
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.log.Warn().Err(err).Msg("sesión: sobre corrupto, se descarta")
		return entity.Session{}, false
	}
	if env.Expired(s.now()) {
		s.log.Debug().Msg("sesión: expirada, limpiando almacenamiento")
		s.Clear()
		return entity.Session{}, false
	}
	return env, true
}
