package auth

import (
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/internal/session"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newTestResolver(t *testing.T) (*Resolver, *session.TokenStore) {
	t.Helper()
	store := session.NewTokenStore(session.NewMemoryStorage(), logger.Nop())
	return NewResolver(store, time.Hour, logger.Nop()), store
}

// signedJWT arma un token con forma JWT para probar la síntesis de claims.
// La firma no se valida en el resolver, así que el secreto es irrelevante.
func signedJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevante"))
	require.NoError(t, err)
	return tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Origen 1: fragmento de URL
// ──────────────────────────────────────────────────────────────────────────────

// Fragmento con token y user url-encoded: se extraen ambos y la URL limpia
// queda sin fragmento.
func TestResolver_FragmentoConTokenYUser(t *testing.T) {
	r, store := newTestResolver(t)

	raw := "https://consola.example.com/app#token=abc123&user=%7B%22id%22%3A%221%22%2C%22role%22%3A%22Usuario%22%7D"
	res, ok := r.Resolve(raw)
	require.True(t, ok)

	assert.Equal(t, SourceFragment, res.Source)
	assert.Equal(t, "abc123", res.Token)
	assert.Equal(t, "1", res.User.ID)
	assert.Equal(t, entity.RoleUsuario, res.User.Role)

	// URL limpia: el fragmento fue removido (análogo del history replace).
	clean, err := url.Parse(res.CleanURL)
	require.NoError(t, err)
	assert.Empty(t, clean.Fragment)
	assert.Equal(t, "https://consola.example.com/app", res.CleanURL)

	// La sesión quedó persistida.
	assert.Equal(t, "abc123", store.GetToken())
}

// Fragmento con token pero sin user: se sintetiza el placeholder en vez de fallar.
func TestResolver_FragmentoSinUserUsaPlaceholder(t *testing.T) {
	r, _ := newTestResolver(t)

	res, ok := r.Resolve("https://consola.example.com/app#token=abc123")
	require.True(t, ok)
	assert.Equal(t, "unknown", res.User.ID)
	assert.Equal(t, entity.RoleUsuario, res.User.Role)
}

// User ilegible en el fragmento: mismo placeholder, el token no se pierde.
func TestResolver_FragmentoUserCorruptoUsaPlaceholder(t *testing.T) {
	r, _ := newTestResolver(t)

	res, ok := r.Resolve("https://consola.example.com/app#token=abc123&user=no-json")
	require.True(t, ok)
	assert.Equal(t, "abc123", res.Token)
	assert.Equal(t, "unknown", res.User.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Origen 2: query string
// ──────────────────────────────────────────────────────────────────────────────

// Las claves alternativas de token y user se aceptan.
func TestResolver_QueryVariantesDeClaves(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"token+user", `/auth/callback?token=tok-q&user={"id":"7","role":"Usuario"}`},
		{"accessToken+usuario", `/auth/callback?accessToken=tok-q&usuario={"id":"7","role":"Usuario"}`},
		{"jwt+data", `/auth/callback?jwt=tok-q&data={"user":{"id":"7","role":"Usuario"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestResolver(t)
			res, ok := r.Resolve(tc.raw)
			require.True(t, ok)
			assert.Equal(t, SourceQuery, res.Source)
			assert.Equal(t, "tok-q", res.Token)
			assert.Equal(t, "7", res.User.ID)
		})
	}
}

// Token con forma JWT y sin user: el usuario se sintetiza de los claims,
// aceptando los nombres en español.
func TestResolver_QueryTokenJWTSinUserSintetiza(t *testing.T) {
	r, _ := newTestResolver(t)
	tok := signedJWT(t, jwt.MapClaims{
		"sub":    "42",
		"correo": "xavi@example.com",
		"nombre": "Xavi",
		"rol":    "Administrador",
	})

	res, ok := r.Resolve("/auth/callback?token=" + tok)
	require.True(t, ok)
	assert.Equal(t, "42", res.User.ID)
	assert.Equal(t, "xavi@example.com", res.User.Email)
	assert.Equal(t, "Xavi", res.User.Name)
	assert.Equal(t, entity.RoleAdministrador, res.User.Role)
}

// Token opaco (sin forma JWT) y sin user: este origen no produce resultado y
// se cae al siguiente (el store, vacío en este test).
func TestResolver_QueryTokenOpacoSinUserNoResuelve(t *testing.T) {
	r, _ := newTestResolver(t)

	_, ok := r.Resolve("/auth/callback?token=opaco-sin-puntos")
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Origen 3: TokenStore y prioridad entre orígenes
// ──────────────────────────────────────────────────────────────────────────────

func TestResolver_CaeAlStore(t *testing.T) {
	r, store := newTestResolver(t)
	user := entity.User{ID: "u-5", Role: entity.RoleUsuario}
	require.NoError(t, store.Store("tok-guardado", user, time.Hour))

	res, ok := r.Resolve("/transacciones")
	require.True(t, ok)
	assert.Equal(t, SourceStore, res.Source)
	assert.Equal(t, "tok-guardado", res.Token)
	assert.Equal(t, "u-5", res.User.ID)
}

// El fragmento gana sobre el query y sobre el store.
func TestResolver_PrioridadFragmentoPrimero(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.Store("tok-viejo", entity.User{ID: "viejo"}, time.Hour))

	res, ok := r.Resolve(`/app?token=tok-query&user={"id":"q"}#token=tok-frag`)
	require.True(t, ok)
	assert.Equal(t, SourceFragment, res.Source)
	assert.Equal(t, "tok-frag", res.Token)
}

func TestResolver_SinNingunOrigen(t *testing.T) {
	r, _ := newTestResolver(t)
	_, ok := r.Resolve("/transacciones")
	assert.False(t, ok)
}
