package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

func newTestContext(t *testing.T) (*Context, *TokenStore) {
	t.Helper()
	store := NewTokenStore(NewMemoryStorage(), logger.Nop())
	return NewContext(store, logger.Nop()), store
}

// Estado inicial sin sesión: todos los derivados en falso.
func TestContext_EstadoInicialVacio(t *testing.T) {
	ctx, _ := newTestContext(t)
	st := ctx.Current()
	assert.False(t, st.IsAuthenticated)
	assert.False(t, st.IsAdmin)
	assert.Empty(t, st.Token)
}

// Login actualiza el store y el estado de forma síncrona.
func TestContext_LoginActualizaEstado(t *testing.T) {
	ctx, store := newTestContext(t)
	admin := entity.User{ID: "u-1", Email: "root@example.com", Role: entity.RoleAdministrador}

	require.NoError(t, ctx.Login("tok-1", admin, time.Hour))

	st := ctx.Current()
	assert.True(t, st.IsAuthenticated)
	assert.True(t, st.IsAdmin)
	assert.Equal(t, "tok-1", st.Token)
	assert.Equal(t, "tok-1", store.GetToken())
}

// IsAdmin exige el literal exacto "Administrador": variantes de mayúsculas u
// otros roles no otorgan privilegio.
func TestContext_IsAdminLiteralExacto(t *testing.T) {
	cases := []struct {
		role  entity.Role
		admin bool
	}{
		{entity.RoleAdministrador, true},
		{entity.RoleUsuario, false},
		{entity.Role("administrador"), false},
		{entity.Role("ADMINISTRADOR"), false},
		{entity.Role("Admin"), false},
		{entity.Role(""), false},
	}
	for _, tc := range cases {
		ctx, _ := newTestContext(t)
		require.NoError(t, ctx.Login("tok", entity.User{ID: "u", Role: tc.role}, time.Hour))
		assert.Equal(t, tc.admin, ctx.Current().IsAdmin, "rol %q", tc.role)
	}
}

// Logout limpia store y estado, pero no navega (eso es del caller).
func TestContext_LogoutAnulaEstado(t *testing.T) {
	ctx, store := newTestContext(t)
	require.NoError(t, ctx.Login("tok-1", entity.User{ID: "u-1", Role: entity.RoleUsuario}, time.Hour))

	ctx.Logout()

	st := ctx.Current()
	assert.False(t, st.IsAuthenticated)
	assert.Empty(t, store.GetToken())
}

// RefreshAuth relee una mutación hecha por fuera del contexto (por ejemplo,
// el resolver persistiendo un token llegado por URL).
func TestContext_RefreshAuthTomaMutacionExterna(t *testing.T) {
	ctx, store := newTestContext(t)
	require.NoError(t, store.Store("tok-externo", entity.User{ID: "u-9", Role: entity.RoleUsuario}, time.Hour))

	assert.False(t, ctx.Current().IsAuthenticated) // espejo desfasado
	ctx.RefreshAuth()
	st := ctx.Current()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "tok-externo", st.Token)
}

// ForceLogout limpia la sesión y notifica a los suscriptores de expiración.
func TestContext_ForceLogoutNotifica(t *testing.T) {
	ctx, store := newTestContext(t)
	require.NoError(t, ctx.Login("tok-1", entity.User{ID: "u-1", Role: entity.RoleUsuario}, time.Hour))

	var notified []State
	ctx.OnExpired(func(st State) { notified = append(notified, st) })

	ctx.ForceLogout("backend respondió 401")

	require.Len(t, notified, 1)
	assert.False(t, notified[0].IsAuthenticated)
	assert.Empty(t, store.GetToken())
	assert.False(t, ctx.Current().IsAuthenticated)
}

// OnChange se dispara en cada transición de estado.
func TestContext_OnChangeSeDispara(t *testing.T) {
	ctx, _ := newTestContext(t)
	var events int
	ctx.OnChange(func(State) { events++ })

	require.NoError(t, ctx.Login("tok", entity.User{ID: "u", Role: entity.RoleUsuario}, time.Hour))
	ctx.Logout()

	assert.Equal(t, 2, events)
}
