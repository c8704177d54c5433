package entity

// Role rol de un usuario de la consola. Conjunto cerrado: el chequeo de
// administrador es una comparación exacta contra RoleAdministrador.
type Role string

// Roles válidos para User.
const (
	RoleAdministrador Role = "Administrador"
	RoleUsuario       Role = "Usuario"
)

// User representa la identidad que entrega el servicio de autenticación.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// EsAdmin es verdadero solo si el rol es exactamente "Administrador".
// Variantes de mayúsculas u otros strings no otorgan privilegio.
func (u User) EsAdmin() bool {
	return u.Role == RoleAdministrador
}

// PlaceholderUser identidad sintética cuando llega un token sin datos de
// usuario. Satisface IsAuthenticated; el backend sigue siendo la autoridad
// en cada llamada.
func PlaceholderUser() User {
	return User{ID: "unknown", Role: RoleUsuario}
}
