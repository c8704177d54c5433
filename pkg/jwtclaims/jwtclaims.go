package jwtclaims

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeUnverified decodifica el payload de un token con forma JWT
// (header.payload.signature) SIN validar la firma. La consola no conoce el
// secreto del servicio de auth; solo necesita leer los claims para sintetizar
// una identidad de presentación. La autorización real la decide el backend.
func DecodeUnverified(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("jwtclaims: token sin forma JWT: %w", err)
	}
	return claims, nil
}

// FirstString devuelve el primer claim string no vacío entre los nombres
// dados. El servicio de auth emite claims con nombres en inglés o español
// según la versión (id/sub, email/correo, name/nombre, role/rol).
func FirstString(claims jwt.MapClaims, names ...string) string {
	for _, n := range names {
		if v, ok := claims[n]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
			// Algunos emisores serializan el id como número.
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f", f)
			}
		}
	}
	return ""
}
