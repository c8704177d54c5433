package entity

import "time"

// Session sobre persistido de la sesión: token, usuario y expiración absoluta
// en epoch millis. Si now > ExpiresAt el registro se trata como ausente.
type Session struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Expired indica si la sesión ya venció respecto a now.
func (s Session) Expired(now time.Time) bool {
	return now.UnixMilli() > s.ExpiresAt
}
