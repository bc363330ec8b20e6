package entity

import "time"

// Session token opaco de sesión persistido en el remoto. Revocable en logout,
// a diferencia de un token firmado sin estado.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired indica si la sesión ya venció.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
