package gateway

import (
	"context"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

// AuthGateway puerto de autenticación y sesiones. Los tokens son opacos y
// revocables: ValidateSession devuelve (nil, nil) para token inválido o
// expirado, y Login devuelve (nil, "", nil) para credenciales incorrectas.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (*entity.User, string, error)
	ValidateSession(ctx context.Context, token string) (*entity.User, error)
	Logout(ctx context.Context, token string) error
	EnsureDefaultAdmin(ctx context.Context) error
	CleanExpiredSessions(ctx context.Context) error
}
