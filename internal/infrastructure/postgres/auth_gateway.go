package postgres

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

var _ gateway.AuthGateway = (*AuthGW)(nil)

const (
	tokenChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength = 64
)

// AuthGW autenticación con tokens opacos persistidos en la tabla sessions.
// Un token revocado en logout deja de validar de inmediato, algo que un token
// firmado sin estado no puede ofrecer.
type AuthGW struct {
	q           Querier
	sessionDays int
	adminUser   string
	adminPass   string
	log         *logger.Logger
}

// NewAuthGateway construye el adaptador. adminPass vacío desactiva la siembra
// del usuario administrador.
func NewAuthGateway(q Querier, sessionDays int, adminUser, adminPass string, log *logger.Logger) *AuthGW {
	if sessionDays <= 0 {
		sessionDays = 7
	}
	return &AuthGW{q: q, sessionDays: sessionDays, adminUser: adminUser, adminPass: adminPass, log: log}
}

const userColumns = `id, username, password_hash, display_name, role, created_at, last_login`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Role, &u.CreatedAt, &u.LastLogin); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login verifica credenciales y crea una sesión nueva. (nil, "", nil) para
// credenciales incorrectas; el motivo exacto no se distingue hacia afuera.
func (r *AuthGW) Login(ctx context.Context, username, password string) (*entity.User, string, error) {
	user, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", nil
	}

	token, err := newToken()
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	sess := entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.AddDate(0, 0, r.sessionDays),
		CreatedAt: now,
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.UserID, sess.Token, sess.ExpiresAt, sess.CreatedAt,
	)
	if err != nil {
		return nil, "", fmt.Errorf("insert session: %w", err)
	}
	if _, err := r.q.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, user.ID, now); err != nil {
		r.log.Warn().Err(err).Msg("actualización de last_login falló")
	}
	user.LastLogin = &now
	return user, sess.Token, nil
}

// ValidateSession resuelve el usuario de un token vigente. (nil, nil) para
// token inválido o expirado.
func (r *AuthGW) ValidateSession(ctx context.Context, token string) (*entity.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, `
		SELECT u.id, u.username, u.password_hash, u.display_name, u.role, u.created_at, u.last_login
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at >= now()`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("validate session: %w", err)
	}
	return user, nil
}

// Logout revoca la sesión. Revocar un token inexistente no es un error.
func (r *AuthGW) Logout(ctx context.Context, token string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// EnsureDefaultAdmin siembra el usuario administrador si no existe.
func (r *AuthGW) EnsureDefaultAdmin(ctx context.Context) error {
	if r.adminPass == "" {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, r.adminUser).Scan(&exists); err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.adminPass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, display_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), r.adminUser, string(hash), "Amministratore", entity.RoleAdmin, time.Now().UTC(),
	)
	if err != nil {
		if isRejection(err) {
			// carrera con otra instancia sembrando a la vez
			return nil
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	r.log.Info().Str("username", r.adminUser).Msg("usuario administrador sembrado")
	return nil
}

// CleanExpiredSessions elimina sesiones vencidas (mantenimiento periódico).
func (r *AuthGW) CleanExpiredSessions(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`); err != nil {
		return fmt.Errorf("clean sessions: %w", err)
	}
	return nil
}

// newToken genera un token opaco de 64 caracteres alfanuméricos.
func newToken() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generar token: %w", err)
		}
		buf[i] = tokenChars[n.Int64()]
	}
	return string(buf), nil
}
