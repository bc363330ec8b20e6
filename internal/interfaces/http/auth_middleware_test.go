package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
	apphttp "github.com/jhoicas/stockmanager/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testToken = "Wb3tGkQmPz81dXcRf5hJn2vLyAeKo7SuN4qTi9wBxE6gZjYsHrC0mDaOVpFlU1Mk"

// fakeAuth valida exactamente un token conocido.
type fakeAuth struct {
	user *entity.User
}

func (f *fakeAuth) Login(context.Context, string, string) (*entity.User, string, error) {
	return nil, "", nil
}

func (f *fakeAuth) ValidateSession(_ context.Context, token string) (*entity.User, error) {
	if token == testToken {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeAuth) Logout(context.Context, string) error       { return nil }
func (f *fakeAuth) EnsureDefaultAdmin(context.Context) error   { return nil }
func (f *fakeAuth) CleanExpiredSessions(context.Context) error { return nil }

// buildTestApp app Fiber mínima con una ruta protegida por el middleware.
func buildTestApp() *fiber.App {
	app := fiber.New()
	auth := &fakeAuth{user: &entity.User{ID: "u1", Username: "ana", Role: entity.RoleAdmin}}
	app.Get("/protected", apphttp.AuthMiddleware(auth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"username": apphttp.GetUser(c).Username})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Token vigente: pasa y el usuario queda disponible en el handler.
func TestAuthMiddleware_TokenVigentePasa(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "Bearer "+testToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Sin header: 401.
func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Formato incorrecto (sin esquema Bearer): 401.
func TestAuthMiddleware_FormatoIncorrecto(t *testing.T) {
	resp := doRequest(t, buildTestApp(), testToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Token desconocido o revocado: 401. A diferencia de un JWT firmado, el
// token opaco se valida contra el remoto en cada petición.
func TestAuthMiddleware_TokenRevocado(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "Bearer otro-token-cualquiera")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
