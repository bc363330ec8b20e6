package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/application/session"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// AuthHandler maneja login, logout y el estado del gate de sesión.
type AuthHandler struct {
	gate *session.Gate
	auth gateway.AuthGateway
}

// NewAuthHandler construye el handler.
func NewAuthHandler(gate *session.Gate, auth gateway.AuthGateway) *AuthHandler {
	return &AuthHandler{gate: gate, auth: auth}
}

// Login autentica y monta la sesión: carga inicial de colecciones y apertura
// del feed realtime. Devuelve el token opaco a usar como Bearer.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}
	user, token, err := h.gate.Login(c.UserContext(), in.Username, in.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LoginResponse{Token: token, User: *user})
}

// Logout revoca la sesión del Bearer y desmonta el estado autenticado.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := bearerToken(c); token != "" {
		_ = h.auth.Logout(c.UserContext(), token)
	}
	h.gate.Logout(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Me devuelve el usuario autenticado.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(GetUser(c))
}

// Session devuelve el estado del gate y la redirección que corresponde a la
// vista actual (query param view), "" si la vista ya es coherente.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	state := h.gate.State()
	return c.JSON(fiber.Map{
		"state":    state.String(),
		"redirect": session.RedirectFor(state, c.Query("view")),
	})
}
