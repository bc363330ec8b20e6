package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmanager/internal/application/analytics"
)

// DashboardHandler agregados del tablero, derivados de la caché en cada lectura.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Stats totales, valores de inventario y alertas.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.uc.Stats())
}

// StockAlerts productos agotados o bajo mínimo.
func (h *DashboardHandler) StockAlerts(c *fiber.Ctx) error {
	return c.JSON(h.uc.StockAlerts())
}

// TopProducts productos con existencias por precio de venta descendente.
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	return c.JSON(h.uc.TopProducts(c.QueryInt("limit", 5)))
}

// CategoryStats conteo y valor por categoría.
func (h *DashboardHandler) CategoryStats(c *fiber.Ctx) error {
	return c.JSON(h.uc.CategoryStats())
}
