package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/application/usecase"
)

// ProductHandler lecturas desde la caché, escrituras vía caso de uso. Las
// lecturas nunca tocan el remoto: la caché es el espejo que el feed mantiene.
type ProductHandler struct {
	cache *cache.Cache
	uc    *usecase.ProductUseCase
	scan  *usecase.ScanUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(c *cache.Cache, uc *usecase.ProductUseCase, scan *usecase.ScanUseCase) *ProductHandler {
	return &ProductHandler{cache: c, uc: uc, scan: scan}
}

// List aplica filtros y ordenamiento sobre la colección cacheada.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	cr := cache.Criteria{
		Search:        c.Query("search"),
		CategoryID:    c.Query("category_id"),
		SubcategoryID: c.Query("subcategory_id"),
		Brand:         c.Query("brand"),
		SortBy:        c.Query("sort_by"),
		Order:         c.Query("order"),
	}
	var err error
	if cr.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "min_price inválido"})
	}
	if cr.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "max_price inválido"})
	}
	if cr.MinQuantity, err = queryInt(c, "min_quantity"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "min_quantity inválido"})
	}
	if cr.MaxQuantity, err = queryInt(c, "max_quantity"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "max_quantity inválido"})
	}
	return c.JSON(cache.FilterAndSort(h.cache.Products(), cr))
}

// GetByID busca en la caché.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, ok := h.cache.Product(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(p)
}

// Brands marcas únicas del inventario (para el filtro de la vista).
func (h *ProductHandler) Brands(c *fiber.Ctx) error {
	return c.JSON(h.cache.Brands())
}

// Create despacha el alta al remoto. El producto aparece en la caché cuando
// llega el eco por el feed; la respuesta trae la fila confirmada.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update despacha la actualización parcial.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdjustQuantity fija las existencias.
func (h *ProductHandler) AdjustQuantity(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AdjustQuantity(c.UserContext(), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete despacha la eliminación.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Scan resuelve un código de barras: producto propio más prellenado externo.
func (h *ProductHandler) Scan(c *fiber.Ctx) error {
	out, err := h.scan.Scan(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
