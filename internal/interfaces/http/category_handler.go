package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/application/usecase"
)

// CategoryHandler categorías y subcategorías: lecturas desde la caché,
// escrituras vía casos de uso.
type CategoryHandler struct {
	cache *cache.Cache
	catUC *usecase.CategoryUseCase
	subUC *usecase.SubcategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(c *cache.Cache, catUC *usecase.CategoryUseCase, subUC *usecase.SubcategoryUseCase) *CategoryHandler {
	return &CategoryHandler{cache: c, catUC: catUC, subUC: subUC}
}

// List devuelve las categorías con sus conteos derivados.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats := h.cache.Categories()
	out := make([]dto.CategoryWithCounts, 0, len(cats))
	for _, cat := range cats {
		out = append(out, dto.CategoryWithCounts{
			Category:         cat,
			ProductCount:     h.cache.ProductCountOfCategory(cat.ID),
			SubcategoryCount: len(h.cache.SubcategoriesOf(cat.ID)),
		})
	}
	return c.JSON(out)
}

// GetByID busca en la caché.
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	cat, ok := h.cache.Category(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "categoría no encontrada"})
	}
	return c.JSON(cat)
}

// Create despacha el alta.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.catUC.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update despacha la actualización parcial.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.catUC.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete despacha la eliminación. 409 con mensaje propio si hay productos
// asociados: reasignarlos es decisión del usuario, no una cascada.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.catUC.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Subcategories devuelve las subcategorías de una categoría.
func (h *CategoryHandler) Subcategories(c *fiber.Ctx) error {
	return c.JSON(h.cache.SubcategoriesOf(c.Params("id")))
}

// ListSubcategories devuelve todas las subcategorías.
func (h *CategoryHandler) ListSubcategories(c *fiber.Ctx) error {
	return c.JSON(h.cache.Subcategories())
}

// CreateSubcategory despacha el alta de una subcategoría.
func (h *CategoryHandler) CreateSubcategory(c *fiber.Ctx) error {
	var in dto.CreateSubcategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.subUC.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSubcategory despacha la actualización parcial.
func (h *CategoryHandler) UpdateSubcategory(c *fiber.Ctx) error {
	var in dto.UpdateSubcategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.subUC.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteSubcategory despacha la eliminación.
func (h *CategoryHandler) DeleteSubcategory(c *fiber.Ctx) error {
	if err := h.subUC.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
