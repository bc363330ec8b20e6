package dto

import "github.com/jhoicas/stockmanager/internal/domain/entity"

// CreateCategoryRequest datos para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// UpdateCategoryRequest actualización parcial.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// CategoryWithCounts categoría con sus conteos derivados de la caché.
type CategoryWithCounts struct {
	entity.Category
	ProductCount     int `json:"product_count"`
	SubcategoryCount int `json:"subcategory_count"`
}

// CreateSubcategoryRequest datos para crear una subcategoría.
type CreateSubcategoryRequest struct {
	Name        string `json:"name"`
	CategoryID  string `json:"category_id"`
	Description string `json:"description,omitempty"`
}

// UpdateSubcategoryRequest actualización parcial.
type UpdateSubcategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	Description *string `json:"description,omitempty"`
}
