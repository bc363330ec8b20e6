package dto

import "github.com/shopspring/decimal"

// CreateProductRequest datos para crear un producto.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Barcode       string          `json:"barcode,omitempty"`
	Quantity      int             `json:"quantity"`
	MinQuantity   int             `json:"min_quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CategoryID    string          `json:"category_id"`
	SubcategoryID string          `json:"subcategory_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
}

// UpdateProductRequest actualización parcial: los campos nil no se tocan.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	Quantity      *int             `json:"quantity,omitempty"`
	MinQuantity   *int             `json:"min_quantity,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	SubcategoryID *string          `json:"subcategory_id,omitempty"`
	Description   *string          `json:"description,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
}

// AdjustQuantityRequest ajuste directo de existencias.
type AdjustQuantityRequest struct {
	Quantity int `json:"quantity"`
}
