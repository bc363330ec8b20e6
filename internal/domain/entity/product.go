package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Quantity y MinQuantity nunca
// son negativos (validado en la capa de escritura, no en la caché). Category y
// Subcategory son relaciones denormalizadas de solo lectura que el gateway
// adjunta al leer.
type Product struct {
	ID            string          `json:"id"`
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
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Category    *Category    `json:"category,omitempty"`
	Subcategory *Subcategory `json:"subcategory,omitempty"`
}

// OutOfStock indica existencias en cero.
func (p Product) OutOfStock() bool {
	return p.Quantity == 0
}

// LowStock indica existencias por debajo o en el mínimo configurado (sin llegar a cero).
func (p Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity <= p.MinQuantity
}
