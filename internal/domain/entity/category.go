package entity

import "time"

// Category representa una categoría de productos. Color e Icon son metadatos de
// presentación que viajan con el registro (paleta fija o string libre).
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
