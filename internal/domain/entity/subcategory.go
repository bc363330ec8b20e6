package entity

import "time"

// Subcategory pertenece siempre a exactamente una Category (sin huérfanas).
// Category es la relación denormalizada que el gateway adjunta al leer; las
// notificaciones realtime llegan sin ella y obligan a re-consultar.
type Subcategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CategoryID  string    `json:"category_id"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Category `json:"category,omitempty"`
}
