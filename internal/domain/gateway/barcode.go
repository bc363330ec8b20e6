package gateway

import "context"

// ProductInfo datos de prellenado devueltos por la búsqueda externa de códigos
// de barras. Todos los campos son opcionales.
type ProductInfo struct {
	Name        string `json:"name,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Category    string `json:"category,omitempty"`
}

// BarcodeLookup puerto de enriquecimiento por código de barras (best-effort).
// Cualquier fallo de red o ausencia de coincidencia se devuelve como (nil, nil).
type BarcodeLookup interface {
	Lookup(ctx context.Context, code string) (*ProductInfo, error)
}
