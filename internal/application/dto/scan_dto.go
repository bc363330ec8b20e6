package dto

import (
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// ScanResult resultado de escanear un código de barras: el producto ya
// registrado con ese código (si existe) y el prellenado de la búsqueda
// externa (si hubo coincidencia).
type ScanResult struct {
	Existing *entity.Product      `json:"existing,omitempty"`
	Info     *gateway.ProductInfo `json:"info,omitempty"`
}
