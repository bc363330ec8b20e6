package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

// ScanUseCase resuelve un código de barras escaneado: primero contra el
// inventario propio, luego contra la base externa de productos para prellenar
// el alta. La búsqueda externa es best-effort: sus fallos se tragan y se
// tratan como "sin coincidencia".
type ScanUseCase struct {
	products gateway.ProductGateway
	lookup   gateway.BarcodeLookup
	log      *logger.Logger
}

// NewScanUseCase construye el caso de uso.
func NewScanUseCase(products gateway.ProductGateway, lookup gateway.BarcodeLookup, log *logger.Logger) *ScanUseCase {
	return &ScanUseCase{products: products, lookup: lookup, log: log}
}

// Scan normaliza el código y consulta ambas fuentes.
func (uc *ScanUseCase) Scan(ctx context.Context, code string) (*dto.ScanResult, error) {
	normalized, err := NormalizeBarcode(code)
	if err != nil {
		return nil, err
	}

	out := &dto.ScanResult{}

	existing, err := uc.products.FetchByBarcode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	out.Existing = existing

	info, err := uc.lookup.Lookup(ctx, normalized)
	if err != nil {
		uc.log.Debug().Err(err).Str("barcode", normalized).Msg("búsqueda externa falló, se trata como sin coincidencia")
	} else {
		out.Info = info
	}
	return out, nil
}

// NormalizeBarcode quita separadores y valida la longitud: EAN-8, UPC-A,
// EAN-13 o GTIN-14 (8/12/13/14 dígitos).
func NormalizeBarcode(code string) (string, error) {
	var b strings.Builder
	for _, r := range code {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
			// separadores admitidos
		default:
			return "", domain.ErrInvalidInput
		}
	}
	n := b.Len()
	if n != 8 && n != 12 && n != 13 && n != 14 {
		return "", domain.ErrInvalidInput
	}
	return b.String(), nil
}
