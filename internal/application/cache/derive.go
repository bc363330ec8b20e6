package cache

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

// Claves de ordenamiento admitidas por FilterAndSort.
const (
	SortByName      = "name"
	SortByBrand     = "brand"
	SortByQuantity  = "quantity"
	SortByPrice     = "price" // precio de venta
	SortByCreatedAt = "created_at"
)

// Criteria filtros y ordenamiento para la vista de productos. Search aplica
// subcadena sin distinción de mayúsculas sobre nombre, marca y código de
// barras; CategoryID/SubcategoryID son coincidencia exacta; Brand es
// subcadena. Los punteros nil desactivan el filtro correspondiente.
type Criteria struct {
	Search        string
	CategoryID    string
	SubcategoryID string
	Brand         string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	MinQuantity   *int
	MaxQuantity   *int
	SortBy        string // name | brand | quantity | price | created_at
	Order         string // asc | desc; por defecto created_at desc
}

var folder = cases.Fold()

// FilterAndSort aplica los criterios sobre una copia de la lista. Derivación
// pura: no toca la caché ni memoriza resultados. El orden es estable (empates
// conservan el orden relativo previo).
func FilterAndSort(products []entity.Product, cr Criteria) []entity.Product {
	out := make([]entity.Product, 0, len(products))
	search := folder.String(cr.Search)
	brand := folder.String(cr.Brand)
	for _, p := range products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if cr.CategoryID != "" && p.CategoryID != cr.CategoryID {
			continue
		}
		if cr.SubcategoryID != "" && p.SubcategoryID != cr.SubcategoryID {
			continue
		}
		if brand != "" && !strings.Contains(folder.String(p.Brand), brand) {
			continue
		}
		if cr.MinPrice != nil && p.SalePrice.LessThan(*cr.MinPrice) {
			continue
		}
		if cr.MaxPrice != nil && p.SalePrice.GreaterThan(*cr.MaxPrice) {
			continue
		}
		if cr.MinQuantity != nil && p.Quantity < *cr.MinQuantity {
			continue
		}
		if cr.MaxQuantity != nil && p.Quantity > *cr.MaxQuantity {
			continue
		}
		out = append(out, p)
	}

	sortBy := cr.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	asc := cr.Order == "asc"
	if cr.Order == "" {
		// created_at por defecto descendente (más reciente primero)
		asc = sortBy != SortByCreatedAt
	}

	sort.SliceStable(out, func(i, j int) bool {
		less := productLess(out[i], out[j], sortBy)
		if asc {
			return less
		}
		return productLess(out[j], out[i], sortBy)
	})
	return out
}

func matchesSearch(p entity.Product, foldedQuery string) bool {
	return strings.Contains(folder.String(p.Name), foldedQuery) ||
		strings.Contains(folder.String(p.Brand), foldedQuery) ||
		strings.Contains(folder.String(p.Barcode), foldedQuery)
}

func productLess(a, b entity.Product, sortBy string) bool {
	switch sortBy {
	case SortByName:
		return nameLess(a.Name, b.Name)
	case SortByBrand:
		return nameLess(a.Brand, b.Brand)
	case SortByQuantity:
		return a.Quantity < b.Quantity
	case SortByPrice:
		return a.SalePrice.LessThan(b.SalePrice)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
