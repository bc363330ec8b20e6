package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

const recentProductsLimit = 10

// DashboardUseCase agregados del tablero derivados de la caché de entidades.
// Derivaciones puras: se recalculan en cada lectura, nunca se memorizan, y no
// tocan el gateway (la caché ya es el espejo del remoto).
type DashboardUseCase struct {
	cache *cache.Cache
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(c *cache.Cache) *DashboardUseCase {
	return &DashboardUseCase{cache: c}
}

// Stats totales, valores de inventario y alertas de stock.
func (uc *DashboardUseCase) Stats() dto.DashboardStats {
	products := uc.cache.Products()

	purchase := decimal.Zero
	sale := decimal.Zero
	lowStock := 0
	outOfStock := 0
	for _, p := range products {
		qty := decimal.NewFromInt(int64(p.Quantity))
		purchase = purchase.Add(p.PurchasePrice.Mul(qty))
		sale = sale.Add(p.SalePrice.Mul(qty))
		if p.OutOfStock() {
			outOfStock++
		} else if p.LowStock() {
			lowStock++
		}
	}

	recent := append([]entity.Product(nil), products...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > recentProductsLimit {
		recent = recent[:recentProductsLimit]
	}

	return dto.DashboardStats{
		TotalProducts:      len(products),
		TotalCategories:    len(uc.cache.Categories()),
		TotalSubcategories: len(uc.cache.Subcategories()),
		TotalPurchaseValue: purchase,
		TotalSaleValue:     sale,
		LowStockProducts:   lowStock,
		OutOfStockProducts: outOfStock,
		RecentProducts:     recent,
	}
}

// StockAlerts productos agotados o por debajo del mínimo, peor primero.
func (uc *DashboardUseCase) StockAlerts() []entity.Product {
	var out []entity.Product
	for _, p := range uc.cache.Products() {
		if p.OutOfStock() || p.LowStock() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out
}

// TopProducts productos con existencias, por precio de venta descendente.
func (uc *DashboardUseCase) TopProducts(limit int) []entity.Product {
	if limit <= 0 {
		limit = 5
	}
	var out []entity.Product
	for _, p := range uc.cache.Products() {
		if p.Quantity > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SalePrice.GreaterThan(out[j].SalePrice)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryStats conteo y valor de venta por categoría; omite categorías sin productos.
func (uc *DashboardUseCase) CategoryStats() []dto.CategoryStat {
	products := uc.cache.Products()
	var out []dto.CategoryStat
	for _, cat := range uc.cache.Categories() {
		count := 0
		value := decimal.Zero
		for _, p := range products {
			if p.CategoryID != cat.ID {
				continue
			}
			count++
			value = value.Add(p.SalePrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
		}
		if count == 0 {
			continue
		}
		out = append(out, dto.CategoryStat{
			Name:  cat.Name,
			Color: cat.Color,
			Count: count,
			Value: value,
		})
	}
	return out
}
