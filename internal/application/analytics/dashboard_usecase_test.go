package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/application/analytics"
	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

func cargarInventario(t *testing.T) *cache.Cache {
	t.Helper()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := cache.New()
	c.SetCategories([]entity.Category{
		{ID: "c1", Name: "Bebidas", Color: "#38bdf8"},
		{ID: "c2", Name: "Limpieza", Color: "#a3e635"},
		{ID: "c3", Name: "Vacía"},
	})
	c.SetSubcategories([]entity.Subcategory{{ID: "s1", Name: "Zumos", CategoryID: "c1"}})
	c.SetProducts([]entity.Product{
		{
			ID: "p1", Name: "Zumo", CategoryID: "c1",
			Quantity: 10, MinQuantity: 2,
			PurchasePrice: decimal.NewFromFloat(0.80), SalePrice: decimal.NewFromFloat(1.50),
			UpdatedAt: base.Add(3 * time.Hour),
		},
		{
			ID: "p2", Name: "Detersivo", CategoryID: "c2",
			Quantity: 1, MinQuantity: 3, // bajo mínimo
			PurchasePrice: decimal.NewFromFloat(4.00), SalePrice: decimal.NewFromFloat(7.50),
			UpdatedAt: base.Add(2 * time.Hour),
		},
		{
			ID: "p3", Name: "Agua", CategoryID: "c1",
			Quantity: 0, MinQuantity: 5, // agotado
			PurchasePrice: decimal.NewFromFloat(0.20), SalePrice: decimal.NewFromFloat(0.50),
			UpdatedAt: base.Add(time.Hour),
		},
	})
	return c
}

func TestDashboardStats(t *testing.T) {
	uc := analytics.NewDashboardUseCase(cargarInventario(t))

	got := uc.Stats()
	assert.Equal(t, 3, got.TotalProducts)
	assert.Equal(t, 3, got.TotalCategories)
	assert.Equal(t, 1, got.TotalSubcategories)
	assert.Equal(t, 1, got.LowStockProducts, "bajo mínimo pero con existencias")
	assert.Equal(t, 1, got.OutOfStockProducts)

	// 10*0.80 + 1*4.00 + 0*0.20 = 12.00
	assert.True(t, got.TotalPurchaseValue.Equal(decimal.NewFromFloat(12.00)), "valor de compra: %s", got.TotalPurchaseValue)
	// 10*1.50 + 1*7.50 = 22.50
	assert.True(t, got.TotalSaleValue.Equal(decimal.NewFromFloat(22.50)), "valor de venta: %s", got.TotalSaleValue)

	require.Len(t, got.RecentProducts, 3)
	assert.Equal(t, "p1", got.RecentProducts[0].ID, "más reciente primero")
}

func TestDashboardStockAlerts(t *testing.T) {
	uc := analytics.NewDashboardUseCase(cargarInventario(t))

	got := uc.StockAlerts()
	require.Len(t, got, 2)
	assert.Equal(t, "p3", got[0].ID, "el agotado va primero")
	assert.Equal(t, "p2", got[1].ID)
}

func TestDashboardTopProducts(t *testing.T) {
	uc := analytics.NewDashboardUseCase(cargarInventario(t))

	got := uc.TopProducts(2)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID, "precio de venta más alto primero")
	assert.Equal(t, "p1", got[1].ID)
}

// Las categorías sin productos no aparecen en las estadísticas.
func TestDashboardCategoryStats(t *testing.T) {
	uc := analytics.NewDashboardUseCase(cargarInventario(t))

	got := uc.CategoryStats()
	require.Len(t, got, 2)
	assert.Equal(t, "Bebidas", got[0].Name)
	assert.Equal(t, 2, got[0].Count)
	// 10*1.50 + 0*0.50 = 15.00
	assert.True(t, got[0].Value.Equal(decimal.NewFromFloat(15.00)))
	assert.Equal(t, "Limpieza", got[1].Name)
}
