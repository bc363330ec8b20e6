package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

// DashboardStats agregados del inventario derivados de la caché.
type DashboardStats struct {
	TotalProducts      int              `json:"total_products"`
	TotalCategories    int              `json:"total_categories"`
	TotalSubcategories int              `json:"total_subcategories"`
	TotalPurchaseValue decimal.Decimal  `json:"total_purchase_value"`
	TotalSaleValue     decimal.Decimal  `json:"total_sale_value"`
	LowStockProducts   int              `json:"low_stock_products"`
	OutOfStockProducts int              `json:"out_of_stock_products"`
	RecentProducts     []entity.Product `json:"recent_products"`
}

// CategoryStat conteo y valor de venta por categoría (solo categorías con productos).
type CategoryStat struct {
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}
