package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmanager/internal/application/analytics"
	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/application/session"
	"github.com/jhoicas/stockmanager/internal/application/usecase"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gate        *session.Gate
	Auth        gateway.AuthGateway
	Cache       *cache.Cache
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	SubcatUC    *usecase.SubcategoryUseCase
	ScanUC      *usecase.ScanUseCase
	DashboardUC *analytics.DashboardUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login y estado del gate son públicos)
	authHandler := NewAuthHandler(deps.Gate, deps.Auth)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", authHandler.Session)

	// Rutas protegidas (requieren Bearer opaco vigente)
	protected := api.Group("/", AuthMiddleware(deps.Auth))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Cache, deps.ProductUC, deps.ScanUC)
	products.Get("/", productHandler.List)
	products.Get("/brands", productHandler.Brands)
	products.Get("/scan/:code", productHandler.Scan)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", productHandler.Create)
	products.Put("/:id", productHandler.Update)
	products.Put("/:id/quantity", productHandler.AdjustQuantity)
	products.Delete("/:id", productHandler.Delete)

	// Categories y subcategories (protegido)
	categoryHandler := NewCategoryHandler(deps.Cache, deps.CategoryUC, deps.SubcatUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Get("/:id/subcategories", categoryHandler.Subcategories)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	subcategories := protected.Group("/subcategories")
	subcategories.Get("/", categoryHandler.ListSubcategories)
	subcategories.Post("/", categoryHandler.CreateSubcategory)
	subcategories.Put("/:id", categoryHandler.UpdateSubcategory)
	subcategories.Delete("/:id", categoryHandler.DeleteSubcategory)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.Stats)
	dashboard.Get("/alerts", dashboardHandler.StockAlerts)
	dashboard.Get("/top-products", dashboardHandler.TopProducts)
	dashboard.Get("/category-stats", dashboardHandler.CategoryStats)
}
