package gateway

import (
	"context"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

// SubcategoryFields campos para crear una subcategoría.
type SubcategoryFields struct {
	Name        string
	CategoryID  string
	Description string
}

// SubcategoryPatch campos opcionales para actualización parcial.
type SubcategoryPatch struct {
	Name        *string
	CategoryID  *string
	Description *string
}

// SubcategoryGateway puerto de datos remotos para Subcategory. Las lecturas
// devuelven la relación Category poblada. Delete devuelve (false, nil) si hay
// productos que la referencian.
type SubcategoryGateway interface {
	FetchAll(ctx context.Context) ([]entity.Subcategory, error)
	FetchOne(ctx context.Context, id string) (*entity.Subcategory, error)
	FetchByCategory(ctx context.Context, categoryID string) ([]entity.Subcategory, error)
	Create(ctx context.Context, in SubcategoryFields) (*entity.Subcategory, error)
	Update(ctx context.Context, id string, patch SubcategoryPatch) (*entity.Subcategory, error)
	Delete(ctx context.Context, id string) (bool, error)
}
