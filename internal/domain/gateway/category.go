package gateway

import (
	"context"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

// CategoryFields campos para crear una categoría.
type CategoryFields struct {
	Name        string
	Description string
	Color       string
	Icon        string
}

// CategoryPatch campos opcionales para actualización parcial.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
}

// CategoryGateway puerto de datos remotos para Category. Delete devuelve
// (false, nil) si existen productos que referencian la categoría (guardia de
// integridad referencial); en caso contrario elimina en cascada sus
// subcategorías no referenciadas antes de eliminar la categoría.
type CategoryGateway interface {
	FetchAll(ctx context.Context) ([]entity.Category, error)
	FetchOne(ctx context.Context, id string) (*entity.Category, error)
	Create(ctx context.Context, in CategoryFields) (*entity.Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*entity.Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}
