package usecase

import (
	"context"

	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// SubcategoryUseCase escrituras de subcategorías despachadas al gateway.
type SubcategoryUseCase struct {
	gw gateway.SubcategoryGateway
}

// NewSubcategoryUseCase construye el caso de uso.
func NewSubcategoryUseCase(gw gateway.SubcategoryGateway) *SubcategoryUseCase {
	return &SubcategoryUseCase{gw: gw}
}

// Create valida y despacha la creación. Toda subcategoría nace ligada a una
// categoría; el FK remoto rechaza categorías inexistentes.
func (uc *SubcategoryUseCase) Create(ctx context.Context, in dto.CreateSubcategoryRequest) (*entity.Subcategory, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.gw.Create(ctx, gateway.SubcategoryFields{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrRejected
	}
	return s, nil
}

// Update despacha la actualización parcial.
func (uc *SubcategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateSubcategoryRequest) (*entity.Subcategory, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != nil && *in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != nil && *in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.gw.Update(ctx, id, gateway.SubcategoryPatch{
		Name:        in.Name,
		CategoryID:  in.CategoryID,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrRejected
	}
	return s, nil
}

// Delete despacha la eliminación; ErrConflict si hay productos que la referencian.
func (uc *SubcategoryUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	ok, err := uc.gw.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}
