package usecase

import (
	"context"

	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// CategoryUseCase escrituras de categorías despachadas al gateway.
type CategoryUseCase struct {
	gw gateway.CategoryGateway
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(gw gateway.CategoryGateway) *CategoryUseCase {
	return &CategoryUseCase{gw: gw}
}

// Create valida y despacha la creación.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*entity.Category, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.gw.Create(ctx, gateway.CategoryFields{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrRejected
	}
	return c, nil
}

// Update despacha la actualización parcial.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*entity.Category, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != nil && *in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.gw.Update(ctx, id, gateway.CategoryPatch{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrRejected
	}
	return c, nil
}

// Delete despacha la eliminación. ErrConflict cuando el gateway rehúsa por
// integridad referencial: la reasignación de productos es una acción del
// usuario, nunca una cascada automática.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
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
