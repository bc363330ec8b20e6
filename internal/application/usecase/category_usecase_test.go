package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/application/usecase"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

type fakeCategoryGW struct {
	result   *entity.Category
	deleteOK bool
}

func (f *fakeCategoryGW) FetchAll(context.Context) ([]entity.Category, error) { return nil, nil }
func (f *fakeCategoryGW) FetchOne(context.Context, string) (*entity.Category, error) {
	return nil, nil
}
func (f *fakeCategoryGW) Create(context.Context, gateway.CategoryFields) (*entity.Category, error) {
	return f.result, nil
}
func (f *fakeCategoryGW) Update(context.Context, string, gateway.CategoryPatch) (*entity.Category, error) {
	return f.result, nil
}
func (f *fakeCategoryGW) Delete(context.Context, string) (bool, error) { return f.deleteOK, nil }

type fakeSubcategoryGW struct {
	result   *entity.Subcategory
	deleteOK bool
}

func (f *fakeSubcategoryGW) FetchAll(context.Context) ([]entity.Subcategory, error) {
	return nil, nil
}
func (f *fakeSubcategoryGW) FetchOne(context.Context, string) (*entity.Subcategory, error) {
	return nil, nil
}
func (f *fakeSubcategoryGW) FetchByCategory(context.Context, string) ([]entity.Subcategory, error) {
	return nil, nil
}
func (f *fakeSubcategoryGW) Create(context.Context, gateway.SubcategoryFields) (*entity.Subcategory, error) {
	return f.result, nil
}
func (f *fakeSubcategoryGW) Update(context.Context, string, gateway.SubcategoryPatch) (*entity.Subcategory, error) {
	return f.result, nil
}
func (f *fakeSubcategoryGW) Delete(context.Context, string) (bool, error) { return f.deleteOK, nil }

func TestCategoryCreate(t *testing.T) {
	uc := usecase.NewCategoryUseCase(&fakeCategoryGW{result: &entity.Category{ID: "c1"}})

	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el nombre es obligatorio")

	got, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
}

// El borrado con productos asociados es un conflicto, no una cascada: el
// gateway rehúsa con (false, nil) y el caso de uso lo traduce a ErrConflict.
func TestCategoryDelete_ConflictoReferencial(t *testing.T) {
	uc := usecase.NewCategoryUseCase(&fakeCategoryGW{deleteOK: false})
	assert.ErrorIs(t, uc.Delete(context.Background(), "c1"), domain.ErrConflict)

	uc = usecase.NewCategoryUseCase(&fakeCategoryGW{deleteOK: true})
	assert.NoError(t, uc.Delete(context.Background(), "c1"))
}

func TestSubcategoryCreate(t *testing.T) {
	uc := usecase.NewSubcategoryUseCase(&fakeSubcategoryGW{result: &entity.Subcategory{ID: "s1"}})

	// toda subcategoría nace ligada a una categoría
	_, err := uc.Create(context.Background(), dto.CreateSubcategoryRequest{Name: "Zumos"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.Create(context.Background(), dto.CreateSubcategoryRequest{Name: "Zumos", CategoryID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
}

func TestSubcategoryDelete_ConflictoReferencial(t *testing.T) {
	uc := usecase.NewSubcategoryUseCase(&fakeSubcategoryGW{deleteOK: false})
	assert.ErrorIs(t, uc.Delete(context.Background(), "s1"), domain.ErrConflict)
}

// Un rechazo del remoto (FK inexistente) se reporta como ErrRejected.
func TestSubcategoryCreate_RechazoRemoto(t *testing.T) {
	uc := usecase.NewSubcategoryUseCase(&fakeSubcategoryGW{result: nil})
	_, err := uc.Create(context.Background(), dto.CreateSubcategoryRequest{Name: "Zumos", CategoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrRejected)
}
