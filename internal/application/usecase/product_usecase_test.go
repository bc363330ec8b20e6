package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/application/usecase"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// fakeProductGW devuelve respuestas fijas y registra lo despachado.
type fakeProductGW struct {
	created   *gateway.ProductFields
	updated   *gateway.ProductPatch
	result    *entity.Product
	deleteOK  bool
	deleteErr error
}

func (f *fakeProductGW) FetchAll(context.Context) ([]entity.Product, error) { return nil, nil }
func (f *fakeProductGW) FetchOne(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductGW) FetchByBarcode(context.Context, string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductGW) Create(_ context.Context, in gateway.ProductFields) (*entity.Product, error) {
	f.created = &in
	return f.result, nil
}

func (f *fakeProductGW) Update(_ context.Context, _ string, patch gateway.ProductPatch) (*entity.Product, error) {
	f.updated = &patch
	return f.result, nil
}

func (f *fakeProductGW) Delete(context.Context, string) (bool, error) {
	return f.deleteOK, f.deleteErr
}

func validCreate() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:       "Zumo",
		CategoryID: "c1",
		Quantity:   5,
		SalePrice:  decimal.NewFromFloat(1.50),
	}
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(&fakeProductGW{})

	cases := []struct {
		name   string
		mutate func(*dto.CreateProductRequest)
	}{
		{"sin nombre", func(r *dto.CreateProductRequest) { r.Name = "" }},
		{"sin categoría", func(r *dto.CreateProductRequest) { r.CategoryID = "" }},
		{"cantidad negativa", func(r *dto.CreateProductRequest) { r.Quantity = -1 }},
		{"mínimo negativo", func(r *dto.CreateProductRequest) { r.MinQuantity = -1 }},
		{"precio negativo", func(r *dto.CreateProductRequest) { r.SalePrice = decimal.NewFromInt(-1) }},
		{"barcode ilegible", func(r *dto.CreateProductRequest) { r.Barcode = "abc" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate()
			tc.mutate(&in)
			_, err := uc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// El barcode se normaliza antes de despachar: separadores fuera.
func TestProductCreate_NormalizaBarcode(t *testing.T) {
	gw := &fakeProductGW{result: &entity.Product{ID: "p1"}}
	uc := usecase.NewProductUseCase(gw)

	in := validCreate()
	in.Barcode = "800-1480 022607"
	_, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, gw.created)
	assert.Equal(t, "8001480022607", gw.created.Barcode)
}

// (nil, nil) del gateway significa escritura rechazada por el remoto.
func TestProductCreate_RechazoRemoto(t *testing.T) {
	uc := usecase.NewProductUseCase(&fakeProductGW{result: nil})
	_, err := uc.Create(context.Background(), validCreate())
	assert.ErrorIs(t, err, domain.ErrRejected)
}

func TestProductUpdate_ParcheParcial(t *testing.T) {
	gw := &fakeProductGW{result: &entity.Product{ID: "p1"}}
	uc := usecase.NewProductUseCase(gw)

	name := "Zumo Premium"
	_, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, gw.updated)
	assert.Equal(t, "Zumo Premium", *gw.updated.Name)
	assert.Nil(t, gw.updated.Quantity, "los campos no mencionados viajan nil")
}

func TestProductAdjustQuantity(t *testing.T) {
	gw := &fakeProductGW{result: &entity.Product{ID: "p1", Quantity: 9}}
	uc := usecase.NewProductUseCase(gw)

	_, err := uc.AdjustQuantity(context.Background(), "p1", 9)
	require.NoError(t, err)
	require.NotNil(t, gw.updated)
	assert.Equal(t, 9, *gw.updated.Quantity)

	_, err = uc.AdjustQuantity(context.Background(), "p1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductDelete(t *testing.T) {
	uc := usecase.NewProductUseCase(&fakeProductGW{deleteOK: true})
	assert.NoError(t, uc.Delete(context.Background(), "p1"))

	uc = usecase.NewProductUseCase(&fakeProductGW{deleteOK: false})
	assert.ErrorIs(t, uc.Delete(context.Background(), "p1"), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeBarcode
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeBarcode(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"8001480022607", "8001480022607", false}, // EAN-13
		{"12345678", "12345678", false},           // EAN-8
		{"036000291452", "036000291452", false},   // UPC-A
		{"1 2345678 90123-1", "12345678901231", false},
		{"800148002260", "800148002260", false}, // 12 dígitos
		{"1234567", "", true},                   // longitud inválida
		{"123456789", "", true},
		{"80014800226AB", "", true}, // caracteres ilegales
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := usecase.NormalizeBarcode(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %q", tc.in)
			continue
		}
		require.NoError(t, err, "entrada %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}
