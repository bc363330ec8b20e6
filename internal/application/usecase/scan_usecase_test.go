package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/application/usecase"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

// barcodeGW solo implementa FetchByBarcode de forma útil.
type barcodeGW struct {
	fakeProductGW
	byBarcode map[string]*entity.Product
}

func (f *barcodeGW) FetchByBarcode(_ context.Context, code string) (*entity.Product, error) {
	return f.byBarcode[code], nil
}

type fakeLookup struct {
	info *gateway.ProductInfo
	err  error
}

func (f *fakeLookup) Lookup(context.Context, string) (*gateway.ProductInfo, error) {
	return f.info, f.err
}

func TestScan_ProductoExistenteYPrellenado(t *testing.T) {
	gw := &barcodeGW{byBarcode: map[string]*entity.Product{
		"8001480022607": {ID: "p1", Name: "Detersivo"},
	}}
	lookup := &fakeLookup{info: &gateway.ProductInfo{Name: "Dash Detersivo", Brand: "Dash"}}
	uc := usecase.NewScanUseCase(gw, lookup, logger.Nop())

	out, err := uc.Scan(context.Background(), "800-1480-022607")
	require.NoError(t, err)
	require.NotNil(t, out.Existing)
	assert.Equal(t, "p1", out.Existing.ID, "el código se normaliza antes de consultar")
	require.NotNil(t, out.Info)
	assert.Equal(t, "Dash", out.Info.Brand)
}

// La búsqueda externa es best-effort: su fallo no tumba el escaneo.
func TestScan_FalloDeLookupSeTraga(t *testing.T) {
	gw := &barcodeGW{byBarcode: map[string]*entity.Product{}}
	lookup := &fakeLookup{err: errors.New("red caída")}
	uc := usecase.NewScanUseCase(gw, lookup, logger.Nop())

	out, err := uc.Scan(context.Background(), "8001480022607")
	require.NoError(t, err)
	assert.Nil(t, out.Existing)
	assert.Nil(t, out.Info)
}

func TestScan_CodigoInvalido(t *testing.T) {
	uc := usecase.NewScanUseCase(&barcodeGW{}, &fakeLookup{}, logger.Nop())
	_, err := uc.Scan(context.Background(), "no-es-un-codigo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
