package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/application/cache"
	"github.com/jhoicas/stockmanager/internal/application/usecase"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	apphttp "github.com/jhoicas/stockmanager/internal/interfaces/http"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

// fakeProductGW controla el veredicto del remoto para escrituras.
type fakeProductGW struct {
	created  *entity.Product
	deleteOK bool
}

func (f *fakeProductGW) FetchAll(context.Context) ([]entity.Product, error) { return nil, nil }
func (f *fakeProductGW) FetchOne(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductGW) FetchByBarcode(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductGW) Create(context.Context, gateway.ProductFields) (*entity.Product, error) {
	return f.created, nil
}
func (f *fakeProductGW) Update(context.Context, string, gateway.ProductPatch) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductGW) Delete(context.Context, string) (bool, error) { return f.deleteOK, nil }

type nopLookup struct{}

func (nopLookup) Lookup(context.Context, string) (*gateway.ProductInfo, error) { return nil, nil }

// buildProductApp monta las rutas de productos sin middleware de auth.
func buildProductApp(c *cache.Cache, gw *fakeProductGW) *fiber.App {
	app := fiber.New()
	uc := usecase.NewProductUseCase(gw)
	scan := usecase.NewScanUseCase(gw, nopLookup{}, logger.Nop())
	h := apphttp.NewProductHandler(c, uc, scan)
	app.Get("/products", h.List)
	app.Get("/products/:id", h.GetByID)
	app.Post("/products", h.Create)
	app.Delete("/products/:id", h.Delete)
	return app
}

func cacheConProductos() *cache.Cache {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := cache.New()
	c.SetProducts([]entity.Product{
		{ID: "p1", Name: "Detersivo Lavatrice", Brand: "Dash", CategoryID: "c1", Quantity: 12, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "p2", Name: "Zumo", Brand: "Acme", CategoryID: "c2", Quantity: 3, CreatedAt: base, UpdatedAt: base},
	})
	return c
}

func decodeProducts(t *testing.T, resp *http.Response) []entity.Product {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out []entity.Product
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// La lista se sirve desde la caché, con filtros de query string.
func TestProductList_FiltraDesdeLaCache(t *testing.T) {
	app := buildProductApp(cacheConProductos(), &fakeProductGW{})

	req := httptest.NewRequest(http.MethodGet, "/products?search=detersivo", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	got := decodeProducts(t, resp)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/products?category_id=c2", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	got = decodeProducts(t, resp)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestProductGetByID_NoEncontrado(t *testing.T) {
	app := buildProductApp(cacheConProductos(), &fakeProductGW{})
	req := httptest.NewRequest(http.MethodGet, "/products/no-existe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// El rechazo del remoto ((nil, nil) del gateway) se responde 422.
func TestProductCreate_RechazoRemoto(t *testing.T) {
	app := buildProductApp(cache.New(), &fakeProductGW{created: nil})
	body := strings.NewReader(`{"name":"Zumo","category_id":"c1"}`)
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestProductCreate_Validacion(t *testing.T) {
	app := buildProductApp(cache.New(), &fakeProductGW{})
	body := strings.NewReader(`{"name":""}`)
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// El conflicto referencial (borrado rehusado) se responde 409 con mensaje propio.
func TestProductDelete_Conflicto(t *testing.T) {
	app := buildProductApp(cacheConProductos(), &fakeProductGW{deleteOK: false})
	req := httptest.NewRequest(http.MethodDelete, "/products/p1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "referencian", "el mensaje distingue el conflicto referencial")
}
