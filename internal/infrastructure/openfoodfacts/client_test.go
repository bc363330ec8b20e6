package openfoodfacts_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmanager/internal/infrastructure/openfoodfacts"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

func servidor(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/8001480022607.json", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup_ProductoEncontrado(t *testing.T) {
	srv := servidor(t, http.StatusOK, `{
		"status": 1,
		"product": {
			"product_name": "Dash Detersivo",
			"product_name_it": "Dash Detersivo Lavatrice",
			"brands": "Dash",
			"generic_name": "Detersivo liquido",
			"image_url": "https://img.example/dash.jpg",
			"categories": "Detersivi, Casa, Pulizia"
		}
	}`)

	c := openfoodfacts.New(srv.URL, logger.Nop())
	info, err := c.Lookup(context.Background(), "8001480022607")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Dash Detersivo Lavatrice", info.Name, "el nombre localizado tiene prioridad")
	assert.Equal(t, "Dash", info.Brand)
	assert.Equal(t, "Detersivo liquido", info.Description)
	assert.Equal(t, "Detersivi", info.Category, "solo el primer segmento de la lista")
}

// status 0 significa "producto desconocido": (nil, nil), no error.
func TestLookup_SinCoincidencia(t *testing.T) {
	srv := servidor(t, http.StatusOK, `{"status": 0, "product": {}}`)

	c := openfoodfacts.New(srv.URL, logger.Nop())
	info, err := c.Lookup(context.Background(), "8001480022607")
	assert.NoError(t, err)
	assert.Nil(t, info)
}

// Los fallos HTTP son best-effort: se tragan y se tratan como sin coincidencia.
func TestLookup_FalloHTTP(t *testing.T) {
	srv := servidor(t, http.StatusInternalServerError, "boom")

	c := openfoodfacts.New(srv.URL, logger.Nop())
	info, err := c.Lookup(context.Background(), "8001480022607")
	assert.NoError(t, err)
	assert.Nil(t, info)
}
