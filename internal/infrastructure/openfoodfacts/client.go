// Package openfoodfacts cliente mínimo de la API pública de Open Food Facts,
// usado para prellenar el formulario de alta al escanear un código desconocido.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/stockmanager/internal/domain/gateway"
	"github.com/jhoicas/stockmanager/pkg/logger"
)

var _ gateway.BarcodeLookup = (*Client)(nil)

const requestTimeout = 5 * time.Second

// Client consulta /api/v0/product/{code}.json. La búsqueda es best-effort:
// fallos de red, HTTP no-200 o producto inexistente devuelven (nil, nil).
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New construye el cliente. baseURL sin slash final, p.ej.
// https://world.openfoodfacts.org.
func New(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

type productResponse struct {
	Status  int `json:"status"` // 1 = encontrado
	Product struct {
		ProductName   string `json:"product_name"`
		ProductNameIT string `json:"product_name_it"`
		ProductNameEN string `json:"product_name_en"`
		Brands        string `json:"brands"`
		GenericName   string `json:"generic_name"`
		Ingredients   string `json:"ingredients_text"`
		ImageURL      string `json:"image_url"`
		ImageFrontURL string `json:"image_front_url"`
		Categories    string `json:"categories"`
	} `json:"product"`
}

// Lookup busca el código en Open Food Facts.
func (c *Client) Lookup(ctx context.Context, code string) (*gateway.ProductInfo, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("code", code).Msg("lookup externo falló")
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Debug().Int("status", resp.StatusCode).Str("code", code).Msg("lookup externo sin resultado")
		return nil, nil
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Debug().Err(err).Str("code", code).Msg("respuesta de lookup ilegible")
		return nil, nil
	}
	if body.Status != 1 {
		return nil, nil
	}

	p := body.Product
	info := &gateway.ProductInfo{
		Name:        firstNonEmpty(p.ProductNameIT, p.ProductName, p.ProductNameEN),
		Brand:       p.Brands,
		Description: firstNonEmpty(p.GenericName, p.Ingredients),
		ImageURL:    firstNonEmpty(p.ImageURL, p.ImageFrontURL),
		Category:    firstSegment(p.Categories),
	}
	if info.Name == "" && info.Brand == "" {
		return nil, nil
	}
	return info, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstSegment devuelve el primer elemento de una lista separada por comas.
func firstSegment(s string) string {
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
