package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
)

// ProductFields campos para crear un producto (el gateway asigna id y timestamps).
type ProductFields struct {
	Name          string
	Brand         string
	Barcode       string
	Quantity      int
	MinQuantity   int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	CategoryID    string
	SubcategoryID string
	Description   string
	ImageURL      string
}

// ProductPatch campos opcionales para actualización parcial. Un puntero nil
// deja el campo como está; para SubcategoryID un puntero a "" lo limpia.
type ProductPatch struct {
	Name          *string
	Brand         *string
	Barcode       *string
	Quantity      *int
	MinQuantity   *int
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	CategoryID    *string
	SubcategoryID *string
	Description   *string
	ImageURL      *string
}

// ProductGateway puerto de datos remotos para Product (DIP). Las lecturas
// devuelven las relaciones Category/Subcategory ya pobladas. Convención de
// rechazo: Create/Update devuelven (nil, nil) cuando el remoto rechaza la
// escritura; Delete devuelve (false, nil) cuando la negativa es de integridad
// referencial.
type ProductGateway interface {
	FetchAll(ctx context.Context) ([]entity.Product, error)
	FetchOne(ctx context.Context, id string) (*entity.Product, error)
	FetchByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Create(ctx context.Context, in ProductFields) (*entity.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}
