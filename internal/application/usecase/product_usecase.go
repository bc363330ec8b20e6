package usecase

import (
	"context"

	"github.com/jhoicas/stockmanager/internal/application/dto"
	"github.com/jhoicas/stockmanager/internal/domain"
	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

// ProductUseCase escrituras de productos despachadas al gateway. La caché no
// se muta aquí: la mutación local llega por el feed realtime cuando el remoto
// confirma el cambio (así se evita la doble aplicación optimista+eco).
type ProductUseCase struct {
	gw gateway.ProductGateway
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(gw gateway.ProductGateway) *ProductUseCase {
	return &ProductUseCase{gw: gw}
}

// Create valida y despacha la creación. Devuelve ErrRejected si el remoto no
// aplicó la escritura.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.MinQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" {
		code, err := NormalizeBarcode(in.Barcode)
		if err != nil {
			return nil, err
		}
		in.Barcode = code
	}
	p, err := uc.gw.Create(ctx, gateway.ProductFields{
		Name:          in.Name,
		Brand:         in.Brand,
		Barcode:       in.Barcode,
		Quantity:      in.Quantity,
		MinQuantity:   in.MinQuantity,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrRejected
	}
	return p, nil
}

// Update valida y despacha la actualización parcial.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MinQuantity != nil && *in.MinQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchasePrice != nil && in.PurchasePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SalePrice != nil && in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != nil && *in.Barcode != "" {
		code, err := NormalizeBarcode(*in.Barcode)
		if err != nil {
			return nil, err
		}
		in.Barcode = &code
	}
	p, err := uc.gw.Update(ctx, id, gateway.ProductPatch{
		Name:          in.Name,
		Brand:         in.Brand,
		Barcode:       in.Barcode,
		Quantity:      in.Quantity,
		MinQuantity:   in.MinQuantity,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrRejected
	}
	return p, nil
}

// AdjustQuantity fija las existencias de un producto.
func (uc *ProductUseCase) AdjustQuantity(ctx context.Context, id string, quantity int) (*entity.Product, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.Update(ctx, id, dto.UpdateProductRequest{Quantity: &quantity})
}

// Delete despacha la eliminación.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
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
