package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

var _ gateway.ProductGateway = (*ProductGW)(nil)

// ProductGW adaptador del puerto ProductGateway sobre PostgreSQL. Las
// lecturas adjuntan las relaciones Category/Subcategory con un join, igual
// que el select denormalizado `category:categories(*)` del remoto original.
type ProductGW struct {
	q Querier
}

// NewProductGateway construye el adaptador. Pasar pool o tx (Querier).
func NewProductGateway(q Querier) *ProductGW {
	return &ProductGW{q: q}
}

const productColumns = `
	p.id, p.name, p.brand, p.barcode, p.quantity, p.min_quantity,
	p.purchase_price, p.sale_price, p.category_id, p.subcategory_id,
	p.description, p.image_url, p.created_at, p.updated_at,
	c.id, c.name, c.description, c.color, c.icon, c.created_at, c.updated_at,
	s.id, s.name, s.category_id, s.description, s.created_at, s.updated_at`

const productFrom = `
	FROM products p
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN subcategories s ON s.id = p.subcategory_id`

// scanProduct lee una fila con productColumns y arma el producto con sus
// relaciones denormalizadas.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var cat entity.Category
	var barcode, subcategoryID, description, imageURL, catDesc *string
	var subID, subName, subCatID, subDesc *string
	var subCreated, subUpdated *time.Time

	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &barcode, &p.Quantity, &p.MinQuantity,
		&p.PurchasePrice, &p.SalePrice, &p.CategoryID, &subcategoryID,
		&description, &imageURL, &p.CreatedAt, &p.UpdatedAt,
		&cat.ID, &cat.Name, &catDesc, &cat.Color, &cat.Icon, &cat.CreatedAt, &cat.UpdatedAt,
		&subID, &subName, &subCatID, &subDesc, &subCreated, &subUpdated,
	)
	if err != nil {
		return nil, err
	}
	p.Barcode = deref(barcode)
	p.SubcategoryID = deref(subcategoryID)
	p.Description = deref(description)
	p.ImageURL = deref(imageURL)
	cat.Description = deref(catDesc)
	p.Category = &cat
	if subID != nil {
		p.Subcategory = &entity.Subcategory{
			ID:          *subID,
			Name:        deref(subName),
			CategoryID:  deref(subCatID),
			Description: deref(subDesc),
		}
		if subCreated != nil {
			p.Subcategory.CreatedAt = *subCreated
		}
		if subUpdated != nil {
			p.Subcategory.UpdatedAt = *subUpdated
		}
	}
	return &p, nil
}

// FetchAll devuelve todos los productos con relaciones pobladas, más reciente primero.
func (r *ProductGW) FetchAll(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT`+productColumns+productFrom+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// FetchOne obtiene un producto por id con relaciones pobladas; nil si no existe.
func (r *ProductGW) FetchOne(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT`+productColumns+productFrom+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// FetchByBarcode busca un producto por código de barras; nil si no hay.
func (r *ProductGW) FetchByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT`+productColumns+productFrom+` WHERE p.barcode = $1`, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// Create inserta y devuelve el producto completo. (nil, nil) si el remoto
// rechazó la escritura (constraint violada).
func (r *ProductGW) Create(ctx context.Context, in gateway.ProductFields) (*entity.Product, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, brand, barcode, quantity, min_quantity, purchase_price, sale_price, category_id, subcategory_id, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		id, in.Name, in.Brand, nullIfEmpty(in.Barcode), in.Quantity, in.MinQuantity,
		in.PurchasePrice, in.SalePrice, in.CategoryID, nullIfEmpty(in.SubcategoryID),
		nullIfEmpty(in.Description), nullIfEmpty(in.ImageURL), now,
	)
	if err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return r.FetchOne(ctx, id)
}

// Update aplica el parche y devuelve el producto completo. (nil, nil) si no
// existe la fila o el remoto rechazó la escritura.
func (r *ProductGW) Update(ctx context.Context, id string, patch gateway.ProductPatch) (*entity.Product, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Brand != nil {
		add("brand", *patch.Brand)
	}
	if patch.Barcode != nil {
		add("barcode", nullIfEmpty(*patch.Barcode))
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.MinQuantity != nil {
		add("min_quantity", *patch.MinQuantity)
	}
	if patch.PurchasePrice != nil {
		add("purchase_price", *patch.PurchasePrice)
	}
	if patch.SalePrice != nil {
		add("sale_price", *patch.SalePrice)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.SubcategoryID != nil {
		add("subcategory_id", nullIfEmpty(*patch.SubcategoryID))
	}
	if patch.Description != nil {
		add("description", nullIfEmpty(*patch.Description))
	}
	if patch.ImageURL != nil {
		add("image_url", nullIfEmpty(*patch.ImageURL))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return r.FetchOne(ctx, id)
}

// Delete elimina un producto. Los productos no tienen dependientes, así que
// la única negativa posible es inexistencia, que se reporta como aplicado.
func (r *ProductGW) Delete(ctx context.Context, id string) (bool, error) {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return true, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
