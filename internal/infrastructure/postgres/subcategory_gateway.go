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

var _ gateway.SubcategoryGateway = (*SubcategoryGW)(nil)

// SubcategoryGW adaptador del puerto SubcategoryGateway sobre PostgreSQL.
// Las lecturas adjuntan la relación Category con un join.
type SubcategoryGW struct {
	q Querier
}

// NewSubcategoryGateway construye el adaptador. Pasar pool o tx (Querier).
func NewSubcategoryGateway(q Querier) *SubcategoryGW {
	return &SubcategoryGW{q: q}
}

const subcategoryColumns = `
	s.id, s.name, s.category_id, s.description, s.created_at, s.updated_at,
	c.id, c.name, c.description, c.color, c.icon, c.created_at, c.updated_at`

const subcategoryFrom = `
	FROM subcategories s
	JOIN categories c ON c.id = s.category_id`

func scanSubcategory(row pgx.Row) (*entity.Subcategory, error) {
	var s entity.Subcategory
	var cat entity.Category
	var desc, catDesc *string
	err := row.Scan(
		&s.ID, &s.Name, &s.CategoryID, &desc, &s.CreatedAt, &s.UpdatedAt,
		&cat.ID, &cat.Name, &catDesc, &cat.Color, &cat.Icon, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Description = deref(desc)
	cat.Description = deref(catDesc)
	s.Category = &cat
	return &s, nil
}

// FetchAll devuelve todas las subcategorías en orden alfabético, con Category poblada.
func (r *SubcategoryGW) FetchAll(ctx context.Context) ([]entity.Subcategory, error) {
	rows, err := r.q.Query(ctx, `SELECT`+subcategoryColumns+subcategoryFrom+` ORDER BY s.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()
	var list []entity.Subcategory
	for rows.Next() {
		s, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// FetchOne obtiene una subcategoría por id; nil si no existe.
func (r *SubcategoryGW) FetchOne(ctx context.Context, id string) (*entity.Subcategory, error) {
	s, err := scanSubcategory(r.q.QueryRow(ctx, `SELECT`+subcategoryColumns+subcategoryFrom+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return s, nil
}

// FetchByCategory subcategorías de una categoría, en orden alfabético.
func (r *SubcategoryGW) FetchByCategory(ctx context.Context, categoryID string) ([]entity.Subcategory, error) {
	rows, err := r.q.Query(ctx, `SELECT`+subcategoryColumns+subcategoryFrom+` WHERE s.category_id = $1 ORDER BY s.name ASC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories by category: %w", err)
	}
	defer rows.Close()
	var list []entity.Subcategory
	for rows.Next() {
		s, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// Create inserta una subcategoría. (nil, nil) si el remoto rechazó (p.ej.
// categoría inexistente).
func (r *SubcategoryGW) Create(ctx context.Context, in gateway.SubcategoryFields) (*entity.Subcategory, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := r.q.Exec(ctx, `
		INSERT INTO subcategories (id, name, category_id, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		id, in.Name, in.CategoryID, nullIfEmpty(in.Description), now,
	)
	if err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("insert subcategory: %w", err)
	}
	return r.FetchOne(ctx, id)
}

// Update aplica el parche. (nil, nil) si no existe o el remoto rechazó.
func (r *SubcategoryGW) Update(ctx context.Context, id string, patch gateway.SubcategoryPatch) (*entity.Subcategory, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.Description != nil {
		add("description", nullIfEmpty(*patch.Description))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE subcategories SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update subcategory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return r.FetchOne(ctx, id)
}

// Delete guardia referencial: (false, nil) si hay productos que la referencian.
func (r *SubcategoryGW) Delete(ctx context.Context, id string) (bool, error) {
	var refs int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE subcategory_id = $1`, id).Scan(&refs); err != nil {
		return false, fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return false, nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM subcategories WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("delete subcategory: %w", err)
	}
	return true, nil
}
