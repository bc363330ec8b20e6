package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stockmanager/internal/domain/entity"
	"github.com/jhoicas/stockmanager/internal/domain/gateway"
)

var _ gateway.CategoryGateway = (*CategoryGW)(nil)

// CategoryGW adaptador del puerto CategoryGateway sobre PostgreSQL. Necesita
// el pool (no un Querier) porque Delete corre en transacción: guardia
// referencial + cascada de subcategorías + borrado, atómicos.
type CategoryGW struct {
	pool *pgxpool.Pool
}

// NewCategoryGateway construye el adaptador.
func NewCategoryGateway(pool *pgxpool.Pool) *CategoryGW {
	return &CategoryGW{pool: pool}
}

const categoryColumns = `id, name, description, color, icon, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var desc *string
	if err := row.Scan(&c.ID, &c.Name, &desc, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Description = deref(desc)
	return &c, nil
}

// FetchAll devuelve todas las categorías en orden alfabético.
func (r *CategoryGW) FetchAll(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// FetchOne obtiene una categoría por id; nil si no existe.
func (r *CategoryGW) FetchOne(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Create inserta una categoría. (nil, nil) si el remoto rechazó la escritura.
func (r *CategoryGW) Create(ctx context.Context, in gateway.CategoryFields) (*entity.Category, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, description, color, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		id, in.Name, nullIfEmpty(in.Description), in.Color, in.Icon, now,
	)
	if err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return r.FetchOne(ctx, id)
}

// Update aplica el parche. (nil, nil) si no existe o el remoto rechazó.
func (r *CategoryGW) Update(ctx context.Context, id string, patch gateway.CategoryPatch) (*entity.Category, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", nullIfEmpty(*patch.Description))
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if patch.Icon != nil {
		add("icon", *patch.Icon)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, nil
	}
	return r.FetchOne(ctx, id)
}

// Delete guardia referencial: si algún producto referencia la categoría
// devuelve (false, nil) sin tocar nada. Si no, elimina en cascada sus
// subcategorías (ya sin referencias posibles: todo producto que referencia
// una subcategoría referencia también la categoría) y luego la categoría.
func (r *CategoryGW) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var refs int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM products WHERE category_id = $1`, id).Scan(&refs); err != nil {
		return false, fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM subcategories WHERE category_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete subcategories: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
