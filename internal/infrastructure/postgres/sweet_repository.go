package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

const sweetColumns = `id, name, description, price, quantity_in_stock, category, created_by, created_at, updated_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SweetRepo implementación de SweetRepository sobre PostgreSQL (usable con pool o tx).
type SweetRepo struct {
	q Querier
}

// NewSweetRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewSweetRepository(q Querier) *SweetRepo {
	return &SweetRepo{q: q}
}

func (r *SweetRepo) Create(ctx context.Context, s *entity.Sweet) error {
	query := `
		INSERT INTO sweets (` + sweetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.Price, s.QuantityInStock, s.Category, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sweet: %w", mapError(err))
	}
	return nil
}

func (r *SweetRepo) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	return r.getOne(ctx, "get sweet", `SELECT `+sweetColumns+` FROM sweets WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE). Usar dentro de una tx.
func (r *SweetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sweet, error) {
	return r.getOne(ctx, "get sweet for update", `SELECT `+sweetColumns+` FROM sweets WHERE id = $1 FOR UPDATE`, id)
}

func (r *SweetRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	q := psql.Select("1").From("sweets").Where(sq.Expr("lower(name) = lower(?)", name))
	if excludeID != "" {
		q = q.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := q.Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists sweet: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists sweet: %w", err)
	}
	return exists, nil
}

func (r *SweetRepo) Update(ctx context.Context, s *entity.Sweet) error {
	query := `
		UPDATE sweets
		SET name = $2, description = $3, price = $4, quantity_in_stock = $5, category = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Description, s.Price, s.QuantityInStock, s.Category, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sweet: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto; inventory_events se borra en cascada.
func (r *SweetRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		if errors.Is(mapError(err), domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List construye el filtro con squirrel; los textos se buscan literalmente con ILIKE.
func (r *SweetRepo) List(ctx context.Context, f repository.SweetFilter) ([]*entity.Sweet, error) {
	query, args, err := buildListQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build list sweets: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// AdjustStock hace la comprobación y la escritura en una sola sentencia condicional.
// Si no se actualizó ninguna fila, distingue entre producto inexistente y stock insuficiente.
func (r *SweetRepo) AdjustStock(ctx context.Context, id string, delta int) (*entity.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity_in_stock = quantity_in_stock + $2, updated_at = now()
		WHERE id = $1 AND quantity_in_stock + $2 >= 0
		RETURNING ` + sweetColumns
	s, err := scanSweet(r.q.QueryRow(ctx, query, id, delta))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		mapped := mapError(err)
		if errors.Is(mapped, domain.ErrNotFound) || errors.Is(mapped, domain.ErrInsufficientStock) {
			return nil, mapped
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sweets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

func (r *SweetRepo) getOne(ctx context.Context, op, query, id string) (*entity.Sweet, error) {
	s, err := scanSweet(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(mapError(err), domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func buildListQuery(f repository.SweetFilter) (string, []interface{}, error) {
	q := psql.Select(sweetColumns).From("sweets")
	if f.InStockOnly {
		q = q.Where(sq.Gt{"quantity_in_stock": 0})
	}
	if f.Category != "" {
		q = q.Where(sq.Expr("lower(category) = lower(?)", f.Category))
	}
	if f.Name != "" {
		q = q.Where(sq.ILike{"name": "%" + escapeLike(f.Name) + "%"})
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q = q.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"description": pattern}})
	}
	if f.MinPrice != nil {
		q = q.Where(sq.GtOrEq{"price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		q = q.Where(sq.LtOrEq{"price": *f.MaxPrice})
	}
	return q.OrderBy("lower(name) ASC", "id ASC").ToSql()
}

func scanSweet(row pgx.Row) (*entity.Sweet, error) {
	var s entity.Sweet
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Price, &s.QuantityInStock, &s.Category,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
