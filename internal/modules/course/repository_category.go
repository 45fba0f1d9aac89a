package course

import (
	"context"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var categoryColumns = []string{"id", "name", "created_at", "updated_at"}

func (r *repository) CreateCategory(ctx context.Context, c *Category) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query, args, err := r.psql.Insert("categories").
		Columns(categoryColumns...).
		Values(c.ID, c.Name, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrCategoryExists.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *repository) UpdateCategory(ctx context.Context, c *Category) error {
	c.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("categories").
		Set("name", c.Name).
		Set("updated_at", c.UpdatedAt).
		Where("id = ?", c.ID).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrCategoryExists.WithCause(err)
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category. Categories referenced by a course are
// protected by the foreign key and surface as ErrCategoryInUse.
func (r *repository) DeleteCategory(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("categories").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrCategoryInUse.WithCause(err)
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	query, args, err := r.psql.Select(categoryColumns...).
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []Category
	if err := pgxscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindCategoryByID(ctx context.Context, id string) (*Category, error) {
	query, args, err := r.psql.Select(categoryColumns...).
		From("categories").
		Where("id = ?", id).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c Category
	if err := pgxscan.Get(ctx, r.db, &c, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound.WithCause(err)
		}
		return nil, err
	}
	return &c, nil
}
