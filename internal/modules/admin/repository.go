package admin

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/anand-5154/edurise-server/internal/database"
	"github.com/anand-5154/edurise-server/internal/modules/user"
)

// Repository defines the database operations for moderation listings and
// dashboard statistics.
type Repository interface {
	ListUsers(ctx context.Context, p ListUsersParams) ([]user.User, int64, error)
	CountUsersByRole(ctx context.Context, role user.Role) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	CountEnrollments(ctx context.Context) (int64, error)
	SumRevenue(ctx context.Context) (int64, error)
}

// repository implements Repository using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new moderation repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var userColumns = []string{
	"id", "name", "username", "email", "password_hash", "phone", "role",
	"blocked", "account_status", "email_verified",
	"title", "education", "years_of_experience", "verification_doc_url",
	"created_at", "updated_at",
}

// ListUsers pages accounts of one role, optionally matching a name, email,
// or username search.
func (r *repository) ListUsers(ctx context.Context, p ListUsersParams) ([]user.User, int64, error) {
	filters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		b = b.Where(squirrel.Eq{"role": string(p.Role)})
		if p.Search != "" {
			pattern := "%" + p.Search + "%"
			b = b.Where(squirrel.Or{
				squirrel.ILike{"name": pattern},
				squirrel.ILike{"email": pattern},
				squirrel.ILike{"username": pattern},
			})
		}
		return b
	}

	countQuery, countArgs, err := filters(r.psql.Select("COUNT(*)").From("users")).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := filters(r.psql.Select(userColumns...).From("users")).
		OrderBy("created_at DESC").
		Limit(uint64(p.PageSize)).
		Offset(uint64((p.Page - 1) * p.PageSize)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var out []user.User
	if err := pgxscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) CountUsersByRole(ctx context.Context, role user.Role) (int64, error) {
	return r.count(ctx, r.psql.Select("COUNT(*)").From("users").Where(squirrel.Eq{"role": string(role)}))
}

func (r *repository) CountCourses(ctx context.Context) (int64, error) {
	return r.count(ctx, r.psql.Select("COUNT(*)").From("courses"))
}

func (r *repository) CountEnrollments(ctx context.Context) (int64, error) {
	return r.count(ctx, r.psql.Select("COUNT(*)").From("enrollments"))
}

// SumRevenue totals all paid orders.
func (r *repository) SumRevenue(ctx context.Context) (int64, error) {
	return r.count(ctx, r.psql.Select("COALESCE(SUM(amount), 0)").From("orders").Where(squirrel.Eq{"status": "paid"}))
}

func (r *repository) count(ctx context.Context, b squirrel.SelectBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
