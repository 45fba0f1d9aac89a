package course

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var courseColumns = []string{
	"id", "instructor_id", "category_id", "title", "description", "price",
	"level", "duration", "thumbnail_url", "demo_video_url", "published",
	"created_at", "updated_at",
}

func (r *repository) CreateCourse(ctx context.Context, c *Course) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query, args, err := r.psql.Insert("courses").
		Columns(courseColumns...).
		Values(
			c.ID, c.InstructorID, c.CategoryID, c.Title, c.Description, c.Price,
			string(c.Level), c.Duration, c.ThumbnailURL, c.DemoVideoURL, c.Published,
			c.CreatedAt, c.UpdatedAt,
		).ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrCategoryNotFound.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *repository) UpdateCourse(ctx context.Context, c *Course) error {
	c.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("courses").
		Set("category_id", c.CategoryID).
		Set("title", c.Title).
		Set("description", c.Description).
		Set("price", c.Price).
		Set("level", string(c.Level)).
		Set("duration", c.Duration).
		Set("thumbnail_url", c.ThumbnailURL).
		Set("demo_video_url", c.DemoVideoURL).
		Set("published", c.Published).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrCategoryNotFound.WithCause(err)
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// DeleteCourse removes a course and, via cascade, its modules and lectures.
// The service checks for enrollments first.
func (r *repository) DeleteCourse(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *repository) FindCourseByID(ctx context.Context, id string) (*Course, error) {
	query, args, err := r.psql.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c Course
	if err := pgxscan.Get(ctx, r.db, &c, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound.WithCause(err)
		}
		return nil, err
	}
	return &c, nil
}

// ListCourses returns one page of courses plus the total match count.
// publishedOnly restricts to the public catalog; a non-empty instructorID
// restricts to one author's courses.
func (r *repository) ListCourses(ctx context.Context, p ListParams, publishedOnly bool, instructorID string) ([]Course, int64, error) {
	filters := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if publishedOnly {
			b = b.Where(squirrel.Eq{"published": true})
		}
		if instructorID != "" {
			b = b.Where(squirrel.Eq{"instructor_id": instructorID})
		}
		if p.Search != "" {
			b = b.Where(squirrel.ILike{"title": "%" + p.Search + "%"})
		}
		if p.Category != "" {
			b = b.Where(squirrel.Eq{"category_id": p.Category})
		}
		if p.Level != "" {
			b = b.Where(squirrel.Eq{"level": string(p.Level)})
		}
		return b
	}

	countQuery, countArgs, err := filters(r.psql.Select("COUNT(*)").From("courses")).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	var orderBy string
	switch p.Sort {
	case SortOldest:
		orderBy = "created_at ASC"
	case SortPriceAsc:
		orderBy = "price ASC"
	case SortPriceDesc:
		orderBy = "price DESC"
	default:
		orderBy = "created_at DESC"
	}

	query, args, err := filters(r.psql.Select(courseColumns...).From("courses")).
		OrderBy(orderBy).
		Limit(uint64(p.PageSize)).
		Offset(p.offset()).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var out []Course
	if err := pgxscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetCourseDetail loads a course with its category, instructor name, and the
// full ordered module/lecture tree.
func (r *repository) GetCourseDetail(ctx context.Context, id string) (*CourseDetail, error) {
	c, err := r.FindCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{Course: *c}

	metaQuery, metaArgs, err := r.psql.
		Select("cat.name AS category_name", "u.name AS instructor_name").
		From("courses c").
		Join("categories cat ON cat.id = c.category_id").
		Join("users u ON u.id = c.instructor_id").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.QueryRow(ctx, metaQuery, metaArgs...).Scan(&detail.CategoryName, &detail.InstructorName); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	modules, err := r.ListModules(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Modules = make([]ModuleWithLectures, 0, len(modules))
	for _, m := range modules {
		lectures, err := r.ListLectures(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		detail.Modules = append(detail.Modules, ModuleWithLectures{Module: m, Lectures: lectures})
	}
	return detail, nil
}

func (r *repository) HasEnrollments(ctx context.Context, courseID string) (bool, error) {
	query, args, err := r.psql.Select("COUNT(*)").
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return false, err
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
