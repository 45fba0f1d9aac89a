package course

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

var moduleColumns = []string{"id", "course_id", "title", "position", "created_at", "updated_at"}

var lectureColumns = []string{
	"id", "module_id", "title", "description", "video_url", "duration",
	"position", "resource_links", "created_at", "updated_at",
}

// --- Modules ---

// CreateModule appends a module at the end of its course's sequence.
func (r *repository) CreateModule(ctx context.Context, m *Module) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
		INSERT INTO course_modules (id, course_id, title, position, created_at, updated_at)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM course_modules WHERE course_id = $2),
			$4, $5)
		RETURNING position`
	return r.db.QueryRow(ctx, query, m.ID, m.CourseID, m.Title, m.CreatedAt, m.UpdatedAt).
		Scan(&m.Position)
}

func (r *repository) UpdateModule(ctx context.Context, m *Module) error {
	m.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("course_modules").
		Set("title", m.Title).
		Set("updated_at", m.UpdatedAt).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrModuleNotFound
	}
	return nil
}

// DeleteModule removes a module and closes the position gap it leaves.
func (r *repository) DeleteModule(ctx context.Context, id string) error {
	m, err := r.FindModuleByID(ctx, id)
	if err != nil {
		return err
	}

	query, args, err := r.psql.Delete("course_modules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`UPDATE course_modules SET position = position - 1 WHERE course_id = $1 AND position > $2`,
		m.CourseID, m.Position)
	return err
}

func (r *repository) FindModuleByID(ctx context.Context, id string) (*Module, error) {
	query, args, err := r.psql.Select(moduleColumns...).
		From("course_modules").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var m Module
	if err := pgxscan.Get(ctx, r.db, &m, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrModuleNotFound.WithCause(err)
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListModules(ctx context.Context, courseID string) ([]Module, error) {
	query, args, err := r.psql.Select(moduleColumns...).
		From("course_modules").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []Module
	if err := pgxscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// SetModulePositions rewrites the sequence of a course's modules to match
// orderedIDs. The caller has verified the set matches exactly.
func (r *repository) SetModulePositions(ctx context.Context, courseID string, orderedIDs []string) error {
	now := time.Now()
	for i, id := range orderedIDs {
		ct, err := r.db.Exec(ctx,
			`UPDATE course_modules SET position = $1, updated_at = $2 WHERE id = $3 AND course_id = $4`,
			i, now, id, courseID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrModuleNotFound
		}
	}
	return nil
}

// --- Lectures ---

// CreateLecture appends a lecture at the end of its module's sequence.
func (r *repository) CreateLecture(ctx context.Context, l *Lecture) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
		INSERT INTO lectures (id, module_id, title, description, video_url, duration, position, resource_links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM lectures WHERE module_id = $2),
			$7, $8, $9)
		RETURNING position`
	return r.db.QueryRow(ctx, query,
		l.ID, l.ModuleID, l.Title, l.Description, l.VideoURL, l.Duration,
		l.ResourceLinks, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.Position)
}

func (r *repository) UpdateLecture(ctx context.Context, l *Lecture) error {
	l.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("lectures").
		Set("title", l.Title).
		Set("description", l.Description).
		Set("video_url", l.VideoURL).
		Set("duration", l.Duration).
		Set("resource_links", l.ResourceLinks).
		Set("updated_at", l.UpdatedAt).
		Where(squirrel.Eq{"id": l.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrLectureNotFound
	}
	return nil
}

// DeleteLecture removes a lecture and closes the position gap it leaves.
func (r *repository) DeleteLecture(ctx context.Context, id string) error {
	l, err := r.FindLectureByID(ctx, id)
	if err != nil {
		return err
	}

	query, args, err := r.psql.Delete("lectures").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`UPDATE lectures SET position = position - 1 WHERE module_id = $1 AND position > $2`,
		l.ModuleID, l.Position)
	return err
}

func (r *repository) FindLectureByID(ctx context.Context, id string) (*Lecture, error) {
	query, args, err := r.psql.Select(lectureColumns...).
		From("lectures").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var l Lecture
	if err := pgxscan.Get(ctx, r.db, &l, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLectureNotFound.WithCause(err)
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) ListLectures(ctx context.Context, moduleID string) ([]Lecture, error) {
	query, args, err := r.psql.Select(lectureColumns...).
		From("lectures").
		Where(squirrel.Eq{"module_id": moduleID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []Lecture
	if err := pgxscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// SetLecturePositions rewrites the sequence of a module's lectures to match
// orderedIDs. The caller has verified the set matches exactly.
func (r *repository) SetLecturePositions(ctx context.Context, moduleID string, orderedIDs []string) error {
	now := time.Now()
	for i, id := range orderedIDs {
		ct, err := r.db.Exec(ctx,
			`UPDATE lectures SET position = $1, updated_at = $2 WHERE id = $3 AND module_id = $4`,
			i, now, id, moduleID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return ErrLectureNotFound
		}
	}
	return nil
}
