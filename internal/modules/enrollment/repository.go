package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/anand-5154/edurise-server/internal/database"
)

// Repository defines the database operations for the enrollment module.
type Repository interface {
	// Orders.
	CreateOrder(ctx context.Context, o *Order) error
	FindOrderByID(ctx context.Context, id string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error

	// Enrollments.
	InsertEnrollment(ctx context.Context, e *Enrollment) error
	FindEnrollment(ctx context.Context, userID, courseID string) (*Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, id string, status EnrollmentStatus, completedAt *time.Time) error
	ListEnrollmentsByUser(ctx context.Context, userID string) ([]Enrollment, error)

	// Completed-lecture set.
	MarkLectureCompleted(ctx context.Context, enrollmentID, lectureID string) error
	ListCompletedLectures(ctx context.Context, enrollmentID string) (map[string]struct{}, error)
}

// repository implements Repository using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new enrollment repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var orderColumns = []string{
	"id", "user_id", "course_id", "gateway_order_id", "amount", "currency",
	"status", "created_at", "updated_at",
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	query, args, err := r.psql.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID, o.UserID, o.CourseID, o.GatewayOrderID, o.Amount, o.Currency,
			string(o.Status), o.CreatedAt, o.UpdatedAt,
		).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) FindOrderByID(ctx context.Context, id string) (*Order, error) {
	query, args, err := r.psql.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var o Order
	if err := pgxscan.Get(ctx, r.db, &o, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound.WithCause(err)
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error {
	query, args, err := r.psql.Update("orders").
		Set("status", string(status)).
		Set("updated_at", time.Now()).
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
		return ErrOrderNotFound
	}
	return nil
}

var enrollmentColumns = []string{
	"id", "user_id", "course_id", "status", "enrolled_at", "completed_at",
}

// InsertEnrollment creates the enrollment row if none exists for the
// (user, course) pair. A concurrent insert loses silently against the
// unique index, so double payment verification still yields one row.
func (r *repository) InsertEnrollment(ctx context.Context, e *Enrollment) error {
	e.EnrolledAt = time.Now()

	query := `
		INSERT INTO enrollments (id, user_id, course_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, course_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, e.ID, e.UserID, e.CourseID, string(e.Status), e.EnrolledAt)
	return err
}

func (r *repository) FindEnrollment(ctx context.Context, userID, courseID string) (*Enrollment, error) {
	query, args, err := r.psql.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var e Enrollment
	if err := pgxscan.Get(ctx, r.db, &e, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEnrolled.WithCause(err)
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) UpdateEnrollmentStatus(ctx context.Context, id string, status EnrollmentStatus, completedAt *time.Time) error {
	query, args, err := r.psql.Update("enrollments").
		Set("status", string(status)).
		Set("completed_at", completedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) ListEnrollmentsByUser(ctx context.Context, userID string) ([]Enrollment, error) {
	query, args, err := r.psql.Select(enrollmentColumns...).
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("enrolled_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []Enrollment
	if err := pgxscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkLectureCompleted adds a lecture to the completed set. Re-completing
// is a no-op via the primary key conflict.
func (r *repository) MarkLectureCompleted(ctx context.Context, enrollmentID, lectureID string) error {
	query := `
		INSERT INTO enrollment_lectures (enrollment_id, lecture_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (enrollment_id, lecture_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, enrollmentID, lectureID, time.Now())
	return err
}

func (r *repository) ListCompletedLectures(ctx context.Context, enrollmentID string) (map[string]struct{}, error) {
	query, args, err := r.psql.Select("lecture_id").
		From("enrollment_lectures").
		Where(squirrel.Eq{"enrollment_id": enrollmentID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := pgxscan.Select(ctx, r.db, &ids, query, args...); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
