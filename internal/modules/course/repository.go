package course

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/anand-5154/edurise-server/internal/database"
)

// Repository defines the database operations for the catalog module.
type Repository interface {
	// Categories.
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	FindCategoryByID(ctx context.Context, id string) (*Category, error)

	// Courses.
	CreateCourse(ctx context.Context, c *Course) error
	UpdateCourse(ctx context.Context, c *Course) error
	DeleteCourse(ctx context.Context, id string) error
	FindCourseByID(ctx context.Context, id string) (*Course, error)
	ListCourses(ctx context.Context, p ListParams, publishedOnly bool, instructorID string) ([]Course, int64, error)
	GetCourseDetail(ctx context.Context, id string) (*CourseDetail, error)
	HasEnrollments(ctx context.Context, courseID string) (bool, error)

	// Modules.
	CreateModule(ctx context.Context, m *Module) error
	UpdateModule(ctx context.Context, m *Module) error
	DeleteModule(ctx context.Context, id string) error
	FindModuleByID(ctx context.Context, id string) (*Module, error)
	ListModules(ctx context.Context, courseID string) ([]Module, error)
	SetModulePositions(ctx context.Context, courseID string, orderedIDs []string) error

	// Lectures.
	CreateLecture(ctx context.Context, l *Lecture) error
	UpdateLecture(ctx context.Context, l *Lecture) error
	DeleteLecture(ctx context.Context, id string) error
	FindLectureByID(ctx context.Context, id string) (*Lecture, error)
	ListLectures(ctx context.Context, moduleID string) ([]Lecture, error)
	SetLecturePositions(ctx context.Context, moduleID string, orderedIDs []string) error
}

// repository implements Repository using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new catalog repository.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
