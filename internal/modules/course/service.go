package course

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anand-5154/edurise-server/internal/modules/user"
)

// Actor identifies who is performing a mutation. Owner checks compare the
// actor's ID against the course's instructor; admins pass every check.
type Actor struct {
	ID   string
	Role user.Role
}

func (a Actor) isAdmin() bool { return a.Role == user.RoleAdmin }

// AccountDirectory is the slice of the identity module the catalog needs:
// resolving an instructor to check their approval status.
type AccountDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// CourseInput carries the editable fields of a course.
type CourseInput struct {
	CategoryID   string
	Title        string
	Description  string
	Price        int64
	Level        Level
	Duration     int
	ThumbnailURL string
	DemoVideoURL string
}

// LectureInput carries the editable fields of a lecture.
type LectureInput struct {
	Title         string
	Description   string
	VideoURL      string
	Duration      int
	ResourceLinks []string
}

// Service defines the business logic of the catalog module.
type Service interface {
	// Categories, admin only (the handler enforces the role).
	CreateCategory(ctx context.Context, name string) (*Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)

	// Courses.
	CreateCourse(ctx context.Context, instructorID string, input CourseInput) (*Course, error)
	UpdateCourse(ctx context.Context, actor Actor, courseID string, input CourseInput) (*Course, error)
	DeleteCourse(ctx context.Context, actor Actor, courseID string) error
	SetPublished(ctx context.Context, actor Actor, courseID string, published bool) (*Course, error)
	ListPublic(ctx context.Context, p ListParams) (*Page, error)
	ListByInstructor(ctx context.Context, instructorID string, p ListParams) (*Page, error)
	GetCourse(ctx context.Context, id string, actor *Actor) (*CourseDetail, error)

	// Modules.
	AddModule(ctx context.Context, actor Actor, courseID, title string) (*Module, error)
	RenameModule(ctx context.Context, actor Actor, moduleID, title string) (*Module, error)
	RemoveModule(ctx context.Context, actor Actor, moduleID string) error
	ReorderModules(ctx context.Context, actor Actor, courseID string, orderedIDs []string) error

	// Lectures.
	AddLecture(ctx context.Context, actor Actor, moduleID string, input LectureInput) (*Lecture, error)
	UpdateLecture(ctx context.Context, actor Actor, lectureID string, input LectureInput) (*Lecture, error)
	RemoveLecture(ctx context.Context, actor Actor, lectureID string) error
	ReorderLectures(ctx context.Context, actor Actor, moduleID string, orderedIDs []string) error
}

// service implements the Service interface.
type service struct {
	repo     Repository
	accounts AccountDirectory
	logger   *slog.Logger
}

// Config holds the dependencies for the catalog service.
type Config struct {
	Repo     Repository
	Accounts AccountDirectory
	Logger   *slog.Logger
}

// NewService creates a new catalog service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:     cfg.Repo,
		accounts: cfg.Accounts,
		logger:   cfg.Logger,
	}
}

// --- Categories ---

func (s *service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	c := &Category{ID: uuid.Must(uuid.NewV7()).String(), Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *service) UpdateCategory(ctx context.Context, id, name string) (*Category, error) {
	c, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// --- Courses ---

// CreateCourse creates an unpublished course. Only instructors whose
// accounts have passed review may author content.
func (s *service) CreateCourse(ctx context.Context, instructorID string, input CourseInput) (*Course, error) {
	instructor, err := s.accounts.FindByID(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if instructor.Role != user.RoleInstructor || instructor.AccountStatus != user.AccountStatusActive {
		return nil, ErrInstructorNotActive
	}

	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	c := &Course{
		ID:           uuid.Must(uuid.NewV7()).String(),
		InstructorID: instructorID,
		CategoryID:   input.CategoryID,
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		Level:        input.Level,
		Duration:     input.Duration,
		ThumbnailURL: input.ThumbnailURL,
		DemoVideoURL: input.DemoVideoURL,
		Published:    false,
	}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("course created", "course_id", c.ID, "instructor_id", instructorID)
	return c, nil
}

func (s *service) UpdateCourse(ctx context.Context, actor Actor, courseID string, input CourseInput) (*Course, error) {
	c, err := s.authorizeCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	c.CategoryID = input.CategoryID
	c.Title = input.Title
	c.Description = input.Description
	c.Price = input.Price
	c.Level = input.Level
	c.Duration = input.Duration
	c.ThumbnailURL = input.ThumbnailURL
	c.DemoVideoURL = input.DemoVideoURL

	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCourse removes a course. Courses with any enrollment, past or
// active, cannot be deleted; unpublishing is the way to retire them.
func (s *service) DeleteCourse(ctx context.Context, actor Actor, courseID string) error {
	if _, err := s.authorizeCourse(ctx, actor, courseID); err != nil {
		return err
	}

	enrolled, err := s.repo.HasEnrollments(ctx, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return ErrCourseHasEnrollments
	}

	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		return err
	}
	s.logger.Info("course deleted", "course_id", courseID, "actor_id", actor.ID)
	return nil
}

func (s *service) SetPublished(ctx context.Context, actor Actor, courseID string, published bool) (*Course, error) {
	c, err := s.authorizeCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}
	if c.Published == published {
		return c, nil
	}

	c.Published = published
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("course publish state changed", "course_id", courseID, "published", published, "actor_id", actor.ID)
	return c, nil
}

func (s *service) ListPublic(ctx context.Context, p ListParams) (*Page, error) {
	p.normalize()
	courses, total, err := s.repo.ListCourses(ctx, p, true, "")
	if err != nil {
		return nil, err
	}
	return &Page{Courses: courses, Total: total, PageNum: p.Page, PageSize: p.PageSize}, nil
}

func (s *service) ListByInstructor(ctx context.Context, instructorID string, p ListParams) (*Page, error) {
	p.normalize()
	courses, total, err := s.repo.ListCourses(ctx, p, false, instructorID)
	if err != nil {
		return nil, err
	}
	return &Page{Courses: courses, Total: total, PageNum: p.Page, PageSize: p.PageSize}, nil
}

// GetCourse returns the full content tree. Unpublished courses are visible
// only to their owner and to admins; everyone else gets a not-found.
func (s *service) GetCourse(ctx context.Context, id string, actor *Actor) (*CourseDetail, error) {
	detail, err := s.repo.GetCourseDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !detail.Published {
		if actor == nil || (!actor.isAdmin() && actor.ID != detail.InstructorID) {
			return nil, ErrCourseNotFound
		}
	}
	return detail, nil
}

// --- Modules ---

func (s *service) AddModule(ctx context.Context, actor Actor, courseID, title string) (*Module, error) {
	if _, err := s.authorizeCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}

	m := &Module{ID: uuid.Must(uuid.NewV7()).String(), CourseID: courseID, Title: title}
	if err := s.repo.CreateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) RenameModule(ctx context.Context, actor Actor, moduleID, title string) (*Module, error) {
	m, err := s.authorizeModule(ctx, actor, moduleID)
	if err != nil {
		return nil, err
	}
	m.Title = title
	if err := s.repo.UpdateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) RemoveModule(ctx context.Context, actor Actor, moduleID string) error {
	if _, err := s.authorizeModule(ctx, actor, moduleID); err != nil {
		return err
	}
	return s.repo.DeleteModule(ctx, moduleID)
}

func (s *service) ReorderModules(ctx context.Context, actor Actor, courseID string, orderedIDs []string) error {
	if _, err := s.authorizeCourse(ctx, actor, courseID); err != nil {
		return err
	}

	existing, err := s.repo.ListModules(ctx, courseID)
	if err != nil {
		return err
	}
	ids := make([]string, len(existing))
	for i, m := range existing {
		ids[i] = m.ID
	}
	if !sameIDSet(ids, orderedIDs) {
		return ErrReorderMismatch
	}
	return s.repo.SetModulePositions(ctx, courseID, orderedIDs)
}

// --- Lectures ---

func (s *service) AddLecture(ctx context.Context, actor Actor, moduleID string, input LectureInput) (*Lecture, error) {
	if _, err := s.authorizeModule(ctx, actor, moduleID); err != nil {
		return nil, err
	}

	l := &Lecture{
		ID:            uuid.Must(uuid.NewV7()).String(),
		ModuleID:      moduleID,
		Title:         input.Title,
		Description:   input.Description,
		VideoURL:      input.VideoURL,
		Duration:      input.Duration,
		ResourceLinks: input.ResourceLinks,
	}
	if err := s.repo.CreateLecture(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) UpdateLecture(ctx context.Context, actor Actor, lectureID string, input LectureInput) (*Lecture, error) {
	l, err := s.authorizeLecture(ctx, actor, lectureID)
	if err != nil {
		return nil, err
	}

	l.Title = input.Title
	l.Description = input.Description
	l.VideoURL = input.VideoURL
	l.Duration = input.Duration
	l.ResourceLinks = input.ResourceLinks

	if err := s.repo.UpdateLecture(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) RemoveLecture(ctx context.Context, actor Actor, lectureID string) error {
	if _, err := s.authorizeLecture(ctx, actor, lectureID); err != nil {
		return err
	}
	return s.repo.DeleteLecture(ctx, lectureID)
}

func (s *service) ReorderLectures(ctx context.Context, actor Actor, moduleID string, orderedIDs []string) error {
	if _, err := s.authorizeModule(ctx, actor, moduleID); err != nil {
		return err
	}

	existing, err := s.repo.ListLectures(ctx, moduleID)
	if err != nil {
		return err
	}
	ids := make([]string, len(existing))
	for i, l := range existing {
		ids[i] = l.ID
	}
	if !sameIDSet(ids, orderedIDs) {
		return ErrReorderMismatch
	}
	return s.repo.SetLecturePositions(ctx, moduleID, orderedIDs)
}

// --- helpers ---

// authorizeCourse loads a course and checks the actor may mutate it.
func (s *service) authorizeCourse(ctx context.Context, actor Actor, courseID string) (*Course, error) {
	c, err := s.repo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !actor.isAdmin() && c.InstructorID != actor.ID {
		return nil, ErrNotOwner
	}
	return c, nil
}

func (s *service) authorizeModule(ctx context.Context, actor Actor, moduleID string) (*Module, error) {
	m, err := s.repo.FindModuleByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeCourse(ctx, actor, m.CourseID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) authorizeLecture(ctx context.Context, actor Actor, lectureID string) (*Lecture, error) {
	l, err := s.repo.FindLectureByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeModule(ctx, actor, l.ModuleID); err != nil {
		return nil, err
	}
	return l, nil
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
		delete(seen, id) // reject duplicates
	}
	return true
}
