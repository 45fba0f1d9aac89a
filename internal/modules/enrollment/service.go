package enrollment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anand-5154/edurise-server/internal/modules/course"
	"github.com/anand-5154/edurise-server/internal/payment"
)

const defaultCurrency = "INR"

// Catalog is the slice of the catalog module the enrollment flow needs.
// course.Repository satisfies it.
type Catalog interface {
	FindCourseByID(ctx context.Context, id string) (*course.Course, error)
	FindModuleByID(ctx context.Context, id string) (*course.Module, error)
	FindLectureByID(ctx context.Context, id string) (*course.Lecture, error)
	ListModules(ctx context.Context, courseID string) ([]course.Module, error)
	ListLectures(ctx context.Context, moduleID string) ([]course.Lecture, error)
}

// Service defines the business logic of the enrollment module: paying for a
// course, walking its content with sequential unlock, and tracking progress.
type Service interface {
	CreateOrder(ctx context.Context, userID, courseID string) (*Order, error)
	VerifyPayment(ctx context.Context, userID, orderID, paymentID, signature string) (*Enrollment, error)
	GetModules(ctx context.Context, userID, courseID string) ([]ModuleProgress, error)
	GetLectures(ctx context.Context, userID, moduleID string) ([]LectureProgress, error)
	MarkLectureComplete(ctx context.Context, userID, lectureID string) error
	ListMyCourses(ctx context.Context, userID string) ([]MyCourse, error)
}

// service implements the Service interface.
type service struct {
	repo    Repository
	catalog Catalog
	gateway payment.Gateway
	logger  *slog.Logger
}

// Config holds the dependencies for the enrollment service.
type Config struct {
	Repo    Repository
	Catalog Catalog
	Gateway payment.Gateway
	Logger  *slog.Logger
}

// NewService creates a new enrollment service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:    cfg.Repo,
		catalog: cfg.Catalog,
		gateway: cfg.Gateway,
		logger:  cfg.Logger,
	}
}

// CreateOrder opens a payment order for a published course. The amount is
// read from the course record so the client cannot tamper with the price.
func (s *service) CreateOrder(ctx context.Context, userID, courseID string) (*Order, error) {
	c, err := s.catalog.FindCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			return nil, ErrCourseNotAvailable.WithCause(err)
		}
		return nil, err
	}
	if !c.Published {
		return nil, ErrCourseNotAvailable
	}

	if _, err := s.repo.FindEnrollment(ctx, userID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, ErrNotEnrolled) {
		return nil, err
	}

	o := &Order{
		ID:       uuid.Must(uuid.NewV7()).String(),
		UserID:   userID,
		CourseID: courseID,
		Amount:   c.Price,
		Currency: defaultCurrency,
		Status:   OrderStatusPending,
	}

	gw, err := s.gateway.CreateOrder(ctx, o.Amount, o.Currency, o.ID)
	if err != nil {
		s.logger.Error("gateway order creation failed", "course_id", courseID, "error", err)
		return nil, err
	}
	o.GatewayOrderID = gw.ID

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("payment order created", "order_id", o.ID, "course_id", courseID, "amount", o.Amount)
	return o, nil
}

// VerifyPayment checks the gateway signature over the order. Success marks
// the order paid and creates the enrollment; a repeat verification of an
// already-paid order converges on the same enrollment.
func (s *service) VerifyPayment(ctx context.Context, userID, orderID, paymentID, signature string) (*Enrollment, error) {
	o, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}

	if !s.gateway.VerifySignature(o.GatewayOrderID, paymentID, signature) {
		s.logger.Warn("payment signature mismatch", "order_id", orderID)
		if o.Status == OrderStatusPending {
			if err := s.repo.UpdateOrderStatus(ctx, o.ID, OrderStatusFailed); err != nil {
				s.logger.Error("failed to mark order failed", "order_id", orderID, "error", err)
			}
		}
		return nil, ErrSignatureMismatch
	}

	if o.Status != OrderStatusPaid {
		if err := s.repo.UpdateOrderStatus(ctx, o.ID, OrderStatusPaid); err != nil {
			return nil, err
		}
	}

	e := &Enrollment{
		ID:       uuid.Must(uuid.NewV7()).String(),
		UserID:   o.UserID,
		CourseID: o.CourseID,
		Status:   StatusActive,
	}
	if err := s.repo.InsertEnrollment(ctx, e); err != nil {
		return nil, err
	}

	// Read back: a concurrent verification may have won the insert.
	e, err = s.repo.FindEnrollment(ctx, o.UserID, o.CourseID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment created", "enrollment_id", e.ID, "course_id", o.CourseID)
	return e, nil
}

// GetModules returns the course's modules in order, each flagged with the
// learner's unlock and completion state. The first module is always
// unlocked; each later module unlocks once every lecture of the one before
// it is completed.
func (s *service) GetModules(ctx context.Context, userID, courseID string) ([]ModuleProgress, error) {
	e, err := s.repo.FindEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	modules, err := s.catalog.ListModules(ctx, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.ListCompletedLectures(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	out := make([]ModuleProgress, 0, len(modules))
	prevDone := true
	for _, m := range modules {
		lectures, err := s.catalog.ListLectures(ctx, m.ID)
		if err != nil {
			return nil, err
		}

		done := true
		for _, l := range lectures {
			if _, ok := completed[l.ID]; !ok {
				done = false
				break
			}
		}

		out = append(out, ModuleProgress{
			Module:       m,
			LectureCount: len(lectures),
			Unlocked:     prevDone,
			Completed:    done && len(lectures) > 0,
		})
		prevDone = prevDone && done
	}
	return out, nil
}

// GetLectures returns a module's lectures in order with completion flags.
func (s *service) GetLectures(ctx context.Context, userID, moduleID string) ([]LectureProgress, error) {
	m, err := s.catalog.FindModuleByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	e, err := s.repo.FindEnrollment(ctx, userID, m.CourseID)
	if err != nil {
		return nil, err
	}

	lectures, err := s.catalog.ListLectures(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.ListCompletedLectures(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	out := make([]LectureProgress, 0, len(lectures))
	for _, l := range lectures {
		_, done := completed[l.ID]
		out = append(out, LectureProgress{Lecture: l, Completed: done})
	}
	return out, nil
}

// MarkLectureComplete records a lecture as done. The unlock rule is checked
// here, not trusted from the client: a lecture in a still-locked module is
// rejected. Completing the last outstanding lecture flips the enrollment to
// completed. Marking an already-completed lecture is a no-op.
func (s *service) MarkLectureComplete(ctx context.Context, userID, lectureID string) error {
	l, err := s.catalog.FindLectureByID(ctx, lectureID)
	if err != nil {
		return err
	}
	m, err := s.catalog.FindModuleByID(ctx, l.ModuleID)
	if err != nil {
		return err
	}
	e, err := s.repo.FindEnrollment(ctx, userID, m.CourseID)
	if err != nil {
		return err
	}

	modules, err := s.catalog.ListModules(ctx, m.CourseID)
	if err != nil {
		return err
	}
	completed, err := s.repo.ListCompletedLectures(ctx, e.ID)
	if err != nil {
		return err
	}

	unlocked, err := s.moduleUnlocked(ctx, modules, m.ID, completed)
	if err != nil {
		return err
	}
	if !unlocked {
		return ErrLectureLocked
	}

	if err := s.repo.MarkLectureCompleted(ctx, e.ID, lectureID); err != nil {
		return err
	}
	completed[lectureID] = struct{}{}

	allDone, total, err := s.allLecturesCompleted(ctx, modules, completed)
	if err != nil {
		return err
	}
	if allDone && total > 0 && e.Status != StatusCompleted {
		now := time.Now()
		if err := s.repo.UpdateEnrollmentStatus(ctx, e.ID, StatusCompleted, &now); err != nil {
			return err
		}
		s.logger.Info("course completed", "enrollment_id", e.ID, "course_id", m.CourseID)
	}
	return nil
}

// ListMyCourses returns the learner's enrollments with completion ratios.
func (s *service) ListMyCourses(ctx context.Context, userID string) ([]MyCourse, error) {
	enrollments, err := s.repo.ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]MyCourse, 0, len(enrollments))
	for _, e := range enrollments {
		c, err := s.catalog.FindCourseByID(ctx, e.CourseID)
		if err != nil {
			if errors.Is(err, course.ErrCourseNotFound) {
				continue
			}
			return nil, err
		}

		completed, err := s.repo.ListCompletedLectures(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		modules, err := s.catalog.ListModules(ctx, e.CourseID)
		if err != nil {
			return nil, err
		}

		total := 0
		for _, m := range modules {
			lectures, err := s.catalog.ListLectures(ctx, m.ID)
			if err != nil {
				return nil, err
			}
			total += len(lectures)
		}

		out = append(out, MyCourse{
			Course:            *c,
			Status:            e.Status,
			EnrolledAt:        e.EnrolledAt,
			CompletedLectures: len(completed),
			TotalLectures:     total,
		})
	}
	return out, nil
}

// moduleUnlocked walks the ordered modules and reports whether target is
// reachable: every module before it must have all lectures completed.
func (s *service) moduleUnlocked(ctx context.Context, modules []course.Module, targetID string, completed map[string]struct{}) (bool, error) {
	for _, m := range modules {
		if m.ID == targetID {
			return true, nil
		}
		lectures, err := s.catalog.ListLectures(ctx, m.ID)
		if err != nil {
			return false, err
		}
		for _, l := range lectures {
			if _, ok := completed[l.ID]; !ok {
				return false, nil
			}
		}
	}
	// Target not among the course's modules; treat as locked.
	return false, nil
}

func (s *service) allLecturesCompleted(ctx context.Context, modules []course.Module, completed map[string]struct{}) (bool, int, error) {
	total := 0
	allDone := true
	for _, m := range modules {
		lectures, err := s.catalog.ListLectures(ctx, m.ID)
		if err != nil {
			return false, 0, err
		}
		total += len(lectures)
		for _, l := range lectures {
			if _, ok := completed[l.ID]; !ok {
				allDone = false
			}
		}
	}
	return allDone, total, nil
}
