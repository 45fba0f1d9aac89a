package enrollment

import (
	"time"

	"github.com/anand-5154/edurise-server/internal/modules/course"
)

// OrderStatus tracks a payment order through the gateway round trip.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order is a persisted payment order. Amount is copied from the course at
// creation time in minor currency units; the client never supplies it.
type Order struct {
	ID             string      `db:"id"`
	UserID         string      `db:"user_id"`
	CourseID       string      `db:"course_id"`
	GatewayOrderID string      `db:"gateway_order_id"`
	Amount         int64       `db:"amount"`
	Currency       string      `db:"currency"`
	Status         OrderStatus `db:"status"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

// EnrollmentStatus tracks a learner's relationship with a course.
type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "active"
	StatusCompleted EnrollmentStatus = "completed"
)

// Enrollment links a learner to a course they have paid for. At most one
// row exists per (user, course) pair; the unique index makes concurrent
// payment verifications converge on a single enrollment.
type Enrollment struct {
	ID          string           `db:"id"`
	UserID      string           `db:"user_id"`
	CourseID    string           `db:"course_id"`
	Status      EnrollmentStatus `db:"status"`
	EnrolledAt  time.Time        `db:"enrolled_at"`
	CompletedAt *time.Time       `db:"completed_at"`
}

// ModuleProgress is a module viewed through a learner's progress: whether
// the sequential-unlock rule lets them in, and whether every lecture inside
// is done.
type ModuleProgress struct {
	course.Module
	LectureCount int
	Unlocked     bool
	Completed    bool
}

// LectureProgress is a lecture plus the learner's completion flag.
type LectureProgress struct {
	course.Lecture
	Completed bool
}

// MyCourse is one entry of a learner's course list with a completion ratio.
type MyCourse struct {
	Course            course.Course
	Status            EnrollmentStatus
	EnrolledAt        time.Time
	CompletedLectures int
	TotalLectures     int
}
