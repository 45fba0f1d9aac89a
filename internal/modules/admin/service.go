package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anand-5154/edurise-server/internal/modules/user"
	"github.com/anand-5154/edurise-server/internal/notification"
)

const (
	reportCacheKey = "admin:dashboard:report"
	reportCacheTTL = 5 * time.Minute
)

// Accounts is the slice of the identity module moderation needs.
// user.Repository satisfies it.
type Accounts interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
}

// Service defines the business logic of the moderation module.
type Service interface {
	// Instructor approval lifecycle. Pending accounts are verified or
	// rejected; verified accounts can be blocked and unblocked. There is no
	// way out of rejected.
	VerifyInstructor(ctx context.Context, instructorID string) (*user.User, error)
	RejectInstructor(ctx context.Context, instructorID string) (*user.User, error)
	BlockInstructor(ctx context.Context, instructorID string) (*user.User, error)
	UnblockInstructor(ctx context.Context, instructorID string) (*user.User, error)

	// Student access control.
	BlockStudent(ctx context.Context, studentID string) (*user.User, error)
	UnblockStudent(ctx context.Context, studentID string) (*user.User, error)

	ListUsers(ctx context.Context, p ListUsersParams) (*UserPage, error)
	DashboardReport(ctx context.Context) (*Report, error)
}

// service implements the Service interface.
type service struct {
	repo     Repository
	accounts Accounts
	notifier notification.Service
	cache    *redis.Client
	logger   *slog.Logger
}

// Config holds the dependencies for the moderation service.
type Config struct {
	Repo     Repository
	Accounts Accounts
	Notifier notification.Service
	Cache    *redis.Client
	Logger   *slog.Logger
}

// NewService creates a new moderation service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:     cfg.Repo,
		accounts: cfg.Accounts,
		notifier: cfg.Notifier,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
	}
}

// --- Instructor lifecycle ---

func (s *service) VerifyInstructor(ctx context.Context, instructorID string) (*user.User, error) {
	return s.transitionInstructor(ctx, instructorID,
		user.AccountStatusPending, user.AccountStatusActive,
		"Your instructor account has been verified. You can now publish courses.")
}

func (s *service) RejectInstructor(ctx context.Context, instructorID string) (*user.User, error) {
	return s.transitionInstructor(ctx, instructorID,
		user.AccountStatusPending, user.AccountStatusRejected,
		"Your instructor application was not approved.")
}

func (s *service) BlockInstructor(ctx context.Context, instructorID string) (*user.User, error) {
	return s.transitionInstructor(ctx, instructorID,
		user.AccountStatusActive, user.AccountStatusBlocked,
		"Your instructor account has been blocked.")
}

func (s *service) UnblockInstructor(ctx context.Context, instructorID string) (*user.User, error) {
	return s.transitionInstructor(ctx, instructorID,
		user.AccountStatusBlocked, user.AccountStatusActive,
		"Your instructor account has been unblocked.")
}

// transitionInstructor applies one edge of the approval state machine. The
// account must be an instructor sitting exactly in the from state.
func (s *service) transitionInstructor(ctx context.Context, instructorID string, from, to user.AccountStatus, message string) (*user.User, error) {
	u, err := s.accounts.FindByID(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if u.Role != user.RoleInstructor {
		return nil, ErrNotInstructor
	}
	if u.AccountStatus != from {
		return nil, ErrInvalidTransition.WithContext(map[string]string{"status": string(u.AccountStatus)})
	}

	u.AccountStatus = to
	if err := s.accounts.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("instructor status changed",
		"instructor_id", instructorID, "from", string(from), "to", string(to))

	s.sendStatusEmail(ctx, u, message)
	return u, nil
}

// --- Student access ---

func (s *service) BlockStudent(ctx context.Context, studentID string) (*user.User, error) {
	return s.setStudentBlocked(ctx, studentID, true, "Your account has been blocked.")
}

func (s *service) UnblockStudent(ctx context.Context, studentID string) (*user.User, error) {
	return s.setStudentBlocked(ctx, studentID, false, "Your account has been unblocked.")
}

func (s *service) setStudentBlocked(ctx context.Context, studentID string, blocked bool, message string) (*user.User, error) {
	u, err := s.accounts.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if u.Role != user.RoleStudent {
		return nil, ErrNotStudent
	}
	if u.Blocked == blocked {
		return u, nil
	}

	u.Blocked = blocked
	if err := s.accounts.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("student block state changed", "student_id", studentID, "blocked", blocked)

	s.sendStatusEmail(ctx, u, message)
	return u, nil
}

// --- Listings & reporting ---

func (s *service) ListUsers(ctx context.Context, p ListUsersParams) (*UserPage, error) {
	p.normalize()
	users, total, err := s.repo.ListUsers(ctx, p)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, PageNum: p.Page, PageSize: p.PageSize}, nil
}

// DashboardReport returns the platform counters. Results are cached for a
// few minutes; if both the cache and the database are unavailable the
// report degrades to zeros instead of failing the dashboard.
func (s *service) DashboardReport(ctx context.Context) (*Report, error) {
	if cached, err := s.cache.Get(ctx, reportCacheKey).Bytes(); err == nil {
		var r Report
		if err := json.Unmarshal(cached, &r); err == nil {
			return &r, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("report cache read failed", "error", err)
	}

	r := &Report{}
	var err error
	if r.Students, err = s.repo.CountUsersByRole(ctx, user.RoleStudent); err != nil {
		s.logger.Error("dashboard report query failed", "error", err)
		return &Report{}, nil
	}
	if r.Instructors, err = s.repo.CountUsersByRole(ctx, user.RoleInstructor); err != nil {
		s.logger.Error("dashboard report query failed", "error", err)
		return &Report{}, nil
	}
	if r.Courses, err = s.repo.CountCourses(ctx); err != nil {
		s.logger.Error("dashboard report query failed", "error", err)
		return &Report{}, nil
	}
	if r.Enrollments, err = s.repo.CountEnrollments(ctx); err != nil {
		s.logger.Error("dashboard report query failed", "error", err)
		return &Report{}, nil
	}
	if r.Revenue, err = s.repo.SumRevenue(ctx); err != nil {
		s.logger.Error("dashboard report query failed", "error", err)
		return &Report{}, nil
	}

	if payload, err := json.Marshal(r); err == nil {
		if err := s.cache.Set(ctx, reportCacheKey, payload, reportCacheTTL).Err(); err != nil {
			s.logger.Warn("report cache write failed", "error", err)
		}
	}
	return r, nil
}

func (s *service) sendStatusEmail(ctx context.Context, u *user.User, message string) {
	_ = s.notifier.Send(ctx, notification.Notification{
		Recipient: u.Email,
		Channels:  []notification.Channel{notification.ChannelEmail},
		Priority:  notification.PriorityMedium,
		Content:   notification.AccountStatusEmail(u.Name, message),
	})
}
