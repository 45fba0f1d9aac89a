package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anand-5154/edurise-server/internal/modules/course"
	"github.com/anand-5154/edurise-server/internal/payment"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	mu          sync.Mutex
	orders      map[string]*Order
	enrollments map[string]*Enrollment // keyed userID+"/"+courseID
	completed   map[string]map[string]struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:      make(map[string]*Order),
		enrollments: make(map[string]*Enrollment),
		completed:   make(map[string]map[string]struct{}),
	}
}

func enrollKey(userID, courseID string) string { return userID + "/" + courseID }

func (f *fakeRepo) CreateOrder(_ context.Context, o *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeRepo) FindOrderByID(_ context.Context, id string) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) UpdateOrderStatus(_ context.Context, id string, status OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeRepo) InsertEnrollment(_ context.Context, e *Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := enrollKey(e.UserID, e.CourseID)
	if _, exists := f.enrollments[key]; exists {
		return nil // unique index: silent no-op
	}
	e.EnrolledAt = time.Now()
	cp := *e
	f.enrollments[key] = &cp
	return nil
}

func (f *fakeRepo) FindEnrollment(_ context.Context, userID, courseID string) (*Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[enrollKey(userID, courseID)]
	if !ok {
		return nil, ErrNotEnrolled
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepo) UpdateEnrollmentStatus(_ context.Context, id string, status EnrollmentStatus, completedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.ID == id {
			e.Status = status
			e.CompletedAt = completedAt
			return nil
		}
	}
	return ErrNotEnrolled
}

func (f *fakeRepo) ListEnrollmentsByUser(_ context.Context, userID string) ([]Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Enrollment
	for _, e := range f.enrollments {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkLectureCompleted(_ context.Context, enrollmentID, lectureID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.completed[enrollmentID]
	if !ok {
		set = make(map[string]struct{})
		f.completed[enrollmentID] = set
	}
	set[lectureID] = struct{}{}
	return nil
}

func (f *fakeRepo) ListCompletedLectures(_ context.Context, enrollmentID string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.completed[enrollmentID]))
	for id := range f.completed[enrollmentID] {
		out[id] = struct{}{}
	}
	return out, nil
}

// fakeCatalog holds a fixed course content tree.
type fakeCatalog struct {
	courses  map[string]*course.Course
	modules  map[string]*course.Module
	lectures map[string]*course.Lecture
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		courses:  make(map[string]*course.Course),
		modules:  make(map[string]*course.Module),
		lectures: make(map[string]*course.Lecture),
	}
}

func (f *fakeCatalog) FindCourseByID(_ context.Context, id string) (*course.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCatalog) FindModuleByID(_ context.Context, id string) (*course.Module, error) {
	m, ok := f.modules[id]
	if !ok {
		return nil, course.ErrModuleNotFound
	}
	return m, nil
}

func (f *fakeCatalog) FindLectureByID(_ context.Context, id string) (*course.Lecture, error) {
	l, ok := f.lectures[id]
	if !ok {
		return nil, course.ErrLectureNotFound
	}
	return l, nil
}

func (f *fakeCatalog) ListModules(_ context.Context, courseID string) ([]course.Module, error) {
	var out []course.Module
	for pos := 0; ; pos++ {
		found := false
		for _, m := range f.modules {
			if m.CourseID == courseID && m.Position == pos {
				out = append(out, *m)
				found = true
				break
			}
		}
		if !found {
			return out, nil
		}
	}
}

func (f *fakeCatalog) ListLectures(_ context.Context, moduleID string) ([]course.Lecture, error) {
	var out []course.Lecture
	for pos := 0; ; pos++ {
		found := false
		for _, l := range f.lectures {
			if l.ModuleID == moduleID && l.Position == pos {
				out = append(out, *l)
				found = true
				break
			}
		}
		if !found {
			return out, nil
		}
	}
}

// addCourse seeds a published course with the given module sizes, e.g.
// {2, 1} builds two modules: the first with two lectures, the second with
// one. Returned lecture IDs are ordered module by module.
func (f *fakeCatalog) addCourse(price int64, lectureCounts ...int) (courseID string, lectureIDs [][]string) {
	courseID = uuid.NewString()
	f.courses[courseID] = &course.Course{ID: courseID, Price: price, Published: true}
	for i, count := range lectureCounts {
		moduleID := uuid.NewString()
		f.modules[moduleID] = &course.Module{ID: moduleID, CourseID: courseID, Position: i}
		var ids []string
		for j := 0; j < count; j++ {
			lectureID := uuid.NewString()
			f.lectures[lectureID] = &course.Lecture{ID: lectureID, ModuleID: moduleID, Position: j}
			ids = append(ids, lectureID)
		}
		lectureIDs = append(lectureIDs, ids)
	}
	return courseID, lectureIDs
}

// fakeGateway accepts any signature equal to "valid".
type fakeGateway struct {
	orders int
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payment.Order, error) {
	f.orders++
	return &payment.Order{
		ID:       fmt.Sprintf("order_gw_%d", f.orders),
		Amount:   amount,
		Currency: currency,
		Status:   "created",
	}, nil
}

func (f *fakeGateway) VerifySignature(_, _, signature string) bool {
	return signature == "valid"
}

func newTestService() (Service, *fakeRepo, *fakeCatalog) {
	repo := newFakeRepo()
	catalog := newFakeCatalog()
	svc := NewService(&Config{
		Repo:    repo,
		Catalog: catalog,
		Gateway: &fakeGateway{},
		Logger:  slog.New(slog.DiscardHandler),
	})
	return svc, repo, catalog
}

// enroll pays for the course and returns the enrollment.
func enroll(t *testing.T, svc Service, userID, courseID string) *Enrollment {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), userID, courseID)
	require.NoError(t, err)
	e, err := svc.VerifyPayment(context.Background(), userID, o.ID, "pay_1", "valid")
	require.NoError(t, err)
	return e
}

func TestCreateOrder_PriceComesFromCourse(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, _ := catalog.addCourse(49900, 1)

	o, err := svc.CreateOrder(context.Background(), "student-1", courseID)
	require.NoError(t, err)
	assert.Equal(t, int64(49900), o.Amount)
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.NotEmpty(t, o.GatewayOrderID)
}

func TestCreateOrder_UnpublishedCourse(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, _ := catalog.addCourse(1000, 1)
	catalog.courses[courseID].Published = false

	_, err := svc.CreateOrder(context.Background(), "student-1", courseID)
	assert.ErrorIs(t, err, ErrCourseNotAvailable)
}

func TestCreateOrder_AlreadyEnrolled(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, _ := catalog.addCourse(1000, 1)
	enroll(t, svc, "student-1", courseID)

	_, err := svc.CreateOrder(context.Background(), "student-1", courseID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestVerifyPayment_SignatureMismatch(t *testing.T) {
	svc, repo, catalog := newTestService()
	courseID, _ := catalog.addCourse(1000, 1)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, "student-1", courseID)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(ctx, "student-1", o.ID, "pay_1", "forged")
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	stored, err := repo.FindOrderByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusFailed, stored.Status)

	_, err = repo.FindEnrollment(ctx, "student-1", courseID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestVerifyPayment_WrongUser(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, _ := catalog.addCourse(1000, 1)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, "student-1", courseID)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(ctx, "student-2", o.ID, "pay_1", "valid")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerifyPayment_RepeatYieldsSameEnrollment(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, _ := catalog.addCourse(1000, 1)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, "student-1", courseID)
	require.NoError(t, err)

	first, err := svc.VerifyPayment(ctx, "student-1", o.ID, "pay_1", "valid")
	require.NoError(t, err)
	second, err := svc.VerifyPayment(ctx, "student-1", o.ID, "pay_1", "valid")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestGetModules_FirstUnlockedRestLocked(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, _ := catalog.addCourse(1000, 2, 1, 1)
	enroll(t, svc, "student-1", courseID)

	modules, err := svc.GetModules(context.Background(), "student-1", courseID)
	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.True(t, modules[0].Unlocked)
	assert.False(t, modules[1].Unlocked)
	assert.False(t, modules[2].Unlocked)
	for _, m := range modules {
		assert.False(t, m.Completed)
	}
}

func TestGetModules_UnlockAdvancesWithCompletion(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, lectures := catalog.addCourse(1000, 2, 1, 1)
	enroll(t, svc, "student-1", courseID)
	ctx := context.Background()

	require.NoError(t, svc.MarkLectureComplete(ctx, "student-1", lectures[0][0]))
	modules, err := svc.GetModules(ctx, "student-1", courseID)
	require.NoError(t, err)
	assert.False(t, modules[1].Unlocked, "one of two lectures is not enough")

	require.NoError(t, svc.MarkLectureComplete(ctx, "student-1", lectures[0][1]))
	modules, err = svc.GetModules(ctx, "student-1", courseID)
	require.NoError(t, err)
	assert.True(t, modules[0].Completed)
	assert.True(t, modules[1].Unlocked)
	assert.False(t, modules[2].Unlocked, "third module needs the second done too")
}

func TestGetModules_NotEnrolled(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, _ := catalog.addCourse(1000, 1)

	_, err := svc.GetModules(context.Background(), "stranger", courseID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestMarkLectureComplete_LockedModule(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, lectures := catalog.addCourse(1000, 1, 1)
	enroll(t, svc, "student-1", courseID)

	// Jumping straight to the second module must be rejected.
	err := svc.MarkLectureComplete(context.Background(), "student-1", lectures[1][0])
	assert.ErrorIs(t, err, ErrLectureLocked)
}

func TestMarkLectureComplete_Idempotent(t *testing.T) {
	svc, repo, catalog := newTestService()
	courseID, lectures := catalog.addCourse(1000, 2)
	e := enroll(t, svc, "student-1", courseID)
	ctx := context.Background()

	require.NoError(t, svc.MarkLectureComplete(ctx, "student-1", lectures[0][0]))
	require.NoError(t, svc.MarkLectureComplete(ctx, "student-1", lectures[0][0]))

	completed, err := repo.ListCompletedLectures(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestMarkLectureComplete_FinishingCourseCompletesEnrollment(t *testing.T) {
	svc, repo, catalog := newTestService()
	courseID, lectures := catalog.addCourse(1000, 1, 1)
	enroll(t, svc, "student-1", courseID)
	ctx := context.Background()

	require.NoError(t, svc.MarkLectureComplete(ctx, "student-1", lectures[0][0]))
	e, err := repo.FindEnrollment(ctx, "student-1", courseID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, e.Status)

	require.NoError(t, svc.MarkLectureComplete(ctx, "student-1", lectures[1][0]))
	e, err = repo.FindEnrollment(ctx, "student-1", courseID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)
}

func TestListMyCourses(t *testing.T) {
	svc, _, catalog := newTestService()
	courseID, lectures := catalog.addCourse(1000, 2, 1)
	enroll(t, svc, "student-1", courseID)
	ctx := context.Background()

	require.NoError(t, svc.MarkLectureComplete(ctx, "student-1", lectures[0][0]))

	mine, err := svc.ListMyCourses(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].CompletedLectures)
	assert.Equal(t, 3, mine[0].TotalLectures)
	assert.Equal(t, StatusActive, mine[0].Status)
}
