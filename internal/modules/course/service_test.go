package course

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anand-5154/edurise-server/internal/modules/user"
)

func newTestService(t *testing.T) (Service, *fakeRepo, *fakeDirectory) {
	t.Helper()
	repo := newFakeRepo()
	dir := newFakeDirectory()
	dir.add("instructor-1", user.RoleInstructor, user.AccountStatusActive)
	dir.add("instructor-2", user.RoleInstructor, user.AccountStatusActive)
	dir.add("pending-instructor", user.RoleInstructor, user.AccountStatusPending)
	dir.add("student-1", user.RoleStudent, user.AccountStatusActive)
	svc := NewService(&Config{
		Repo:     repo,
		Accounts: dir,
		Logger:   slog.New(slog.DiscardHandler),
	})
	return svc, repo, dir
}

func instructor(id string) Actor { return Actor{ID: id, Role: user.RoleInstructor} }

var admin = Actor{ID: "admin-1", Role: user.RoleAdmin}

func courseInput(categoryID string) CourseInput {
	return CourseInput{
		CategoryID:  categoryID,
		Title:       "Practical Go",
		Description: "From zero to services",
		Price:       49900,
		Level:       LevelBeginner,
		Duration:    12,
	}
}

// seedCourse creates a category and a course owned by instructor-1.
func seedCourse(t *testing.T, svc Service) *Course {
	t.Helper()
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, "Programming")
	require.NoError(t, err)
	c, err := svc.CreateCourse(ctx, "instructor-1", courseInput(cat.ID))
	require.NoError(t, err)
	return c
}

func TestCreateCourse(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)

	assert.Equal(t, "instructor-1", c.InstructorID)
	assert.False(t, c.Published, "new courses start unpublished")
	assert.Equal(t, int64(49900), c.Price)
}

func TestCreateCourse_PendingInstructor(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, "Programming")
	require.NoError(t, err)

	_, err = svc.CreateCourse(ctx, "pending-instructor", courseInput(cat.ID))
	assert.ErrorIs(t, err, ErrInstructorNotActive)
}

func TestCreateCourse_StudentRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	cat, err := svc.CreateCategory(ctx, "Programming")
	require.NoError(t, err)

	_, err = svc.CreateCourse(ctx, "student-1", courseInput(cat.ID))
	assert.ErrorIs(t, err, ErrInstructorNotActive)
}

func TestCreateCourse_UnknownCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateCourse(context.Background(), "instructor-1", courseInput("no-such-category"))
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCourse_OnlyOwnerOrAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()

	input := courseInput(c.CategoryID)
	input.Title = "Renamed"

	_, err := svc.UpdateCourse(ctx, instructor("instructor-2"), c.ID, input)
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.UpdateCourse(ctx, instructor("instructor-1"), c.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	input.Title = "Renamed Again"
	updated, err = svc.UpdateCourse(ctx, admin, c.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Again", updated.Title)
}

func TestDeleteCourse_BlockedByEnrollments(t *testing.T) {
	svc, repo, _ := newTestService(t)
	c := seedCourse(t, svc)
	repo.enrolled[c.ID] = true

	err := svc.DeleteCourse(context.Background(), instructor("instructor-1"), c.ID)
	assert.ErrorIs(t, err, ErrCourseHasEnrollments)
}

func TestDeleteCourse(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.DeleteCourse(ctx, instructor("instructor-1"), c.ID))
	_, err := svc.GetCourse(ctx, c.ID, nil)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSetPublished(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()

	published, err := svc.SetPublished(ctx, instructor("instructor-1"), c.ID, true)
	require.NoError(t, err)
	assert.True(t, published.Published)

	// Toggling to the same state is a no-op, not an error.
	again, err := svc.SetPublished(ctx, instructor("instructor-1"), c.ID, true)
	require.NoError(t, err)
	assert.True(t, again.Published)
}

func TestGetCourse_UnpublishedVisibility(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()

	_, err := svc.GetCourse(ctx, c.ID, nil)
	assert.ErrorIs(t, err, ErrCourseNotFound, "anonymous readers never see drafts")

	stranger := instructor("instructor-2")
	_, err = svc.GetCourse(ctx, c.ID, &stranger)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	owner := instructor("instructor-1")
	detail, err := svc.GetCourse(ctx, c.ID, &owner)
	require.NoError(t, err)
	assert.Equal(t, c.ID, detail.ID)

	_, err = svc.GetCourse(ctx, c.ID, &admin)
	require.NoError(t, err)

	_, err = svc.SetPublished(ctx, owner, c.ID, true)
	require.NoError(t, err)
	_, err = svc.GetCourse(ctx, c.ID, nil)
	require.NoError(t, err, "published courses are public")
}

func TestListPublic_OnlyPublished(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()

	page, err := svc.ListPublic(ctx, ListParams{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = svc.SetPublished(ctx, instructor("instructor-1"), c.ID, true)
	require.NoError(t, err)

	page, err = svc.ListPublic(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Courses, 1)
	assert.Equal(t, c.ID, page.Courses[0].ID)
}

func TestListByInstructor_IncludesDrafts(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)

	page, err := svc.ListByInstructor(context.Background(), "instructor-1", ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Courses, 1)
	assert.Equal(t, c.ID, page.Courses[0].ID)

	page, err = svc.ListByInstructor(context.Background(), "instructor-2", ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Courses)
}

func TestModules_AppendAndReorder(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()
	owner := instructor("instructor-1")

	first, err := svc.AddModule(ctx, owner, c.ID, "Basics")
	require.NoError(t, err)
	second, err := svc.AddModule(ctx, owner, c.ID, "Concurrency")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	require.NoError(t, svc.ReorderModules(ctx, owner, c.ID, []string{second.ID, first.ID}))

	detail, err := svc.GetCourse(ctx, c.ID, &owner)
	require.NoError(t, err)
	require.Len(t, detail.Modules, 2)
	assert.Equal(t, second.ID, detail.Modules[0].ID)
	assert.Equal(t, first.ID, detail.Modules[1].ID)
}

func TestReorderModules_Mismatch(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()
	owner := instructor("instructor-1")

	first, err := svc.AddModule(ctx, owner, c.ID, "Basics")
	require.NoError(t, err)
	_, err = svc.AddModule(ctx, owner, c.ID, "Concurrency")
	require.NoError(t, err)

	err = svc.ReorderModules(ctx, owner, c.ID, []string{first.ID})
	assert.ErrorIs(t, err, ErrReorderMismatch, "missing an ID")

	err = svc.ReorderModules(ctx, owner, c.ID, []string{first.ID, "bogus"})
	assert.ErrorIs(t, err, ErrReorderMismatch, "foreign ID")

	err = svc.ReorderModules(ctx, owner, c.ID, []string{first.ID, first.ID})
	assert.ErrorIs(t, err, ErrReorderMismatch, "duplicate ID")
}

func TestRemoveModule_ClosesPositionGap(t *testing.T) {
	svc, repo, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()
	owner := instructor("instructor-1")

	first, err := svc.AddModule(ctx, owner, c.ID, "Basics")
	require.NoError(t, err)
	_, err = svc.AddModule(ctx, owner, c.ID, "Concurrency")
	require.NoError(t, err)
	third, err := svc.AddModule(ctx, owner, c.ID, "Networking")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveModule(ctx, owner, first.ID))

	modules, err := repo.ListModules(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, 0, modules[0].Position)
	assert.Equal(t, 1, modules[1].Position)
	assert.Equal(t, third.ID, modules[1].ID)
}

func TestModuleMutation_OwnershipFollowsCourse(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()

	m, err := svc.AddModule(ctx, instructor("instructor-1"), c.ID, "Basics")
	require.NoError(t, err)

	_, err = svc.RenameModule(ctx, instructor("instructor-2"), m.ID, "Hijacked")
	assert.ErrorIs(t, err, ErrNotOwner)

	renamed, err := svc.RenameModule(ctx, admin, m.ID, "Fundamentals")
	require.NoError(t, err)
	assert.Equal(t, "Fundamentals", renamed.Title)
}

func TestLectures_AppendAndReorder(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()
	owner := instructor("instructor-1")

	m, err := svc.AddModule(ctx, owner, c.ID, "Basics")
	require.NoError(t, err)

	first, err := svc.AddLecture(ctx, owner, m.ID, LectureInput{Title: "Hello"})
	require.NoError(t, err)
	second, err := svc.AddLecture(ctx, owner, m.ID, LectureInput{Title: "Types"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	err = svc.ReorderLectures(ctx, owner, m.ID, []string{second.ID})
	assert.ErrorIs(t, err, ErrReorderMismatch)

	require.NoError(t, svc.ReorderLectures(ctx, owner, m.ID, []string{second.ID, first.ID}))
}

func TestUpdateLecture(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedCourse(t, svc)
	ctx := context.Background()
	owner := instructor("instructor-1")

	m, err := svc.AddModule(ctx, owner, c.ID, "Basics")
	require.NoError(t, err)
	l, err := svc.AddLecture(ctx, owner, m.ID, LectureInput{Title: "Hello", Duration: 10})
	require.NoError(t, err)

	_, err = svc.UpdateLecture(ctx, instructor("instructor-2"), l.ID, LectureInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.UpdateLecture(ctx, owner, l.ID, LectureInput{
		Title:         "Hello, World",
		Duration:      15,
		ResourceLinks: []string{"https://go.dev/tour"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, World", updated.Title)
	assert.Equal(t, []string{"https://go.dev/tour"}, updated.ResourceLinks)
}

func TestCategories(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Programming")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "Programming")
	assert.ErrorIs(t, err, ErrCategoryExists)

	renamed, err := svc.UpdateCategory(ctx, cat.ID, "Software")
	require.NoError(t, err)
	assert.Equal(t, "Software", renamed.Name)

	_, err = svc.CreateCourse(ctx, "instructor-1", courseInput(cat.ID))
	require.NoError(t, err)
	err = svc.DeleteCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse, "categories with courses cannot be removed")

	other, err := svc.CreateCategory(ctx, "Design")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, other.ID))

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Software", cats[0].Name)
}
