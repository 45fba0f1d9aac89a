package course

import (
	"context"
	"sort"
	"sync"

	"github.com/anand-5154/edurise-server/internal/modules/user"
)

// fakeRepo is an in-memory Repository keeping the same position semantics
// as the SQL implementation: appends go to the end, deletes close the gap.
type fakeRepo struct {
	mu          sync.Mutex
	categories  map[string]*Category
	courses     map[string]*Course
	modules     map[string]*Module
	lectures    map[string]*Lecture
	enrolled    map[string]bool // courseID -> has enrollments
	namesInUse  map[string]string
	instructors map[string]string // courseID owner names for detail views
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories:  make(map[string]*Category),
		courses:     make(map[string]*Course),
		modules:     make(map[string]*Module),
		lectures:    make(map[string]*Lecture),
		enrolled:    make(map[string]bool),
		namesInUse:  make(map[string]string),
		instructors: make(map[string]string),
	}
}

func (f *fakeRepo) CreateCategory(_ context.Context, c *Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.namesInUse[c.Name]; taken {
		return ErrCategoryExists
	}
	f.namesInUse[c.Name] = c.ID
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateCategory(_ context.Context, c *Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.categories[c.ID]
	if !ok {
		return ErrCategoryNotFound
	}
	if owner, taken := f.namesInUse[c.Name]; taken && owner != c.ID {
		return ErrCategoryExists
	}
	delete(f.namesInUse, stored.Name)
	f.namesInUse[c.Name] = c.ID
	stored.Name = c.Name
	return nil
}

func (f *fakeRepo) DeleteCategory(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return ErrCategoryNotFound
	}
	for _, course := range f.courses {
		if course.CategoryID == id {
			return ErrCategoryInUse
		}
	}
	delete(f.namesInUse, c.Name)
	delete(f.categories, id)
	return nil
}

func (f *fakeRepo) ListCategories(_ context.Context) ([]Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) FindCategoryByID(_ context.Context, id string) (*Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) CreateCourse(_ context.Context, c *Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateCourse(_ context.Context, c *Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[c.ID]; !ok {
		return ErrCourseNotFound
	}
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteCourse(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeRepo) FindCourseByID(_ context.Context, id string) (*Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListCourses(_ context.Context, p ListParams, publishedOnly bool, instructorID string) ([]Course, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []Course
	for _, c := range f.courses {
		if publishedOnly && !c.Published {
			continue
		}
		if instructorID != "" && c.InstructorID != instructorID {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })

	total := int64(len(matched))
	start := int(p.offset())
	if start > len(matched) {
		return nil, total, nil
	}
	end := start + p.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeRepo) GetCourseDetail(ctx context.Context, id string) (*CourseDetail, error) {
	c, err := f.FindCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &CourseDetail{Course: *c, InstructorName: f.instructors[id]}
	if cat, ok := f.categories[c.CategoryID]; ok {
		detail.CategoryName = cat.Name
	}
	modules, _ := f.ListModules(ctx, id)
	for _, m := range modules {
		lectures, _ := f.ListLectures(ctx, m.ID)
		detail.Modules = append(detail.Modules, ModuleWithLectures{Module: m, Lectures: lectures})
	}
	return detail, nil
}

func (f *fakeRepo) HasEnrollments(_ context.Context, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enrolled[courseID], nil
}

func (f *fakeRepo) CreateModule(_ context.Context, m *Module) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.Position = 0
	for _, other := range f.modules {
		if other.CourseID == m.CourseID && other.Position >= m.Position {
			m.Position = other.Position + 1
		}
	}
	cp := *m
	f.modules[m.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateModule(_ context.Context, m *Module) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.modules[m.ID]
	if !ok {
		return ErrModuleNotFound
	}
	stored.Title = m.Title
	return nil
}

func (f *fakeRepo) DeleteModule(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.modules[id]
	if !ok {
		return ErrModuleNotFound
	}
	delete(f.modules, id)
	for _, other := range f.modules {
		if other.CourseID == m.CourseID && other.Position > m.Position {
			other.Position--
		}
	}
	return nil
}

func (f *fakeRepo) FindModuleByID(_ context.Context, id string) (*Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.modules[id]
	if !ok {
		return nil, ErrModuleNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) ListModules(_ context.Context, courseID string) ([]Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Module
	for _, m := range f.modules {
		if m.CourseID == courseID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeRepo) SetModulePositions(_ context.Context, courseID string, orderedIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, id := range orderedIDs {
		m, ok := f.modules[id]
		if !ok || m.CourseID != courseID {
			return ErrModuleNotFound
		}
		m.Position = i
	}
	return nil
}

func (f *fakeRepo) CreateLecture(_ context.Context, l *Lecture) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.Position = 0
	for _, other := range f.lectures {
		if other.ModuleID == l.ModuleID && other.Position >= l.Position {
			l.Position = other.Position + 1
		}
	}
	cp := *l
	f.lectures[l.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateLecture(_ context.Context, l *Lecture) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.lectures[l.ID]
	if !ok {
		return ErrLectureNotFound
	}
	pos := stored.Position
	cp := *l
	cp.Position = pos
	f.lectures[l.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteLecture(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lectures[id]
	if !ok {
		return ErrLectureNotFound
	}
	delete(f.lectures, id)
	for _, other := range f.lectures {
		if other.ModuleID == l.ModuleID && other.Position > l.Position {
			other.Position--
		}
	}
	return nil
}

func (f *fakeRepo) FindLectureByID(_ context.Context, id string) (*Lecture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lectures[id]
	if !ok {
		return nil, ErrLectureNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) ListLectures(_ context.Context, moduleID string) ([]Lecture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Lecture
	for _, l := range f.lectures {
		if l.ModuleID == moduleID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeRepo) SetLecturePositions(_ context.Context, moduleID string, orderedIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, id := range orderedIDs {
		l, ok := f.lectures[id]
		if !ok || l.ModuleID != moduleID {
			return ErrLectureNotFound
		}
		l.Position = i
	}
	return nil
}

// fakeDirectory resolves instructor accounts for the authoring checks.
type fakeDirectory struct {
	users map[string]*user.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[string]*user.User)}
}

func (f *fakeDirectory) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDirectory) add(id string, role user.Role, status user.AccountStatus) {
	f.users[id] = &user.User{ID: id, Role: role, AccountStatus: status}
}
