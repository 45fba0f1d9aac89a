package course

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/anand-5154/edurise-server/internal/contextx"
	"github.com/anand-5154/edurise-server/internal/httpx"
	"github.com/anand-5154/edurise-server/internal/modules/user"
	"github.com/anand-5154/edurise-server/internal/validation"
)

// Handler holds the dependencies for the catalog module's HTTP handlers.
type Handler struct {
	service        Service
	logger         *slog.Logger
	instructorAuth func(huma.Context, func(huma.Context))
	adminAuth      func(huma.Context, func(huma.Context))
}

// NewHandler creates a new handler for the catalog module.
func NewHandler(service Service, logger *slog.Logger, instructorAuth, adminAuth func(huma.Context, func(huma.Context))) *Handler {
	return &Handler{
		service:        service,
		logger:         logger,
		instructorAuth: instructorAuth,
		adminAuth:      adminAuth,
	}
}

func actorFromContext(ctx context.Context) (Actor, bool) {
	id, ok := ctx.Value(contextx.UserIDKey).(string)
	if !ok || id == "" {
		return Actor{}, false
	}
	role, _ := ctx.Value(contextx.RoleKey).(string)
	return Actor{ID: id, Role: user.Role(role)}, true
}

// RegisterRoutes sets up the catalog endpoints: the public browse surface,
// the instructor authoring surface, and the admin moderation surface.
func (h *Handler) RegisterRoutes(api huma.API) {
	// --- Public catalog ---
	huma.Register(api, huma.Operation{
		OperationID: "list-courses",
		Method:      http.MethodGet,
		Path:        "/users/courses",
		Summary:     "Browse published courses",
	}, h.ListCoursesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "get-course",
		Method:      http.MethodGet,
		Path:        "/users/courses/{courseID}",
		Summary:     "Get a published course with its contents",
	}, h.GetCourseHandler)

	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/users/categories",
		Summary:     "List course categories",
	}, h.ListCategoriesHandler)

	// --- Instructor authoring ---
	h.registerInstructorRoutes(api)

	// --- Admin moderation ---
	h.registerAdminRoutes(api)
}

func (h *Handler) registerInstructorRoutes(api huma.API) {
	guard := huma.Middlewares{h.instructorAuth}
	bearer := []map[string][]string{{"bearer": {}}}

	huma.Register(api, huma.Operation{
		OperationID: "instructor-create-course",
		Method:      http.MethodPost,
		Path:        "/instructors/courses",
		Summary:     "Create a course",
		Security:    bearer,
		Middlewares: guard,
	}, h.CreateCourseHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-list-courses",
		Method:      http.MethodGet,
		Path:        "/instructors/courses",
		Summary:     "List own courses",
		Security:    bearer,
		Middlewares: guard,
	}, h.ListOwnCoursesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-get-course",
		Method:      http.MethodGet,
		Path:        "/instructors/courses/{courseID}",
		Summary:     "Get an own course with its contents",
		Security:    bearer,
		Middlewares: guard,
	}, h.GetOwnCourseHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-update-course",
		Method:      http.MethodPut,
		Path:        "/instructors/courses/{courseID}",
		Summary:     "Update a course",
		Security:    bearer,
		Middlewares: guard,
	}, h.UpdateCourseHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-delete-course",
		Method:      http.MethodDelete,
		Path:        "/instructors/courses/{courseID}",
		Summary:     "Delete a course without enrollments",
		Security:    bearer,
		Middlewares: guard,
	}, h.DeleteCourseHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-publish-course",
		Method:      http.MethodPatch,
		Path:        "/instructors/courses/{courseID}/status",
		Summary:     "Publish or unpublish a course",
		Security:    bearer,
		Middlewares: guard,
	}, h.SetPublishedHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-add-module",
		Method:      http.MethodPost,
		Path:        "/instructors/courses/{courseID}/modules",
		Summary:     "Add a module",
		Security:    bearer,
		Middlewares: guard,
	}, h.AddModuleHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-reorder-modules",
		Method:      http.MethodPut,
		Path:        "/instructors/courses/{courseID}/modules/order",
		Summary:     "Reorder a course's modules",
		Security:    bearer,
		Middlewares: guard,
	}, h.ReorderModulesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-rename-module",
		Method:      http.MethodPatch,
		Path:        "/instructors/modules/{moduleID}",
		Summary:     "Rename a module",
		Security:    bearer,
		Middlewares: guard,
	}, h.RenameModuleHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-delete-module",
		Method:      http.MethodDelete,
		Path:        "/instructors/modules/{moduleID}",
		Summary:     "Delete a module",
		Security:    bearer,
		Middlewares: guard,
	}, h.RemoveModuleHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-add-lecture",
		Method:      http.MethodPost,
		Path:        "/instructors/modules/{moduleID}/lectures",
		Summary:     "Add a lecture",
		Security:    bearer,
		Middlewares: guard,
	}, h.AddLectureHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-reorder-lectures",
		Method:      http.MethodPut,
		Path:        "/instructors/modules/{moduleID}/lectures/order",
		Summary:     "Reorder a module's lectures",
		Security:    bearer,
		Middlewares: guard,
	}, h.ReorderLecturesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-update-lecture",
		Method:      http.MethodPut,
		Path:        "/instructors/lectures/{lectureID}",
		Summary:     "Update a lecture",
		Security:    bearer,
		Middlewares: guard,
	}, h.UpdateLectureHandler)

	huma.Register(api, huma.Operation{
		OperationID: "instructor-delete-lecture",
		Method:      http.MethodDelete,
		Path:        "/instructors/lectures/{lectureID}",
		Summary:     "Delete a lecture",
		Security:    bearer,
		Middlewares: guard,
	}, h.RemoveLectureHandler)
}

func (h *Handler) registerAdminRoutes(api huma.API) {
	guard := huma.Middlewares{h.adminAuth}
	bearer := []map[string][]string{{"bearer": {}}}

	huma.Register(api, huma.Operation{
		OperationID: "admin-create-category",
		Method:      http.MethodPost,
		Path:        "/admin/categories",
		Summary:     "Create a category",
		Security:    bearer,
		Middlewares: guard,
	}, h.CreateCategoryHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-category",
		Method:      http.MethodPut,
		Path:        "/admin/categories/{categoryID}",
		Summary:     "Rename a category",
		Security:    bearer,
		Middlewares: guard,
	}, h.UpdateCategoryHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-category",
		Method:      http.MethodDelete,
		Path:        "/admin/categories/{categoryID}",
		Summary:     "Delete an unused category",
		Security:    bearer,
		Middlewares: guard,
	}, h.DeleteCategoryHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-list-courses",
		Method:      http.MethodGet,
		Path:        "/admin/courses",
		Summary:     "List all courses",
		Security:    bearer,
		Middlewares: guard,
	}, h.AdminListCoursesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-get-course",
		Method:      http.MethodGet,
		Path:        "/admin/courses/{courseID}",
		Summary:     "Get any course with its contents",
		Security:    bearer,
		Middlewares: guard,
	}, h.GetOwnCourseHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-publish-course",
		Method:      http.MethodPatch,
		Path:        "/admin/courses/{courseID}/status",
		Summary:     "Force publish or unpublish a course",
		Security:    bearer,
		Middlewares: guard,
	}, h.SetPublishedHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-course",
		Method:      http.MethodDelete,
		Path:        "/admin/courses/{courseID}",
		Summary:     "Delete a course without enrollments",
		Security:    bearer,
		Middlewares: guard,
	}, h.DeleteCourseHandler)
}

// --- DTOs ---

// CourseBody is the public shape of a course.
type CourseBody struct {
	ID           string    `json:"id"`
	InstructorID string    `json:"instructorId"`
	CategoryID   string    `json:"categoryId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Level        string    `json:"level"`
	Duration     int       `json:"duration"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	DemoVideoURL string    `json:"demoVideoUrl,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
}

func courseBody(c *Course) CourseBody {
	return CourseBody{
		ID:           c.ID,
		InstructorID: c.InstructorID,
		CategoryID:   c.CategoryID,
		Title:        c.Title,
		Description:  c.Description,
		Price:        c.Price,
		Level:        string(c.Level),
		Duration:     c.Duration,
		ThumbnailURL: c.ThumbnailURL,
		DemoVideoURL: c.DemoVideoURL,
		Published:    c.Published,
		CreatedAt:    c.CreatedAt,
	}
}

type LectureBody struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	VideoURL      string   `json:"videoUrl"`
	Duration      int      `json:"duration"`
	Position      int      `json:"position"`
	ResourceLinks []string `json:"resourceLinks,omitempty"`
}

func lectureBody(l *Lecture) LectureBody {
	return LectureBody{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		VideoURL:      l.VideoURL,
		Duration:      l.Duration,
		Position:      l.Position,
		ResourceLinks: l.ResourceLinks,
	}
}

type ModuleBody struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Position int           `json:"position"`
	Lectures []LectureBody `json:"lectures,omitempty"`
}

type CourseDetailBody struct {
	CourseBody
	CategoryName   string       `json:"categoryName"`
	InstructorName string       `json:"instructorName"`
	Modules        []ModuleBody `json:"modules"`
}

func courseDetailBody(d *CourseDetail) CourseDetailBody {
	out := CourseDetailBody{
		CourseBody:     courseBody(&d.Course),
		CategoryName:   d.CategoryName,
		InstructorName: d.InstructorName,
		Modules:        make([]ModuleBody, 0, len(d.Modules)),
	}
	for _, m := range d.Modules {
		mb := ModuleBody{ID: m.ID, Title: m.Title, Position: m.Position}
		for i := range m.Lectures {
			mb.Lectures = append(mb.Lectures, lectureBody(&m.Lectures[i]))
		}
		out.Modules = append(out.Modules, mb)
	}
	return out
}

type CategoryBody struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CourseWriteBody is the request body shared by course create and update.
type CourseWriteBody struct {
	CategoryID   string `json:"categoryId" validate:"required"`
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"required"`
	Price        int64  `json:"price" validate:"gte=0"`
	Level        string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Duration     int    `json:"duration" validate:"gte=0"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
	DemoVideoURL string `json:"demoVideoUrl" validate:"omitempty,url"`
}

func (b CourseWriteBody) toInput() CourseInput {
	return CourseInput{
		CategoryID:   b.CategoryID,
		Title:        b.Title,
		Description:  b.Description,
		Price:        b.Price,
		Level:        Level(b.Level),
		Duration:     b.Duration,
		ThumbnailURL: b.ThumbnailURL,
		DemoVideoURL: b.DemoVideoURL,
	}
}

// LectureWriteBody is the request body shared by lecture create and update.
type LectureWriteBody struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Description   string   `json:"description"`
	VideoURL      string   `json:"videoUrl" validate:"required,url"`
	Duration      int      `json:"duration" validate:"gte=0"`
	ResourceLinks []string `json:"resourceLinks" validate:"dive,url"`
}

func (b LectureWriteBody) toInput() LectureInput {
	return LectureInput{
		Title:         b.Title,
		Description:   b.Description,
		VideoURL:      b.VideoURL,
		Duration:      b.Duration,
		ResourceLinks: b.ResourceLinks,
	}
}

type ListCoursesRequest struct {
	Page     int    `query:"page" minimum:"1"`
	PageSize int    `query:"pageSize" maximum:"100"`
	Search   string `query:"search"`
	Category string `query:"category"`
	Level    string `query:"level" enum:"beginner,intermediate,advanced,"`
	Sort     string `query:"sort" enum:"newest,oldest,price_asc,price_desc,"`
}

func (r ListCoursesRequest) params() ListParams {
	return ListParams{
		Page:     r.Page,
		PageSize: r.PageSize,
		Search:   r.Search,
		Category: r.Category,
		Level:    Level(r.Level),
		Sort:     SortOrder(r.Sort),
	}
}

type ListCoursesResponse struct {
	Body struct {
		Courses  []CourseBody `json:"courses"`
		Total    int64        `json:"total"`
		Page     int          `json:"page"`
		PageSize int          `json:"pageSize"`
	}
}

func listCoursesResponse(page *Page) *ListCoursesResponse {
	resp := &ListCoursesResponse{}
	resp.Body.Courses = make([]CourseBody, 0, len(page.Courses))
	for i := range page.Courses {
		resp.Body.Courses = append(resp.Body.Courses, courseBody(&page.Courses[i]))
	}
	resp.Body.Total = page.Total
	resp.Body.Page = page.PageNum
	resp.Body.PageSize = page.PageSize
	return resp
}

// --- Public handlers ---

func (h *Handler) ListCoursesHandler(ctx context.Context, input *ListCoursesRequest) (*ListCoursesResponse, error) {
	page, err := h.service.ListPublic(ctx, input.params())
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return listCoursesResponse(page), nil
}

type GetCourseRequest struct {
	CourseID string `path:"courseID"`
}

type GetCourseResponse struct {
	Body CourseDetailBody
}

func (h *Handler) GetCourseHandler(ctx context.Context, input *GetCourseRequest) (*GetCourseResponse, error) {
	detail, err := h.service.GetCourse(ctx, input.CourseID, nil)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &GetCourseResponse{Body: courseDetailBody(detail)}, nil
}

type ListCategoriesResponse struct {
	Body struct {
		Categories []CategoryBody `json:"categories"`
	}
}

func (h *Handler) ListCategoriesHandler(ctx context.Context, _ *struct{}) (*ListCategoriesResponse, error) {
	cats, err := h.service.ListCategories(ctx)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &ListCategoriesResponse{}
	resp.Body.Categories = make([]CategoryBody, 0, len(cats))
	for _, c := range cats {
		resp.Body.Categories = append(resp.Body.Categories, CategoryBody{ID: c.ID, Name: c.Name})
	}
	return resp, nil
}

// --- Instructor handlers ---

type CreateCourseRequest struct {
	Body CourseWriteBody
}

type CourseResponse struct {
	Body CourseBody
}

func (h *Handler) CreateCourseHandler(ctx context.Context, input *CreateCourseRequest) (*CourseResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	c, err := h.service.CreateCourse(ctx, actor.ID, input.Body.toInput())
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CourseResponse{Body: courseBody(c)}, nil
}

func (h *Handler) ListOwnCoursesHandler(ctx context.Context, input *ListCoursesRequest) (*ListCoursesResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	page, err := h.service.ListByInstructor(ctx, actor.ID, input.params())
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return listCoursesResponse(page), nil
}

// GetOwnCourseHandler serves instructors looking at their own courses and
// admins looking at anyone's; unpublished content included.
func (h *Handler) GetOwnCourseHandler(ctx context.Context, input *GetCourseRequest) (*GetCourseResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	detail, err := h.service.GetCourse(ctx, input.CourseID, &actor)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	if !actor.isAdmin() && detail.InstructorID != actor.ID {
		return nil, httpx.ToProblem(ctx, ErrNotOwner)
	}
	return &GetCourseResponse{Body: courseDetailBody(detail)}, nil
}

type UpdateCourseRequest struct {
	CourseID string `path:"courseID"`
	Body     CourseWriteBody
}

func (h *Handler) UpdateCourseHandler(ctx context.Context, input *UpdateCourseRequest) (*CourseResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	c, err := h.service.UpdateCourse(ctx, actor, input.CourseID, input.Body.toInput())
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CourseResponse{Body: courseBody(c)}, nil
}

type DeleteCourseRequest struct {
	CourseID string `path:"courseID"`
}

type DeleteCourseResponse struct{}

func (h *Handler) DeleteCourseHandler(ctx context.Context, input *DeleteCourseRequest) (*DeleteCourseResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.DeleteCourse(ctx, actor, input.CourseID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &DeleteCourseResponse{}, nil
}

type SetPublishedRequest struct {
	CourseID string `path:"courseID"`
	Body     struct {
		Published bool `json:"published"`
	}
}

func (h *Handler) SetPublishedHandler(ctx context.Context, input *SetPublishedRequest) (*CourseResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	c, err := h.service.SetPublished(ctx, actor, input.CourseID, input.Body.Published)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CourseResponse{Body: courseBody(c)}, nil
}

type AddModuleRequest struct {
	CourseID string `path:"courseID"`
	Body     struct {
		Title string `json:"title" validate:"required,min=1,max=200"`
	}
}

type ModuleResponse struct {
	Body ModuleBody
}

func (h *Handler) AddModuleHandler(ctx context.Context, input *AddModuleRequest) (*ModuleResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	m, err := h.service.AddModule(ctx, actor, input.CourseID, input.Body.Title)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &ModuleResponse{Body: ModuleBody{ID: m.ID, Title: m.Title, Position: m.Position}}, nil
}

type ReorderRequest struct {
	CourseID string `path:"courseID"`
	Body     struct {
		OrderedIDs []string `json:"orderedIds" validate:"required,min=1"`
	}
}

type ReorderResponse struct{}

func (h *Handler) ReorderModulesHandler(ctx context.Context, input *ReorderRequest) (*ReorderResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.ReorderModules(ctx, actor, input.CourseID, input.Body.OrderedIDs); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &ReorderResponse{}, nil
}

type RenameModuleRequest struct {
	ModuleID string `path:"moduleID"`
	Body     struct {
		Title string `json:"title" validate:"required,min=1,max=200"`
	}
}

func (h *Handler) RenameModuleHandler(ctx context.Context, input *RenameModuleRequest) (*ModuleResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	m, err := h.service.RenameModule(ctx, actor, input.ModuleID, input.Body.Title)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &ModuleResponse{Body: ModuleBody{ID: m.ID, Title: m.Title, Position: m.Position}}, nil
}

type RemoveModuleRequest struct {
	ModuleID string `path:"moduleID"`
}

type RemoveModuleResponse struct{}

func (h *Handler) RemoveModuleHandler(ctx context.Context, input *RemoveModuleRequest) (*RemoveModuleResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.RemoveModule(ctx, actor, input.ModuleID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &RemoveModuleResponse{}, nil
}

type AddLectureRequest struct {
	ModuleID string `path:"moduleID"`
	Body     LectureWriteBody
}

type LectureResponse struct {
	Body LectureBody
}

func (h *Handler) AddLectureHandler(ctx context.Context, input *AddLectureRequest) (*LectureResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	l, err := h.service.AddLecture(ctx, actor, input.ModuleID, input.Body.toInput())
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &LectureResponse{Body: lectureBody(l)}, nil
}

type ReorderLecturesRequest struct {
	ModuleID string `path:"moduleID"`
	Body     struct {
		OrderedIDs []string `json:"orderedIds" validate:"required,min=1"`
	}
}

func (h *Handler) ReorderLecturesHandler(ctx context.Context, input *ReorderLecturesRequest) (*ReorderResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.ReorderLectures(ctx, actor, input.ModuleID, input.Body.OrderedIDs); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &ReorderResponse{}, nil
}

type UpdateLectureRequest struct {
	LectureID string `path:"lectureID"`
	Body      LectureWriteBody
}

func (h *Handler) UpdateLectureHandler(ctx context.Context, input *UpdateLectureRequest) (*LectureResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	l, err := h.service.UpdateLecture(ctx, actor, input.LectureID, input.Body.toInput())
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &LectureResponse{Body: lectureBody(l)}, nil
}

type RemoveLectureRequest struct {
	LectureID string `path:"lectureID"`
}

type RemoveLectureResponse struct{}

func (h *Handler) RemoveLectureHandler(ctx context.Context, input *RemoveLectureRequest) (*RemoveLectureResponse, error) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.RemoveLecture(ctx, actor, input.LectureID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &RemoveLectureResponse{}, nil
}

// --- Admin handlers ---

type CreateCategoryRequest struct {
	Body struct {
		Name string `json:"name" validate:"required,min=2,max=100"`
	}
}

type CategoryResponse struct {
	Body CategoryBody
}

func (h *Handler) CreateCategoryHandler(ctx context.Context, input *CreateCategoryRequest) (*CategoryResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	c, err := h.service.CreateCategory(ctx, input.Body.Name)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CategoryResponse{Body: CategoryBody{ID: c.ID, Name: c.Name}}, nil
}

type UpdateCategoryRequest struct {
	CategoryID string `path:"categoryID"`
	Body       struct {
		Name string `json:"name" validate:"required,min=2,max=100"`
	}
}

func (h *Handler) UpdateCategoryHandler(ctx context.Context, input *UpdateCategoryRequest) (*CategoryResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	c, err := h.service.UpdateCategory(ctx, input.CategoryID, input.Body.Name)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CategoryResponse{Body: CategoryBody{ID: c.ID, Name: c.Name}}, nil
}

type DeleteCategoryRequest struct {
	CategoryID string `path:"categoryID"`
}

type DeleteCategoryResponse struct{}

func (h *Handler) DeleteCategoryHandler(ctx context.Context, input *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	if err := h.service.DeleteCategory(ctx, input.CategoryID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &DeleteCategoryResponse{}, nil
}

// AdminListCoursesHandler lists all courses, published or not.
func (h *Handler) AdminListCoursesHandler(ctx context.Context, input *ListCoursesRequest) (*ListCoursesResponse, error) {
	p := input.params()
	p.normalize()

	page, err := h.service.ListByInstructor(ctx, "", p)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return listCoursesResponse(page), nil
}
