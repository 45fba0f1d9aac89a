package enrollment

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/anand-5154/edurise-server/internal/contextx"
	"github.com/anand-5154/edurise-server/internal/httpx"
	"github.com/anand-5154/edurise-server/internal/validation"
)

// Handler holds the dependencies for the enrollment module's HTTP handlers.
type Handler struct {
	service     Service
	logger      *slog.Logger
	studentAuth func(huma.Context, func(huma.Context))
}

// NewHandler creates a new handler for the enrollment module.
func NewHandler(service Service, logger *slog.Logger, studentAuth func(huma.Context, func(huma.Context))) *Handler {
	return &Handler{service: service, logger: logger, studentAuth: studentAuth}
}

// RegisterRoutes sets up the learner-facing payment and progress endpoints.
func (h *Handler) RegisterRoutes(api huma.API) {
	guard := huma.Middlewares{h.studentAuth}
	bearer := []map[string][]string{{"bearer": {}}}

	huma.Register(api, huma.Operation{
		OperationID: "create-order",
		Method:      http.MethodPost,
		Path:        "/users/orders",
		Summary:     "Create a payment order for a course",
		Security:    bearer,
		Middlewares: guard,
	}, h.CreateOrderHandler)

	huma.Register(api, huma.Operation{
		OperationID: "verify-payment",
		Method:      http.MethodPost,
		Path:        "/users/payments/verify",
		Summary:     "Verify a payment and enroll",
		Security:    bearer,
		Middlewares: guard,
	}, h.VerifyPaymentHandler)

	huma.Register(api, huma.Operation{
		OperationID: "my-courses",
		Method:      http.MethodGet,
		Path:        "/users/my-courses",
		Summary:     "List enrolled courses with progress",
		Security:    bearer,
		Middlewares: guard,
	}, h.MyCoursesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "course-progress",
		Method:      http.MethodGet,
		Path:        "/users/courses/{courseID}/modules",
		Summary:     "List a course's modules with unlock state",
		Security:    bearer,
		Middlewares: guard,
	}, h.GetModulesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "module-lectures",
		Method:      http.MethodGet,
		Path:        "/users/modules/{moduleID}/lectures",
		Summary:     "List a module's lectures with completion state",
		Security:    bearer,
		Middlewares: guard,
	}, h.GetLecturesHandler)

	huma.Register(api, huma.Operation{
		OperationID: "complete-lecture",
		Method:      http.MethodPost,
		Path:        "/users/lectures/{lectureID}/complete",
		Summary:     "Mark a lecture as completed",
		Security:    bearer,
		Middlewares: guard,
	}, h.MarkLectureCompleteHandler)
}

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextx.UserIDKey).(string)
	return id, ok && id != ""
}

// --- DTOs ---

type CreateOrderRequest struct {
	Body struct {
		CourseID string `json:"courseId" validate:"required"`
	}
}

type CreateOrderResponse struct {
	Body struct {
		OrderID        string `json:"orderId"`
		GatewayOrderID string `json:"gatewayOrderId"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
	}
}

type VerifyPaymentRequest struct {
	Body struct {
		OrderID   string `json:"orderId" validate:"required"`
		PaymentID string `json:"paymentId" validate:"required"`
		Signature string `json:"signature" validate:"required"`
	}
}

type VerifyPaymentResponse struct {
	Body struct {
		EnrollmentID string    `json:"enrollmentId"`
		CourseID     string    `json:"courseId"`
		Status       string    `json:"status"`
		EnrolledAt   time.Time `json:"enrolledAt"`
	}
}

type MyCourseBody struct {
	CourseID          string    `json:"courseId"`
	Title             string    `json:"title"`
	ThumbnailURL      string    `json:"thumbnailUrl,omitempty"`
	Level             string    `json:"level"`
	Status            string    `json:"status"`
	EnrolledAt        time.Time `json:"enrolledAt"`
	CompletedLectures int       `json:"completedLectures"`
	TotalLectures     int       `json:"totalLectures"`
}

type MyCoursesResponse struct {
	Body struct {
		Courses []MyCourseBody `json:"courses"`
	}
}

type ModuleProgressBody struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Position     int    `json:"position"`
	LectureCount int    `json:"lectureCount"`
	Unlocked     bool   `json:"unlocked"`
	Completed    bool   `json:"completed"`
}

type GetModulesRequest struct {
	CourseID string `path:"courseID"`
}

type GetModulesResponse struct {
	Body struct {
		Modules []ModuleProgressBody `json:"modules"`
	}
}

type LectureProgressBody struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	VideoURL      string   `json:"videoUrl"`
	Duration      int      `json:"duration"`
	Position      int      `json:"position"`
	ResourceLinks []string `json:"resourceLinks,omitempty"`
	Completed     bool     `json:"completed"`
}

type GetLecturesRequest struct {
	ModuleID string `path:"moduleID"`
}

type GetLecturesResponse struct {
	Body struct {
		Lectures []LectureProgressBody `json:"lectures"`
	}
}

type MarkLectureCompleteRequest struct {
	LectureID string `path:"lectureID"`
}

type MarkLectureCompleteResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// --- Handlers ---

func (h *Handler) CreateOrderHandler(ctx context.Context, input *CreateOrderRequest) (*CreateOrderResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	o, err := h.service.CreateOrder(ctx, userID, input.Body.CourseID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &CreateOrderResponse{}
	resp.Body.OrderID = o.ID
	resp.Body.GatewayOrderID = o.GatewayOrderID
	resp.Body.Amount = o.Amount
	resp.Body.Currency = o.Currency
	return resp, nil
}

func (h *Handler) VerifyPaymentHandler(ctx context.Context, input *VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	e, err := h.service.VerifyPayment(ctx, userID, input.Body.OrderID, input.Body.PaymentID, input.Body.Signature)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &VerifyPaymentResponse{}
	resp.Body.EnrollmentID = e.ID
	resp.Body.CourseID = e.CourseID
	resp.Body.Status = string(e.Status)
	resp.Body.EnrolledAt = e.EnrolledAt
	return resp, nil
}

func (h *Handler) MyCoursesHandler(ctx context.Context, _ *struct{}) (*MyCoursesResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	courses, err := h.service.ListMyCourses(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &MyCoursesResponse{}
	resp.Body.Courses = make([]MyCourseBody, 0, len(courses))
	for _, mc := range courses {
		resp.Body.Courses = append(resp.Body.Courses, MyCourseBody{
			CourseID:          mc.Course.ID,
			Title:             mc.Course.Title,
			ThumbnailURL:      mc.Course.ThumbnailURL,
			Level:             string(mc.Course.Level),
			Status:            string(mc.Status),
			EnrolledAt:        mc.EnrolledAt,
			CompletedLectures: mc.CompletedLectures,
			TotalLectures:     mc.TotalLectures,
		})
	}
	return resp, nil
}

func (h *Handler) GetModulesHandler(ctx context.Context, input *GetModulesRequest) (*GetModulesResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	modules, err := h.service.GetModules(ctx, userID, input.CourseID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &GetModulesResponse{}
	resp.Body.Modules = make([]ModuleProgressBody, 0, len(modules))
	for _, m := range modules {
		resp.Body.Modules = append(resp.Body.Modules, ModuleProgressBody{
			ID:           m.ID,
			Title:        m.Title,
			Position:     m.Position,
			LectureCount: m.LectureCount,
			Unlocked:     m.Unlocked,
			Completed:    m.Completed,
		})
	}
	return resp, nil
}

func (h *Handler) GetLecturesHandler(ctx context.Context, input *GetLecturesRequest) (*GetLecturesResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	lectures, err := h.service.GetLectures(ctx, userID, input.ModuleID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &GetLecturesResponse{}
	resp.Body.Lectures = make([]LectureProgressBody, 0, len(lectures))
	for _, l := range lectures {
		resp.Body.Lectures = append(resp.Body.Lectures, LectureProgressBody{
			ID:            l.ID,
			Title:         l.Title,
			Description:   l.Description,
			VideoURL:      l.VideoURL,
			Duration:      l.Duration,
			Position:      l.Position,
			ResourceLinks: l.ResourceLinks,
			Completed:     l.Completed,
		})
	}
	return resp, nil
}

func (h *Handler) MarkLectureCompleteHandler(ctx context.Context, input *MarkLectureCompleteRequest) (*MarkLectureCompleteResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if err := h.service.MarkLectureComplete(ctx, userID, input.LectureID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &MarkLectureCompleteResponse{}
	resp.Body.Message = "lecture completed"
	return resp, nil
}
