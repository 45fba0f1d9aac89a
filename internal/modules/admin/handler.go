package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/anand-5154/edurise-server/internal/httpx"
	"github.com/anand-5154/edurise-server/internal/modules/user"
)

// Handler holds the dependencies for the moderation module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
	auth    func(huma.Context, func(huma.Context))
}

// NewHandler creates a new handler for the moderation module. auth is the
// admin role guard.
func NewHandler(service Service, logger *slog.Logger, auth func(huma.Context, func(huma.Context))) *Handler {
	return &Handler{service: service, logger: logger, auth: auth}
}

// RegisterRoutes sets up the admin moderation and reporting endpoints.
func (h *Handler) RegisterRoutes(api huma.API) {
	guard := huma.Middlewares{h.auth}
	bearer := []map[string][]string{{"bearer": {}}}

	huma.Register(api, huma.Operation{
		OperationID: "admin-list-students",
		Method:      http.MethodGet,
		Path:        "/admin/students",
		Summary:     "List student accounts",
		Security:    bearer,
		Middlewares: guard,
	}, h.ListStudentsHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-list-instructors",
		Method:      http.MethodGet,
		Path:        "/admin/instructors",
		Summary:     "List instructor accounts",
		Security:    bearer,
		Middlewares: guard,
	}, h.ListInstructorsHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-verify-instructor",
		Method:      http.MethodPatch,
		Path:        "/admin/instructors/{instructorID}/verify",
		Summary:     "Approve a pending instructor",
		Security:    bearer,
		Middlewares: guard,
	}, h.VerifyInstructorHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-reject-instructor",
		Method:      http.MethodPatch,
		Path:        "/admin/instructors/{instructorID}/reject",
		Summary:     "Reject a pending instructor",
		Security:    bearer,
		Middlewares: guard,
	}, h.RejectInstructorHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-block-instructor",
		Method:      http.MethodPatch,
		Path:        "/admin/instructors/{instructorID}/block",
		Summary:     "Block a verified instructor",
		Security:    bearer,
		Middlewares: guard,
	}, h.BlockInstructorHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-unblock-instructor",
		Method:      http.MethodPatch,
		Path:        "/admin/instructors/{instructorID}/unblock",
		Summary:     "Unblock an instructor",
		Security:    bearer,
		Middlewares: guard,
	}, h.UnblockInstructorHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-block-student",
		Method:      http.MethodPatch,
		Path:        "/admin/students/{studentID}/block",
		Summary:     "Block a student",
		Security:    bearer,
		Middlewares: guard,
	}, h.BlockStudentHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-unblock-student",
		Method:      http.MethodPatch,
		Path:        "/admin/students/{studentID}/unblock",
		Summary:     "Unblock a student",
		Security:    bearer,
		Middlewares: guard,
	}, h.UnblockStudentHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-dashboard-report",
		Method:      http.MethodGet,
		Path:        "/admin/reports/dashboard",
		Summary:     "Platform counters and revenue",
		Security:    bearer,
		Middlewares: guard,
	}, h.DashboardReportHandler)
}

// --- DTOs ---

// AccountBody is the moderation view of an account.
type AccountBody struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Role               string    `json:"role"`
	Blocked            bool      `json:"blocked"`
	AccountStatus      string    `json:"accountStatus"`
	EmailVerified      bool      `json:"emailVerified"`
	Title              string    `json:"title,omitempty"`
	Education          []string  `json:"education,omitempty"`
	YearsOfExperience  []string  `json:"yearsOfExperience,omitempty"`
	VerificationDocURL string    `json:"verificationDocUrl,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func accountBody(u *user.User) AccountBody {
	return AccountBody{
		ID:                 u.ID,
		Name:               u.Name,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		Role:               string(u.Role),
		Blocked:            u.Blocked,
		AccountStatus:      string(u.AccountStatus),
		EmailVerified:      u.EmailVerified,
		Title:              u.Title,
		Education:          u.Education,
		YearsOfExperience:  u.YearsOfExperience,
		VerificationDocURL: u.VerificationDocURL,
		CreatedAt:          u.CreatedAt,
	}
}

type ListUsersRequest struct {
	Page     int    `query:"page" minimum:"1"`
	PageSize int    `query:"pageSize" maximum:"100"`
	Search   string `query:"search"`
}

type ListUsersResponse struct {
	Body struct {
		Users    []AccountBody `json:"users"`
		Total    int64         `json:"total"`
		Page     int           `json:"page"`
		PageSize int           `json:"pageSize"`
	}
}

type InstructorActionRequest struct {
	InstructorID string `path:"instructorID"`
}

type StudentActionRequest struct {
	StudentID string `path:"studentID"`
}

type AccountResponse struct {
	Body AccountBody
}

type DashboardReportResponse struct {
	Body Report
}

// --- Handlers ---

func (h *Handler) ListStudentsHandler(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	return h.listUsers(ctx, input, user.RoleStudent)
}

func (h *Handler) ListInstructorsHandler(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	return h.listUsers(ctx, input, user.RoleInstructor)
}

func (h *Handler) listUsers(ctx context.Context, input *ListUsersRequest, role user.Role) (*ListUsersResponse, error) {
	page, err := h.service.ListUsers(ctx, ListUsersParams{
		Role:     role,
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListUsersResponse{}
	resp.Body.Users = make([]AccountBody, 0, len(page.Users))
	for i := range page.Users {
		resp.Body.Users = append(resp.Body.Users, accountBody(&page.Users[i]))
	}
	resp.Body.Total = page.Total
	resp.Body.Page = page.PageNum
	resp.Body.PageSize = page.PageSize
	return resp, nil
}

func (h *Handler) VerifyInstructorHandler(ctx context.Context, input *InstructorActionRequest) (*AccountResponse, error) {
	return h.instructorAction(ctx, input.InstructorID, h.service.VerifyInstructor)
}

func (h *Handler) RejectInstructorHandler(ctx context.Context, input *InstructorActionRequest) (*AccountResponse, error) {
	return h.instructorAction(ctx, input.InstructorID, h.service.RejectInstructor)
}

func (h *Handler) BlockInstructorHandler(ctx context.Context, input *InstructorActionRequest) (*AccountResponse, error) {
	return h.instructorAction(ctx, input.InstructorID, h.service.BlockInstructor)
}

func (h *Handler) UnblockInstructorHandler(ctx context.Context, input *InstructorActionRequest) (*AccountResponse, error) {
	return h.instructorAction(ctx, input.InstructorID, h.service.UnblockInstructor)
}

func (h *Handler) instructorAction(ctx context.Context, id string, action func(context.Context, string) (*user.User, error)) (*AccountResponse, error) {
	u, err := action(ctx, id)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &AccountResponse{Body: accountBody(u)}, nil
}

func (h *Handler) BlockStudentHandler(ctx context.Context, input *StudentActionRequest) (*AccountResponse, error) {
	u, err := h.service.BlockStudent(ctx, input.StudentID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &AccountResponse{Body: accountBody(u)}, nil
}

func (h *Handler) UnblockStudentHandler(ctx context.Context, input *StudentActionRequest) (*AccountResponse, error) {
	u, err := h.service.UnblockStudent(ctx, input.StudentID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &AccountResponse{Body: accountBody(u)}, nil
}

func (h *Handler) DashboardReportHandler(ctx context.Context, _ *struct{}) (*DashboardReportResponse, error) {
	report, err := h.service.DashboardReport(ctx)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &DashboardReportResponse{Body: *report}, nil
}
