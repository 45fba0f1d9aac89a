package user

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/anand-5154/edurise-server/internal/contextx"
	"github.com/anand-5154/edurise-server/internal/httpx"
	"github.com/anand-5154/edurise-server/internal/validation"
)

// ProfileBody is the public shape of an account. PasswordHash never leaves
// the service layer.
type ProfileBody struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Role               string    `json:"role"`
	AccountStatus      string    `json:"accountStatus"`
	EmailVerified      bool      `json:"emailVerified"`
	Title              string    `json:"title,omitempty"`
	Education          []string  `json:"education,omitempty"`
	YearsOfExperience  []string  `json:"yearsOfExperience,omitempty"`
	VerificationDocURL string    `json:"verificationDocUrl,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func profileBody(u *User) ProfileBody {
	return ProfileBody{
		ID:                 u.ID,
		Name:               u.Name,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		Role:               string(u.Role),
		AccountStatus:      string(u.AccountStatus),
		EmailVerified:      u.EmailVerified,
		Title:              u.Title,
		Education:          u.Education,
		YearsOfExperience:  u.YearsOfExperience,
		VerificationDocURL: u.VerificationDocURL,
		CreatedAt:          u.CreatedAt,
	}
}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	Body ProfileBody
}

type UpdateProfileRequest struct {
	Body struct {
		Name              *string  `json:"name,omitempty" validate:"omitempty,min=2"`
		Phone             *string  `json:"phone,omitempty"`
		Title             *string  `json:"title,omitempty"`
		Education         []string `json:"education,omitempty"`
		YearsOfExperience []string `json:"yearsOfExperience,omitempty"`
		VerificationDoc   *string  `json:"verificationDoc,omitempty" validate:"omitempty,url"`
	}
}

type UpdateProfileResponse struct {
	Body ProfileBody
}

// GetProfileHandler returns the authenticated user's profile.
func (h *Handler) GetProfileHandler(ctx context.Context, _ *GetProfileRequest) (*GetProfileResponse, error) {
	userID, ok := ctx.Value(contextx.UserIDKey).(string)
	if !ok || userID == "" {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	u, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &GetProfileResponse{Body: profileBody(u)}, nil
}

// UpdateProfileHandler applies a partial update; nil fields are left as-is.
func (h *Handler) UpdateProfileHandler(ctx context.Context, input *UpdateProfileRequest) (*UpdateProfileResponse, error) {
	userID, ok := ctx.Value(contextx.UserIDKey).(string)
	if !ok || userID == "" {
		return nil, huma.Error401Unauthorized("not authenticated")
	}

	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	u, err := h.service.UpdateProfile(ctx, userID, UpdateProfileInput{
		Name:              input.Body.Name,
		Phone:             input.Body.Phone,
		Title:             input.Body.Title,
		Education:         input.Body.Education,
		YearsOfExperience: input.Body.YearsOfExperience,
		VerificationDoc:   input.Body.VerificationDoc,
	})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &UpdateProfileResponse{Body: profileBody(u)}, nil
}
