package user

import (
	"context"

	"github.com/anand-5154/edurise-server/internal/httpx"
	"github.com/anand-5154/edurise-server/internal/validation"
)

// --- DTOs ---

// RegisterRequest asks for a one-time code for a new account's email.
type RegisterRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

type RegisterResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// VerifyRegistrationRequest finalizes a registration: the code plus the
// profile fields the client held while the code was pending.
type VerifyRegistrationRequest struct {
	Body struct {
		Email             string   `json:"email" validate:"required,email"`
		Code              string   `json:"code" validate:"required,len=6"`
		Name              string   `json:"name" validate:"required,min=2"`
		Username          string   `json:"username" validate:"required,min=3"`
		Phone             string   `json:"phone"`
		Password          string   `json:"password" validate:"required,min=8"`
		ConfirmPassword   string   `json:"confirmPassword" validate:"required,eqfield=Password"`
		Title             string   `json:"title"`
		Education         []string `json:"education"`
		YearsOfExperience []string `json:"yearsOfExperience"`
	}
}

type VerifyRegistrationResponse struct {
	Body struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
}

type ResendOTPRequest struct {
	Body struct {
		Email   string `json:"email" validate:"required,email"`
		Purpose string `json:"purpose" validate:"omitempty,oneof=registration password_reset"`
	}
}

type ResendOTPResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

type LoginRequest struct {
	UserAgent string `header:"User-Agent"`
	Body      struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
}

type LoginResponse struct {
	Body struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
}

type RefreshRequest struct {
	Body struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
}

type RefreshResponse struct {
	Body struct {
		AccessToken string `json:"accessToken"`
	}
}

type LogoutRequest struct {
	Body struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
}

type LogoutResponse struct{}

// --- Handlers ---

// RegisterHandler issues a registration code for the given email.
func (h *Handler) RegisterHandler(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	h.logger.Info("handling registration request", "email", input.Body.Email)
	if err := h.service.Register(ctx, input.Body.Email); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &RegisterResponse{}
	resp.Body.Message = "verification code sent"
	return resp, nil
}

func (h *Handler) verifyRegistrationHandler(role Role) func(context.Context, *VerifyRegistrationRequest) (*VerifyRegistrationResponse, error) {
	return func(ctx context.Context, input *VerifyRegistrationRequest) (*VerifyRegistrationResponse, error) {
		if verr := validation.ValidateStruct(&input.Body); verr != nil {
			return nil, httpx.ToProblem(ctx, verr)
		}

		u, err := h.service.VerifyRegistration(ctx, RegisterInput{
			Name:              input.Body.Name,
			Username:          input.Body.Username,
			Email:             input.Body.Email,
			Phone:             input.Body.Phone,
			Password:          input.Body.Password,
			Role:              role,
			Title:             input.Body.Title,
			Education:         input.Body.Education,
			YearsOfExperience: input.Body.YearsOfExperience,
		}, input.Body.Code)
		if err != nil {
			h.logger.Warn("registration verification failed", "email", input.Body.Email, "error", err)
			return nil, httpx.ToProblem(ctx, err)
		}

		resp := &VerifyRegistrationResponse{}
		resp.Body.ID = u.ID
		resp.Body.Name = u.Name
		resp.Body.Username = u.Username
		resp.Body.Email = u.Email
		resp.Body.Role = string(u.Role)
		return resp, nil
	}
}

// ResendOTPHandler invalidates the previous code and issues a fresh one.
func (h *Handler) ResendOTPHandler(ctx context.Context, input *ResendOTPRequest) (*ResendOTPResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	purpose := VerificationPurpose(input.Body.Purpose)
	if purpose == "" {
		purpose = VerificationPurposeRegistration
	}
	if err := h.service.ResendOTP(ctx, input.Body.Email, purpose); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ResendOTPResponse{}
	resp.Body.Message = "verification code sent"
	return resp, nil
}

func (h *Handler) loginHandler(role Role) func(context.Context, *LoginRequest) (*LoginResponse, error) {
	return func(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
		if verr := validation.ValidateStruct(&input.Body); verr != nil {
			return nil, httpx.ToProblem(ctx, verr)
		}

		pair, err := h.service.Login(ctx, input.Body.Email, input.Body.Password, role, input.UserAgent, "")
		if err != nil {
			h.logger.Warn("login attempt failed", "email", input.Body.Email, "error", err)
			return nil, httpx.ToProblem(ctx, err)
		}

		resp := &LoginResponse{}
		resp.Body.AccessToken = pair.AccessToken
		resp.Body.RefreshToken = pair.RefreshToken
		return resp, nil
	}
}

// RefreshHandler exchanges a refresh token for a new access token.
func (h *Handler) RefreshHandler(ctx context.Context, input *RefreshRequest) (*RefreshResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	access, err := h.service.Refresh(ctx, input.Body.RefreshToken)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &RefreshResponse{}
	resp.Body.AccessToken = access
	return resp, nil
}

// LogoutHandler revokes a refresh token. Idempotent.
func (h *Handler) LogoutHandler(ctx context.Context, input *LogoutRequest) (*LogoutResponse, error) {
	if err := h.service.Logout(ctx, input.Body.RefreshToken); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &LogoutResponse{}, nil
}
