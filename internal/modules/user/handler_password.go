package user

import (
	"context"

	"github.com/anand-5154/edurise-server/internal/httpx"
	"github.com/anand-5154/edurise-server/internal/validation"
)

type ForgotPasswordRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

type ForgotPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

type VerifyResetOTPRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,len=6"`
	}
}

type VerifyResetOTPResponse struct {
	Body struct {
		ResetToken string `json:"resetToken"`
	}
}

type ResetPasswordRequest struct {
	Body struct {
		ResetToken      string `json:"resetToken" validate:"required"`
		Password        string `json:"password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	}
}

type ResetPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ForgotPasswordHandler issues a reset code. The response is the same whether
// or not the email belongs to an account.
func (h *Handler) ForgotPasswordHandler(ctx context.Context, input *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.ForgotPassword(ctx, input.Body.Email); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ForgotPasswordResponse{}
	resp.Body.Message = "if the account exists, a reset code has been sent"
	return resp, nil
}

// VerifyResetOTPHandler trades a valid reset code for a one-shot reset token.
func (h *Handler) VerifyResetOTPHandler(ctx context.Context, input *VerifyResetOTPRequest) (*VerifyResetOTPResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	token, err := h.service.VerifyResetOTP(ctx, input.Body.Email, input.Body.Code)
	if err != nil {
		h.logger.Warn("reset code verification failed", "email", input.Body.Email, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &VerifyResetOTPResponse{}
	resp.Body.ResetToken = token
	return resp, nil
}

// ResetPasswordHandler sets a new password and revokes every session.
func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*ResetPasswordResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.ResetPassword(ctx, input.Body.ResetToken, input.Body.Password); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ResetPasswordResponse{}
	resp.Body.Message = "password updated"
	return resp, nil
}
