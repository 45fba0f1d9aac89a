package user

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/anand-5154/edurise-server/internal/httpx"
)

type OAuthLoginRequest struct{}

type OAuthLoginResponse struct {
	Status   int
	Location string `header:"Location"`
}

type OAuthCallbackRequest struct {
	State            string `query:"state"`
	Code             string `query:"code"`
	ErrorCode        string `query:"error"`
	ErrorDescription string `query:"error_description"`
}

type OAuthCallbackResponse struct {
	Body struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
}

// OAuthLoginHandler starts the Google round trip with a 302 to the consent
// screen.
func (h *Handler) OAuthLoginHandler(ctx context.Context, _ *OAuthLoginRequest) (*OAuthLoginResponse, error) {
	redirectURL, err := h.service.InitiateOAuthLogin(ctx)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &OAuthLoginResponse{Status: 302, Location: redirectURL}, nil
}

// OAuthCallbackHandler completes the round trip: exchanges the code,
// provisions the account on first login, and returns a token pair.
func (h *Handler) OAuthCallbackHandler(ctx context.Context, input *OAuthCallbackRequest) (*OAuthCallbackResponse, error) {
	if input.ErrorCode != "" {
		h.logger.Warn("oauth provider returned an error", "error", input.ErrorCode, "description", input.ErrorDescription)
		return nil, huma.Error400BadRequest("oauth login was cancelled or rejected")
	}
	if input.State == "" || input.Code == "" {
		return nil, huma.Error400BadRequest("missing state or code")
	}

	pair, err := h.service.HandleOAuthCallback(ctx, input.State, input.Code)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &OAuthCallbackResponse{}
	resp.Body.AccessToken = pair.AccessToken
	resp.Body.RefreshToken = pair.RefreshToken
	return resp, nil
}
