package inbound

import (
	"github.com/redinteligente/authcode/internal/auth/usecase"
	"github.com/redinteligente/authcode/internal/pkg/config"
	"github.com/redinteligente/authcode/internal/pkg/router"
)

// HTTPEndpoint exposes the passcode authentication workflow over HTTP.
type HTTPEndpoint struct {
	uc  uc
	cfg config.Config
}

// RequestCode issues a 6-digit access code for a document number.
// @Summary Request access code
// @Description Generates a 6-digit code for the document number and triggers delivery to the registered email.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RequestCodeRequest true "Request payload"
// @Success 200 {object} router.successResponse{data=RequestCodeResponse} "Code issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 403 {object} router.errorResponse "Contract ended"
// @Failure 404 {object} router.errorResponse "Unknown document number"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/request-code [post]
func (h *HTTPEndpoint) RequestCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		return nil, err
	}

	out := RequestCodeResponse{
		DocumentNumber:   resp.DocumentNumber,
		FullName:         resp.FullName,
		EmailHint:        maskEmail(resp.Email),
		ExpiresInMinutes: resp.ExpiresInMinutes,
	}
	if h.cfg.GetBool("app.debug") {
		out.CodeDebug = resp.Code
	}

	return out, nil
}

// ResendCode re-issues an access code subject to the throttle policy.
// @Summary Resend access code
// @Description Generates a new code for the document number, limited by the inter-resend delay and the hourly cap.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RequestCodeRequest true "Request payload"
// @Success 200 {object} router.successResponse{data=ResendCodeResponse} "Code re-issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "Unknown document number"
// @Failure 429 {object} router.errorResponse "Resend throttled"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/resend-code [post]
func (h *HTTPEndpoint) ResendCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ResendCode(r.Context(), usecase.ResendCodeInput{
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		return nil, err
	}

	out := ResendCodeResponse{
		DocumentNumber:   resp.DocumentNumber,
		ExpiresInMinutes: resp.ExpiresInMinutes,
	}
	if h.cfg.GetBool("app.debug") {
		out.CodeDebug = resp.Code
	}

	return out, nil
}

// VerifyCode validates a submitted code and returns the profile snapshot.
// @Summary Verify access code
// @Description Validates the 6-digit code; a code validates successfully at most once.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyCodeResponse} "Code accepted"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Missing, used, expired or incorrect code"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/verify-code [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		DocumentNumber: req.DocumentNumber,
		Code:           req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{
		DocumentNumber: resp.DocumentNumber,
		FullName:       resp.FullName,
		Email:          resp.Email,
		Position:       resp.Position,
		OfficeCode:     resp.OfficeCode,
	}, nil
}

// Cleanup purges expired access codes on demand.
// @Summary Purge expired codes
// @Tags Auth
// @Produce json
// @Success 200 {object} router.successResponse{data=CleanupResponse} "Purge result"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/cleanup [post]
func (h *HTTPEndpoint) Cleanup(r *router.Request) (any, error) {
	deleted, err := h.uc.CleanupExpired(r.Context())
	if err != nil {
		return nil, err
	}

	return CleanupResponse{Deleted: deleted}, nil
}
