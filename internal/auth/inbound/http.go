package inbound

import (
	"context"

	"github.com/redinteligente/authcode/internal/auth/usecase"
	"github.com/redinteligente/authcode/internal/pkg/config"
	"github.com/redinteligente/authcode/internal/pkg/router"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (*usecase.IssueOutput, error)
	ResendCode(ctx context.Context, in usecase.ResendCodeInput) (*usecase.IssueOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, cfg config.Config) {
	end := &HTTPEndpoint{uc: uc, cfg: cfg}

	r.POST("/api/v1/auth/request-code", end.RequestCode)
	r.POST("/api/v1/auth/verify-code", end.VerifyCode)
	r.POST("/api/v1/auth/resend-code", end.ResendCode)

	// Operational trigger for the same purge the sweeper runs on a timer.
	r.POST("/api/v1/auth/cleanup", end.Cleanup)
}
