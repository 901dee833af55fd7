package inbound

import (
	"context"

	"github.com/redinteligente/authcode/internal/notification/usecase"
)

type uc interface {
	ConsumeAccessCodeIssued(ctx context.Context, in usecase.ConsumeAccessCodeIssuedInput) error
}
