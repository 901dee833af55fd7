package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redinteligente/authcode/internal/auth/inbound"
	"github.com/redinteligente/authcode/internal/auth/outbound/db"
	"github.com/redinteligente/authcode/internal/auth/outbound/mq"
	"github.com/redinteligente/authcode/internal/auth/usecase"
	"github.com/redinteligente/authcode/internal/pkg/clock"
	"github.com/redinteligente/authcode/internal/pkg/config"
	"github.com/redinteligente/authcode/internal/pkg/goroutine"
	"github.com/redinteligente/authcode/internal/pkg/hash"
	"github.com/redinteligente/authcode/internal/pkg/instrument"
	"github.com/redinteligente/authcode/internal/pkg/messaging"
	"github.com/redinteligente/authcode/internal/pkg/otp"
	"github.com/redinteligente/authcode/internal/pkg/router"
	"github.com/redinteligente/authcode/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Argon2ID   hash.Hash                  `validate:"required"`
	Codes      otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Hasher:        dep.Argon2ID,
		Codes:         dep.Codes,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config)

	if dep.Ctx != nil && dep.Config.GetBool("modules.auth.cleanup_enabled") {
		dep.Goroutine.Go(dep.Ctx, uc.RunSweeper)
	}

	return nil
}
