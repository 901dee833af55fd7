package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/redinteligente/authcode/internal/auth/entity"
	"github.com/redinteligente/authcode/internal/pkg/clock"
	"github.com/redinteligente/authcode/internal/pkg/config"
	"github.com/redinteligente/authcode/internal/pkg/hash"
	"github.com/redinteligente/authcode/internal/pkg/instrument"
	"github.com/redinteligente/authcode/internal/pkg/otp"
	"github.com/redinteligente/authcode/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// AccessCodeIssuedEvent is handed to the messaging repo after a code has been
// persisted, to trigger delivery to the user.
type AccessCodeIssuedEvent struct {
	DocumentNumber   string
	Email            string
	FullName         string
	Code             string
	ExpiresInMinutes int
	IssuedAt         time.Time
	Resend           bool
}

type repoMessaging interface {
	PublishAccessCodeIssued(ctx context.Context, msg AccessCodeIssuedEvent) error
}

type repoDB interface {
	GetProfileByDocument(ctx context.Context, document string) (*entity.Profile, error)

	GetAccessCode(ctx context.Context, identity string) (*entity.AccessCode, error)
	SaveIssued(ctx context.Context, in entity.IssueAccessCode) error
	MarkUsed(ctx context.Context, identity, codeHash string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time, includeUsed bool) (int64, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hasher        hash.Hash
	codes         otp.Generator
	clock         clock.Clocker
	ins           instrument.Instrumentation
	sweeping      atomic.Bool
	sweptTotal    atomic.Int64
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Hasher        hash.Hash
	Codes         otp.Generator
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hasher:        dep.Hasher,
		codes:         dep.Codes,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) codeTTL() time.Duration {
	if d := s.cfg.GetMinute("modules.auth.code_ttl_minutes"); d > 0 {
		return d
	}

	return 30 * time.Minute
}

func (s *Usecase) resendPolicy() entity.ResendPolicy {
	p := entity.ResendPolicy{
		Delay:        s.cfg.GetMinute("modules.auth.resend_delay_minutes"),
		MaxPerWindow: s.cfg.GetInt32("modules.auth.max_resend_per_hour"),
		Window:       time.Hour,
	}
	if p.Delay <= 0 {
		p.Delay = 2 * time.Minute
	}
	if p.MaxPerWindow <= 0 {
		p.MaxPerWindow = 5
	}

	return p
}

// normalizeDocument strips everything but digits, mirroring how documents are
// keyed in the personnel directory.
func normalizeDocument(document string) string {
	var b strings.Builder
	for _, r := range document {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
