package mq

import (
	"context"
	"encoding/json"

	"github.com/redinteligente/authcode/internal/auth/usecase"
	"github.com/redinteligente/authcode/internal/pkg/instrument"
	"github.com/redinteligente/authcode/internal/pkg/messaging"
	"github.com/redinteligente/authcode/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishAccessCodeIssued(ctx context.Context, msg usecase.AccessCodeIssuedEvent) error {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, "PublishAccessCodeIssued")
	defer span.End()

	body, err := json.Marshal(event.AccessCodeIssuedMessage{
		DocumentNumber:   msg.DocumentNumber,
		Email:            msg.Email,
		FullName:         msg.FullName,
		Code:             msg.Code,
		ExpiresInMinutes: msg.ExpiresInMinutes,
		IssuedAtUnix:     msg.IssuedAt.Unix(),
		Resend:           msg.Resend,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.AccessCodeIssuedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.DocumentNumber),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
