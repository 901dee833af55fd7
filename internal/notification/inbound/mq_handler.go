package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redinteligente/authcode/internal/notification/usecase"
	"github.com/redinteligente/authcode/internal/pkg/instrument"
	"github.com/redinteligente/authcode/internal/pkg/messaging"
	"github.com/redinteligente/authcode/internal/pkg/uid"
	"github.com/redinteligente/authcode/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) AccessCodeIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AccessCodeIssuedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: access code issued notification", "document_number", extractDocument(body))

	var payload event.AccessCodeIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of access code issued notification", "error", err)
		return nil
	}

	if err := h.uc.ConsumeAccessCodeIssued(ctx, usecase.ConsumeAccessCodeIssuedInput{
		DocumentNumber:   payload.DocumentNumber,
		Email:            payload.Email,
		FullName:         payload.FullName,
		Code:             payload.Code,
		ExpiresInMinutes: payload.ExpiresInMinutes,
		IssuedAtUnix:     payload.IssuedAtUnix,
		Resend:           payload.Resend,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume access code issued", "document_number", payload.DocumentNumber, "error", err)
		return err
	}

	return nil
}

// extractDocument pulls only the identity out of the raw payload so the code
// itself never reaches the logs.
func extractDocument(body []byte) string {
	var peek struct {
		DocumentNumber string `json:"document_number"`
	}
	if err := json.Unmarshal(body, &peek); err != nil {
		return ""
	}
	return peek.DocumentNumber
}
