package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID stores the correlation ID in the context.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID from the context, or an empty
// string when none was set.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	v := ctx.Value(correlationIDKey{})
	if v == nil {
		return ""
	}

	cID, ok := v.(string)
	if !ok {
		return "[invalid_chain_id]"
	}

	return cID
}
