package context

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	actorKey     ctxKey = "actor"
	companyKey   ctxKey = "company_id"
	clientKey    ctxKey = "client"
)

type client struct {
	ip        string
	userAgent string
}

type actor struct {
	kind string
	id   string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithActor records the authenticated caller, e.g. ("api_key", "<key id>").
func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actor{kind: actorType, id: actorID})
}

func ActorFromContext(ctx context.Context) (string, string) {
	if v, ok := ctx.Value(actorKey).(actor); ok {
		return v.kind, v.id
	}
	return "", ""
}

// WithCompanyID records the company whose workforce data the request reads.
func WithCompanyID(ctx context.Context, companyID int64) context.Context {
	return context.WithValue(ctx, companyKey, companyID)
}

// CompanyIDFromContext returns 0 when no company was recorded.
func CompanyIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(companyKey).(int64); ok {
		return v
	}
	return 0
}

func WithClient(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, clientKey, client{ip: ip, userAgent: userAgent})
}

// ClientFromContext returns the caller's IP address and user agent.
func ClientFromContext(ctx context.Context) (string, string) {
	if v, ok := ctx.Value(clientKey).(client); ok {
		return v.ip, v.userAgent
	}
	return "", ""
}
