package contextkeys

import "context"

// Custom type to avoid collisions
type contextKey string

// DBContextKey is where the request's *gorm.DB lives.
const DBContextKey = contextKey("db")

// IdentityContextKey is where the resolved identity lives on the gin context.
const IdentityContextKey = contextKey("identity")

// ClientIPKey carries the caller's IP on the request context for audit records.
const ClientIPKey = contextKey("client_ip")

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}
