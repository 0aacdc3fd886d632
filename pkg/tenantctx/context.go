package tenantctx

import (
	"context"
	"strings"
)

type schemaKey struct{}
type userKey struct{}

// WithSchema stores the active tenant schema name in the context.
func WithSchema(ctx context.Context, schema string) context.Context {
	return context.WithValue(ctx, schemaKey{}, strings.TrimSpace(schema))
}

// Schema returns the active tenant schema name from context, if set.
func Schema(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(schemaKey{}).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// WithUserID stores the authenticated identity id in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, strings.TrimSpace(userID))
}

// UserID returns the authenticated identity id from context, if set.
func UserID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(userKey{}).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
