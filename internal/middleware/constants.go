// File: internal/middleware/constants.go
package middleware

import "context"

// Context keys for middleware communication
type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	TenantIDKey  contextKey = "tenant_id"
	RoleKey      contextKey = "role"
	RequestIDKey contextKey = "request_id"
)

// UserIDFrom extracts the authenticated user ID from the request context.
func UserIDFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

// TenantIDFrom extracts the authenticated tenant ID from the request context.
func TenantIDFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(TenantIDKey).(uint)
	return id, ok
}

// RoleFrom extracts the authenticated role from the request context.
func RoleFrom(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
