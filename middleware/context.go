package middleware

import (
	"context"

	"github.com/google/uuid"
)

// Context key type to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey contextKey = "user_id"
)

// GetUserIDFromContext retrieves the user ID from context, or nil when the
// request is anonymous
func GetUserIDFromContext(ctx context.Context) *uuid.UUID {
	if val := ctx.Value(UserIDKey); val != nil {
		if userID, ok := val.(*uuid.UUID); ok {
			return userID
		}
	}
	return nil
}

// WithUserID adds a user ID to the context
func WithUserID(ctx context.Context, userID *uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
