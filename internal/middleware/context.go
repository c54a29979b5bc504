package middleware

import (
	"context"
	"transferwiki/internal/data"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserInfo is the authenticated identity carried in the request context.
// Anonymous requests carry an empty Subject.
type UserInfo struct {
	Subject     string
	DisplayName string
	Role        data.Role
}

// Anonymous reports whether the request has no authenticated user.
func (u *UserInfo) Anonymous() bool {
	return u == nil || u.Subject == ""
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	return &UserInfo{}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
