package auth

import "context"

type ctxKey string

const claimsKey ctxKey = "licenseClaims"

type Claims struct {
	Subject string
	JWTID   string
	Roles   []string
}

func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(claimsKey).(Claims); ok {
		return v
	}
	return Claims{}
}

// Subject returns the authenticated user id, or "" outside a protected route.
func Subject(ctx context.Context) string {
	return FromContext(ctx).Subject
}
