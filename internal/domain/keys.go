package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// Roles
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

// Identity is the authenticated caller of a usecase
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IdentityFromContext reads the identity placed on the context by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	userID, _ := ctx.Value(KeyUserID).(string)
	if userID == "" {
		return Identity{}, false
	}
	email, _ := ctx.Value(KeyUserEmail).(string)
	role, _ := ctx.Value(KeyUserRole).(string)
	return Identity{UserID: userID, Email: email, Role: role}, true
}

// WithIdentity returns a context carrying id, as the auth middleware does.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, id.UserID)
	ctx = context.WithValue(ctx, KeyUserEmail, id.Email)
	return context.WithValue(ctx, KeyUserRole, id.Role)
}
