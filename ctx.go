package campus

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// IdentityLocalsKey is the fiber locals key the gate stores the caller under.
const IdentityLocalsKey = "identity"

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity sets the caller identity in the given context
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the caller identity in the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	raw, ok := ctx.Value(identityCtxKey).(Identity)
	return raw, ok
}

// IdentityFromLocals reads the caller identity the gate stored on the
// fiber context, falling back to the user context.
func IdentityFromLocals(c *fiber.Ctx, key ...string) (Identity, bool) {
	k := IdentityLocalsKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	if raw, ok := c.Locals(k).(Identity); ok {
		return raw, true
	}
	return IdentityFromContext(c.UserContext())
}
