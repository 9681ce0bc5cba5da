// Package middleware provides request-scoped fiber middleware: identity
// resolution, structured logging, tracing and metrics.
package middleware

import (
	"context"

	"postboard/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	// CallerLocal is the fiber local holding the resolved auth.Caller.
	CallerLocal = "caller"
	// UserIDLocal is the fiber local holding the authenticated user ID.
	UserIDLocal = "userID"
)

// ResolveIdentity resolves the Authorization header into a caller. It never
// rejects a request; operations decide whether they need a user.
func ResolveIdentity(resolver auth.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := resolver.Resolve(c.Get(fiber.HeaderAuthorization))
		c.Locals(CallerLocal, caller)

		if user, ok := caller.(auth.Authenticated); ok {
			c.Locals(UserIDLocal, user.UserID)
			// Sync to UserContext for logging and downstream services
			ctx := context.WithValue(c.UserContext(), UserIDKey, user.UserID)
			c.SetUserContext(ctx)
		}

		return c.Next()
	}
}

// CallerFrom returns the caller stored by ResolveIdentity, or Anonymous.
func CallerFrom(c *fiber.Ctx) auth.Caller {
	if caller, ok := c.Locals(CallerLocal).(auth.Caller); ok && caller != nil {
		return caller
	}
	return auth.Anonymous{}
}
