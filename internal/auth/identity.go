package auth

import (
	"strings"

	"postboard/internal/models"
)

// Caller is the resolved identity of a request: Authenticated or Anonymous.
type Caller interface {
	caller()
}

// Authenticated is a caller that presented a valid credential.
type Authenticated struct {
	UserID string
}

// Anonymous is a caller without a valid credential.
type Anonymous struct{}

func (Authenticated) caller() {}
func (Anonymous) caller()     {}

// Resolver turns a raw Authorization header value into a Caller.
type Resolver interface {
	Resolve(header string) Caller
}

// Resolve never fails: an absent, malformed or unverifiable credential yields
// Anonymous, and each operation enforces its own requirement.
func (c *Credentials) Resolve(header string) Caller {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return Anonymous{}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Anonymous{}
	}

	userID, err := c.VerifyToken(token)
	if err != nil {
		return Anonymous{}
	}
	return Authenticated{UserID: userID}
}

// RequireUser returns the caller's user ID, or ErrNotAuthenticated.
func RequireUser(caller Caller) (string, error) {
	switch c := caller.(type) {
	case Authenticated:
		return c.UserID, nil
	case Anonymous:
		return "", models.ErrNotAuthenticated
	default:
		return "", models.ErrNotAuthenticated
	}
}
