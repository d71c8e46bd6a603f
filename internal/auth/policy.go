package auth

import "jobly/internal/errcode"

// Identity is who a request acts as, taken from a verified token. A nil
// *Identity means anonymous.
type Identity struct {
	Username string
	IsAdmin  bool
}

// Policy decides whether an identity may proceed. Every denial is the same
// errcode Unauthorized failure, so callers cannot tell "not logged in" apart
// from "not allowed".
type Policy interface {
	Allow(id *Identity) error
}

type policyFunc func(id *Identity) bool

func (f policyFunc) Allow(id *Identity) error {
	if !f(id) {
		return errcode.Unauthorized()
	}
	return nil
}

// Public allows everyone, including anonymous callers.
func Public() Policy {
	return policyFunc(func(*Identity) bool { return true })
}

// AdminOnly allows authenticated admins.
func AdminOnly() Policy {
	return policyFunc(func(id *Identity) bool {
		return id != nil && id.IsAdmin
	})
}

// SelfOrAdmin allows the owner of a resource and any admin.
func SelfOrAdmin(owner string) Policy {
	return policyFunc(func(id *Identity) bool {
		if id == nil {
			return false
		}
		return id.IsAdmin || id.Username == owner
	})
}
