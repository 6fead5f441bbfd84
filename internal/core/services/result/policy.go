package result

import (
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/static/errs"
)

type Action string

const (
	ActionList   Action = "list"
	ActionGet    Action = "get"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize decides whether caller may run action. target is nil for the
// capability check done before any storage access, and set to the record whose
// owner has to match for a non-admin caller.
func Authorize(caller domain.Caller, action Action, target *domain.Result) error {
	if !caller.Authenticated() {
		return errs.Unauthenticated
	}
	if caller.IsAdmin() {
		return nil
	}
	if action == ActionList || !caller.Has(domain.RoleUser) {
		return errs.Forbidden
	}
	if target != nil && target.OwnerID() != caller.UserID {
		return errs.Forbidden
	}
	return nil
}
