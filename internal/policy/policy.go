// Package policy is the single place where authorization rules live. It is a
// pure decision layer: no I/O, no side effects, just (actor, action,
// resource) -> allow/deny. Handlers translate a deny into HTTP 403; a missing
// or invalid credential never reaches this package and maps to 401 instead.
package policy

import "github.com/agrovigil/agrovigil-api/internal/models"

// Action enumerates everything an actor can attempt against the API.
type Action string

const (
	// Owner-scoped inquiry actions. Manager role grants NO override here:
	// only the owner may read, edit or remove the raw inquiry content.
	ActionInquiryRead   Action = "inquiry:read"
	ActionInquiryUpdate Action = "inquiry:update"
	ActionInquiryDelete Action = "inquiry:delete"

	// Manager-only triage actions, independent of ownership.
	ActionInquiryListAll   Action = "inquiry:list_all"
	ActionInquirySetStatus Action = "inquiry:set_status"
	ActionInquiryReply     Action = "inquiry:reply"
	ActionReportsView      Action = "reports:view"
	ActionAlertWrite       Action = "alert:write"
	ActionMaterialWrite    Action = "material:write"

	// Open reads for any authenticated actor.
	ActionAlertRead    Action = "alert:read"
	ActionMaterialRead Action = "material:read"

	// Self-scoped profile read.
	ActionProfileRead Action = "profile:read"

	// Admin-only user administration.
	ActionUserAdmin Action = "user:admin"
)

// Actor is the verified identity performing an action.
type Actor struct {
	ID   string
	Role models.UserRole
}

// Resource describes the target of an owner- or self-scoped action. Actions
// without a target pass the zero value.
type Resource struct {
	OwnerID string
}

// Allowed evaluates the access rules. The switch is exhaustive over the
// Action set; unknown actions are denied.
func Allowed(actor Actor, action Action, resource Resource) bool {
	switch action {
	case ActionInquiryRead, ActionInquiryUpdate, ActionInquiryDelete, ActionProfileRead:
		return actor.ID != "" && actor.ID == resource.OwnerID

	case ActionInquiryListAll, ActionInquirySetStatus, ActionInquiryReply,
		ActionReportsView, ActionAlertWrite, ActionMaterialWrite:
		return actor.Role == models.RoleManager

	case ActionAlertRead, ActionMaterialRead:
		return actor.ID != ""

	case ActionUserAdmin:
		return actor.Role == models.RoleAdmin

	default:
		return false
	}
}
