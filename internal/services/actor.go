package services

import (
	"github.com/exampool/exam-service/internal/models"
)

// Actor is the capability context of a request: who is calling and with
// which role. Handlers build it from the authenticated session and pass it
// down explicitly; services never read ambient auth state.
type Actor struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// requireAdmin is the access control guard for privileged operations.
// It fails closed: anything but an explicit admin role is rejected.
func requireAdmin(actor Actor, resource, action string) error {
	if actor.IsAdmin() {
		return nil
	}
	return NewPermissionError(actor.ID, resource, action, "admin role required")
}
