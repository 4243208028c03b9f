package shared

import (
	"github.com/google/uuid"

	"hospital-ops/internal/domain/user"
)

// Actor identifies the authenticated caller inside a command.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool   { return a.Role == user.RoleAdmin }
func (a Actor) IsDoctor() bool  { return a.Role == user.RoleDoctor }
func (a Actor) IsPatient() bool { return a.Role == user.RolePatient }

// CanActFor reports whether the actor may touch records owned by patientID.
func (a Actor) CanActFor(patientID uuid.UUID) bool {
	if a.IsAdmin() || a.IsDoctor() {
		return true
	}
	return a.ID == patientID
}
