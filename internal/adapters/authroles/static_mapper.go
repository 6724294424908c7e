package authroles

import (
	domainauth "github.com/educa/educa-web/internal/domain/auth"
)

// Backend role codes issued by the EDUCA identity backend.
const (
	CodeSchoolAdmin = "ADMIN_ECOLE"
	CodeTeacher     = "ENSEIGNANT"
	CodeStudent     = "ELEVE"
	CodeParent      = "PARENT"
)

// DefaultRole is assigned to any code missing from the table. It is the least
// privileged role so an unrecognized code never grants admin or teacher access.
const DefaultRole = domainauth.RoleStudent

// backendRoles is exhaustive; parents share the student-facing experience.
var backendRoles = map[string]domainauth.Role{ //nolint:gochecknoglobals // fixed lookup table
	CodeSchoolAdmin: domainauth.RoleAdmin,
	CodeTeacher:     domainauth.RoleTeacher,
	CodeStudent:     domainauth.RoleStudent,
	CodeParent:      domainauth.RoleStudent,
}

// StaticRoleMapper maps backend codes by exact match against a fixed table.
type StaticRoleMapper struct{}

func (StaticRoleMapper) Map(code string) domainauth.Role {
	if role, ok := backendRoles[code]; ok {
		return role
	}
	return DefaultRole
}
