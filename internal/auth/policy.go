package auth

import (
	"slices"

	"vwds/internal/domain"
	"vwds/internal/models"
)

// Role sets used by the route table.
var (
	AdminOnly      = []models.Role{models.RoleAdmin}
	AnyRole        = []models.Role{models.RoleAdmin, models.RoleDataEntry, models.RolePoliceOfficer}
	DataEntryRoles = []models.Role{models.RoleAdmin, models.RoleDataEntry}
	TicketIssuers  = []models.Role{models.RoleAdmin, models.RolePoliceOfficer}
)

// Authorize fails with ErrForbidden unless the caller's role is in allowed.
// Callers must have authenticated first.
func Authorize(c *Claims, allowed []models.Role) error {
	if c == nil {
		return domain.ErrMissingToken
	}
	if !slices.Contains(allowed, c.Role) {
		return domain.Newf(domain.ErrForbidden, "Insufficient permissions")
	}
	return nil
}
