// Package policy holds authorization decisions.
package policy

import "github.com/dmitrijs2005/usermanagement/internal/server/models"

// CanViewProfile reports whether requesterID may see targetID's profile:
// admins may see anyone, everybody may see themselves. A nil or empty role
// list grants nothing beyond self-access.
func CanViewProfile(requesterID int64, requesterRoles []models.RoleName, targetID int64) bool {
	if requesterID == targetID {
		return true
	}
	for _, r := range requesterRoles {
		if r == models.RoleAdmin {
			return true
		}
	}
	return false
}
