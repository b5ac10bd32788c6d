package services

import "github.com/bookahead/backend/utils"

// Identity is the authenticated caller of an operation. The zero value
// stands for an internal caller and skips ownership checks.
type Identity struct {
	AccountID uint
	Name      string
	Role      string
}

func (id Identity) IsOwner() bool { return id.Role == utils.RoleOwner }

func (id Identity) IsUser() bool { return id.Role == utils.RoleUser }

// canManage reports whether id may change data of a restaurant owned by ownerName.
func (id Identity) canManage(ownerName string) bool {
	switch id.Role {
	case "":
		return true
	case utils.RoleOwner:
		return id.Name == ownerName
	default:
		return false
	}
}
