package domain

import (
	"fmt"
	"strings"
)

// Role роль пользователя, приходит из токена аутентификации
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// ParseRole преобразует строку в Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleFaculty:
		return RoleFaculty, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Identity аутентифицированный пользователь
// Единственный источник идентификатора и роли заявителя
type Identity struct {
	UserID int64
	Role   Role
	Email  string
}

// IsAdmin returns true for administrators
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanManageVenue returns true if the user is staff for the venue (admin or its owner)
func (i Identity) CanManageVenue(venueOwnerID int64) bool {
	return i.IsAdmin() || (venueOwnerID > 0 && i.UserID == venueOwnerID)
}
