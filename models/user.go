package models

import (
	"time"
)

const (
	RoleLibrarian = "librarian" // full catalog and lending administration
	RoleUser      = "user"      // browsing, requesting, reading
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:128" json:"username"`
	Email        string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:128;not null" json:"-"`
	Active       bool      `gorm:"default:true" json:"active"`
	LastActivity time.Time `gorm:"autoCreateTime" json:"last_activity"`
	BookCounts   int       `gorm:"default:0" json:"book_counts"`
	Roles        []Role    `gorm:"many2many:user_roles" json:"roles"`
	Books        []Book    `json:"books,omitempty"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the user's role names for token claims and responses.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
