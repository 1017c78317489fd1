package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an identity on the platform. The PIN functions as the password:
// it is issued once at registration and never changes afterwards.
type User struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	PinCode   string    `json:"-"` // Not exposed
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
