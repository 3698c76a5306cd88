package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCitizen Role = "citizen"
	RolePicker  Role = "picker"
	RoleAdmin   Role = "admin"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleCitizen, RolePicker, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

type Profile struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// Citizen mirrors the citizens table kept alongside profiles; rows are
// upserted on email so repeated signups only refresh the name.
type Citizen struct {
	ID        int64
	FullName  string
	Email     string
	CreatedAt time.Time
}

// Principal is the authenticated identity carried through a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   Role
}

func (p Principal) IsAdmin() bool   { return p.Role == RoleAdmin }
func (p Principal) IsPicker() bool  { return p.Role == RolePicker }
func (p Principal) IsCitizen() bool { return p.Role == RoleCitizen }
