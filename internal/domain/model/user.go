package model

import (
	"strings"
	"time"
)

// Role is the kind of HomeMaster account.
type Role string

const (
	RoleHomeowner Role = "homeowner"
	RoleProvider  Role = "provider"
	RoleAdmin     Role = "admin"
)

// User is a HomeMaster account as stored in the user directory.
type User struct {
	UID         string
	Email       string
	Name        string
	Role        Role
	ServiceType string // Only set for providers, e.g. "Plumbing".
	IsVerified  *bool  // Only set for providers.
	CreatedAt   time.Time
}

// Recipient is a directory entry with a deliverable email address.
type Recipient struct {
	Email string
}

// Deliverable reports whether the recipient has a usable address.
func (r Recipient) Deliverable() bool {
	return strings.TrimSpace(r.Email) != ""
}
