// Package domain contains persistence models for tenant profiles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is the privilege level a profile carries within its tenant.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Status is the account state of a profile.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Profile binds an authenticated identity to a role and status within one
// tenant schema. An administrator has a row in every known schema; a regular
// user has exactly one row, in their assigned schema.
type Profile struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID     string       `gorm:"type:text;not null;uniqueIndex:ux_profiles_user_schema,priority:1" json:"user_id"`
	SchemaName string       `gorm:"type:text;not null;uniqueIndex:ux_profiles_user_schema,priority:2;index" json:"schema_name"`
	Email      string       `gorm:"type:text;not null" json:"email"`
	FullName   string       `gorm:"type:text" json:"full_name"`
	Role       Role         `gorm:"type:text;not null;default:'user'" json:"role"`
	Status     Status       `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }
