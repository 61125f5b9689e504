// Package domain contains persistence models for users and invitations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User belongs to exactly one organization. MonthlyAlertThreshold is the
// billed amount (per calendar month) above which the user wants to be
// alerted; it only applies while AlertThresholdEnabled is set.
type User struct {
	ID                    snowflake.ID `gorm:"primaryKey" json:"id"`
	Email                 string       `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	FirstName             string       `gorm:"type:text" json:"first_name"`
	LastName              string       `gorm:"type:text" json:"last_name"`
	Role                  string       `gorm:"type:text;not null;default:'ROLE_USER'" json:"role"`
	OrgID                 snowflake.ID `gorm:"not null;index" json:"org_id"`
	PasswordHash          string       `gorm:"type:text" json:"-"`
	IsVerified            bool         `gorm:"not null;default:false" json:"is_verified"`
	AlertThresholdEnabled bool         `gorm:"not null;default:false" json:"alert_threshold_enabled"`
	MonthlyAlertThreshold *float64     `json:"monthly_alert_threshold"`
	CreatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// DisplayName returns the full name, falling back to the email address.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

// UserInvitation tracks a pending onboarding invite for a user.
type UserInvitation struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID     snowflake.ID `gorm:"not null;index" json:"user_id"`
	Token      string       `gorm:"type:text;not null;uniqueIndex:ux_user_invitations_token" json:"-"`
	ExpiresAt  time.Time    `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time   `json:"accepted_at"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (UserInvitation) TableName() string { return "user_invitations" }

// IsExpired reports whether the invitation expired at the given instant.
func (i UserInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
