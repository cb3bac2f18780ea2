package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Language is a UI language preference.
type Language string

const (
	LanguagePT Language = "pt"
	LanguageEN Language = "en"
	LanguageES Language = "es"
)

// OAuthPasswordMarker is stored instead of a hash for users created through
// an external identity provider. It is not a bcrypt hash, so password login
// never succeeds for these rows.
const OAuthPasswordMarker = "oauth-user"

// User represents a club member or administrator.
type User struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	Email        string              `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string              `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Name         string              `json:"name" gorm:"size:255;not null"`
	Role         Role                `json:"role" gorm:"size:20;not null;default:'user'"`
	Language     Language            `json:"language" gorm:"size:5;not null;default:'pt'"`
	Goal         string              `json:"goal,omitempty" gorm:"size:255"`
	Weight       decimal.NullDecimal `json:"weight" gorm:"type:decimal(5,2)"`
	Height       decimal.NullDecimal `json:"height" gorm:"type:decimal(5,2)"`
	PhotoURL     string              `json:"photo_url,omitempty" gorm:"size:512"`
	GoogleID     string              `json:"-" gorm:"size:255;index"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguagePT, LanguageEN, LanguageES:
		return true
	}
	return false
}
