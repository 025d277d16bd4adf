package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email,omitempty"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         Role   `gorm:"size:16;not null" json:"role,omitempty"` // immutable after register
	Avatar       string `gorm:"size:512" json:"avatar,omitempty"`
	Resume       string `gorm:"size:512" json:"resume,omitempty"` // jobseeker only

	// employer only
	CompanyName        string `gorm:"size:128" json:"companyName,omitempty"`
	CompanyDescription string `gorm:"type:text" json:"companyDescription,omitempty"`
	CompanyLogo        string `gorm:"size:512" json:"companyLogo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Identity returns the caller identity that tokens issued for u carry.
func (u *User) Identity() Identity { return Identity{ID: u.ID, Role: u.Role} }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}
