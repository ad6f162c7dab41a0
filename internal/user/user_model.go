package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */

// User is the local user row. ExternalID links it to the identity provider
// account; it is nil until the first identity sync.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID  *string   `gorm:"uniqueIndex:idx_users_external_id" json:"externalId,omitempty"`
	Email       string    `gorm:"uniqueIndex:idx_users_email;not null" json:"email"`
	Name        string    `json:"name"`
	Username    string    `json:"username,omitempty"`
	Company     string    `json:"company,omitempty"`
	HomeCity    string    `json:"homeCity,omitempty"`
	CurrentCity string    `json:"currentCity,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"lastUpdated"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Unique constraint names, shared with the storage error mapping.
const (
	ConstraintEmail      = "idx_users_email"
	ConstraintExternalID = "idx_users_external_id"
)

/** -------------------- DTOs -------------------- */

type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Name        string   `json:"name" binding:"required"`
	Username    string   `json:"username"`
	Company     string   `json:"company"`
	HomeCity    string   `json:"homeCity"`
	CurrentCity string   `json:"currentCity"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateUserRequest is an explicit patch: nil means "leave unchanged".
type UpdateUserRequest struct {
	Name        *string  `json:"name"`
	Username    *string  `json:"username"`
	Company     *string  `json:"company"`
	HomeCity    *string  `json:"homeCity"`
	CurrentCity *string  `json:"currentCity"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}
