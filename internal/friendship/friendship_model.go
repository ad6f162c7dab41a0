package friendship

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkup-service/internal/user"
)

// Status of a friendship edge. Rejection and removal delete the edge, so no
// terminal status is stored.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Friendship is a directed edge: UserID requested, FriendID received. At most
// one edge exists per ordered pair; the accepted relationship is symmetrized
// at query time.
type Friendship struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friendships_pair;index" json:"userId"`
	FriendID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friendships_pair;index" json:"friendId"`
	Status    Status    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	User   *user.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Friend *user.User `gorm:"foreignKey:FriendID;references:ID" json:"friend,omitempty"`
}

func (Friendship) TableName() string {
	return "friendships"
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ConstraintPair is the unique index guarding the ordered (user, friend) pair.
const ConstraintPair = "idx_friendships_pair"

/** -------------------- DTOs -------------------- */

type SendRequestRequest struct {
	UserID   uuid.UUID `json:"userId" binding:"required"`
	FriendID uuid.UUID `json:"friendId" binding:"required"`
}

type RemoveRequest struct {
	UserID   uuid.UUID `json:"userId" binding:"required"`
	FriendID uuid.UUID `json:"friendId" binding:"required"`
}

// FriendEntry is one accepted friend together with the edge id the client
// needs for removal.
type FriendEntry struct {
	FriendshipID uuid.UUID `json:"friendshipId"`
	User         user.User `json:"user"`
}

// IncomingRequest is one pending request with the requester attached; the
// edge id is what accept/reject take.
type IncomingRequest struct {
	FriendshipID uuid.UUID `json:"friendshipId"`
	Requester    user.User `json:"requester"`
	SentAt       time.Time `json:"sentAt"`
}
