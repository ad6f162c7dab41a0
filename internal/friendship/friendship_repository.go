package friendship

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, f *Friendship) error
	FindByID(ctx context.Context, id uuid.UUID) (*Friendship, error)
	FindByPair(ctx context.Context, userID, friendID uuid.UUID) (*Friendship, error)
	FindByUnorderedPair(ctx context.Context, a, b uuid.UUID) (*Friendship, error)
	MarkAccepted(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeletePending(ctx context.Context, id uuid.UUID) error
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]Friendship, error)
	ListAcceptedByUser(ctx context.Context, userID uuid.UUID) ([]Friendship, error)
	ListAcceptedByFriend(ctx context.Context, friendID uuid.UUID) ([]Friendship, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Friendship) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Friendship, error) {
	var f Friendship
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Friend").
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) FindByPair(ctx context.Context, userID, friendID uuid.UUID) (*Friendship, error) {
	var f Friendship
	err := r.db.WithContext(ctx).
		First(&f, "user_id = ? AND friend_id = ?", userID, friendID).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) FindByUnorderedPair(ctx context.Context, a, b uuid.UUID) (*Friendship, error) {
	var f Friendship
	err := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// MarkAccepted transitions pending -> accepted atomically. A zero-row update
// means the edge is gone or already handled and reports ErrRecordNotFound.
func (r *repository) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Friendship{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusAccepted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Friendship{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePending removes the edge only while it is still pending, so a
// concurrent accept wins over a late reject.
func (r *repository) DeletePending(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Delete(&Friendship{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListIncoming(ctx context.Context, userID uuid.UUID) ([]Friendship, error) {
	var edges []Friendship
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("friend_id = ? AND status = ?", userID, StatusPending).
		Order("created_at DESC").
		Find(&edges).Error
	return edges, err
}

func (r *repository) ListAcceptedByUser(ctx context.Context, userID uuid.UUID) ([]Friendship, error) {
	var edges []Friendship
	err := r.db.WithContext(ctx).
		Preload("Friend").
		Where("user_id = ? AND status = ?", userID, StatusAccepted).
		Find(&edges).Error
	return edges, err
}

func (r *repository) ListAcceptedByFriend(ctx context.Context, friendID uuid.UUID) ([]Friendship, error) {
	var edges []Friendship
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("friend_id = ? AND status = ?", friendID, StatusAccepted).
		Find(&edges).Error
	return edges, err
}
