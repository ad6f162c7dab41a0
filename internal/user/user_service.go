package user

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkup-service/internal/adapters/database"
	"linkup-service/pkg/apperrors"
)

// AvatarStore is the slice of object storage the profile service needs.
// *database.MinIOClient satisfies it.
type AvatarStore interface {
	UploadAvatar(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type Service struct {
	repo    Repository
	cache   *Cache
	avatars AvatarStore
}

func NewService(repo Repository, cache *Cache, avatars AvatarStore) *Service {
	return &Service{repo: repo, cache: cache, avatars: avatars}
}

func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	u := &User{
		Email:       strings.TrimSpace(req.Email),
		Name:        req.Name,
		Username:    req.Username,
		Company:     req.Company,
		HomeCity:    req.HomeCity,
		CurrentCity: req.CurrentCity,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if u.Email == "" {
		return nil, apperrors.Validation("email required")
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err, ConstraintEmail) {
			return nil, apperrors.Conflict("email already in use")
		}
		return nil, apperrors.Internal(err)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if u, ok := s.cache.Get(ctx, id); ok {
		return u, nil
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Set(ctx, u)
	return u, nil
}

func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	u, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}
	return u, nil
}

// Update merges the patch into the existing row. Only non-nil fields change.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *UpdateUserRequest) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Company != nil {
		u.Company = *patch.Company
	}
	if patch.HomeCity != nil {
		u.HomeCity = *patch.HomeCity
	}
	if patch.CurrentCity != nil {
		u.CurrentCity = *patch.CurrentCity
	}
	if patch.Latitude != nil {
		u.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		u.Longitude = patch.Longitude
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, id)
	return u, nil
}

// Search returns an empty list for blank queries rather than all users.
func (s *Service) Search(ctx context.Context, query string) ([]User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []User{}, nil
	}

	users, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (s *Service) UploadAvatar(ctx context.Context, id uuid.UUID, file *multipart.FileHeader) (*User, error) {
	if s.avatars == nil {
		return nil, apperrors.Internal(errors.New("avatar storage not configured"))
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	url, err := s.avatars.UploadAvatar(ctx, file)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	u.Avatar = url
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, id)
	return u, nil
}
