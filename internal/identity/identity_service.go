// Package identity reconciles external identity-provider accounts with local
// user rows: a single upsert keyed on the external id.
package identity

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"linkup-service/internal/adapters/database"
	"linkup-service/internal/events"
	"linkup-service/internal/user"
	"linkup-service/pkg/apperrors"
)

// SyncRequest is the profile hint sent alongside the verified identity.
type SyncRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Service struct {
	users  user.Repository
	cache  *user.Cache
	events *events.Publisher

	// group collapses concurrent syncs for the same external id onto one
	// storage round trip.
	group singleflight.Group
}

func NewService(users user.Repository, cache *user.Cache, publisher *events.Publisher) *Service {
	return &Service{users: users, cache: cache, events: publisher}
}

// Sync upserts the user row for externalID. Repeat syncs refresh the email
// and name from the hint and always return the same row; the external id is
// never changed once set.
func (s *Service) Sync(ctx context.Context, externalID string, req *SyncRequest) (*user.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, apperrors.Unauthorized("missing identity context")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperrors.Validation("email required")
	}

	v, err, _ := s.group.Do(externalID, func() (interface{}, error) {
		return s.sync(ctx, externalID, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*user.User), nil
}

func (s *Service) sync(ctx context.Context, externalID string, req *SyncRequest) (*user.User, error) {
	existing, err := s.users.FindByExternalID(ctx, externalID)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, req)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.create(ctx, externalID, req)
	default:
		return nil, apperrors.Internal(err)
	}
}

func (s *Service) refresh(ctx context.Context, u *user.User, req *SyncRequest) (*user.User, error) {
	u.Email = strings.TrimSpace(req.Email)
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Username != "" {
		u.Username = req.Username
	}

	if err := s.users.Update(ctx, u); err != nil {
		if database.IsUniqueViolation(err, user.ConstraintEmail) {
			return nil, apperrors.Conflict("email already associated with a different identity")
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, u.ID)
	s.events.Emit(events.TypeIdentitySynced, u.ID.String(), u)
	return u, nil
}

func (s *Service) create(ctx context.Context, externalID string, req *SyncRequest) (*user.User, error) {
	u := &user.User{
		ExternalID: &externalID,
		Email:      strings.TrimSpace(req.Email),
		Name:       req.Name,
		Username:   req.Username,
	}

	err := s.users.Create(ctx, u)
	if err == nil {
		s.events.Emit(events.TypeIdentitySynced, u.ID.String(), u)
		return u, nil
	}

	// Two first-syncs can race past the lookup; the storage constraint picks
	// the winner and the loser reads the winner's row back.
	if database.IsUniqueViolation(err, user.ConstraintExternalID) {
		winner, lookupErr := s.users.FindByExternalID(ctx, externalID)
		if lookupErr != nil {
			return nil, apperrors.Internal(lookupErr)
		}
		return winner, nil
	}
	if database.IsUniqueViolation(err, user.ConstraintEmail) {
		return nil, apperrors.Conflict("email already associated with a different identity")
	}
	return nil, apperrors.Internal(err)
}
