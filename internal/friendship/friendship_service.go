package friendship

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkup-service/internal/adapters/database"
	"linkup-service/internal/events"
	"linkup-service/internal/user"
	"linkup-service/pkg/apperrors"
)

// Service owns the friendship state machine:
//
//	(no edge) --SendRequest--> pending
//	pending   --Accept-------> accepted   (friend side only)
//	pending   --Reject-------> (deleted)  (friend side only)
//	accepted  --Remove-------> (deleted)  (either side)
//
// All mutual exclusion is delegated to the unique (user_id, friend_id) index
// and single-row conditional updates; losers of a race see Conflict or
// NotFound, never silent duplication.
type Service struct {
	repo   Repository
	users  user.Repository
	events *events.Publisher
}

func NewService(repo Repository, users user.Repository, publisher *events.Publisher) *Service {
	return &Service{repo: repo, users: users, events: publisher}
}

// SendRequest creates a pending edge from userID to friendID and returns it
// with the target user attached for immediate display.
func (s *Service) SendRequest(ctx context.Context, userID, friendID uuid.UUID) (*Friendship, error) {
	if userID == friendID {
		return nil, apperrors.Validation("cannot send a friend request to yourself")
	}

	friend, err := s.users.FindByID(ctx, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	edge := &Friendship{UserID: userID, FriendID: friendID, Status: StatusPending}
	if err := s.repo.Create(ctx, edge); err != nil {
		if database.IsUniqueViolation(err, ConstraintPair) || database.IsUniqueViolation(err, "") {
			return nil, s.conflictForExistingPair(ctx, userID, friendID)
		}
		return nil, apperrors.Internal(err)
	}

	edge.Friend = friend
	s.events.Emit(events.TypeFriendRequested, edge.ID.String(), edge)
	return edge, nil
}

// conflictForExistingPair reports the current status when it is cheaply
// determinable, per the API contract.
func (s *Service) conflictForExistingPair(ctx context.Context, userID, friendID uuid.UUID) error {
	existing, err := s.repo.FindByPair(ctx, userID, friendID)
	if err != nil {
		return apperrors.Conflict("relationship already exists")
	}
	switch existing.Status {
	case StatusPending:
		return apperrors.Conflict("friend request already sent")
	case StatusAccepted:
		return apperrors.Conflict("already friends")
	default:
		return apperrors.Conflict("relationship already exists")
	}
}

// Remove deletes the edge between two users regardless of direction or
// status. The caller must be one of the two sides.
func (s *Service) Remove(ctx context.Context, callerID, userID, friendID uuid.UUID) error {
	edge, err := s.repo.FindByUnorderedPair(ctx, userID, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("friendship not found")
		}
		return apperrors.Internal(err)
	}

	if callerID != edge.UserID && callerID != edge.FriendID {
		return apperrors.Forbidden("not a party to this friendship")
	}

	if err := s.repo.Delete(ctx, edge.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("friendship not found")
		}
		return apperrors.Internal(err)
	}

	s.events.Emit(events.TypeFriendRemoved, edge.ID.String(), edge)
	return nil
}

// ListIncoming returns the snapshot of pending requests addressed to userID.
func (s *Service) ListIncoming(ctx context.Context, userID uuid.UUID) ([]IncomingRequest, error) {
	edges, err := s.repo.ListIncoming(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	requests := make([]IncomingRequest, 0, len(edges))
	for _, edge := range edges {
		if edge.User == nil {
			continue
		}
		requests = append(requests, IncomingRequest{
			FriendshipID: edge.ID,
			Requester:    *edge.User,
			SentAt:       edge.CreatedAt,
		})
	}
	return requests, nil
}

// Accept transitions a pending edge to accepted. Only the friend side may
// accept; a resolved or unknown id reports NotFound so a concurrent second
// accept/reject reads as "already handled".
func (s *Service) Accept(ctx context.Context, callerID, id uuid.UUID) (*Friendship, error) {
	edge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("friend request not found")
		}
		return nil, apperrors.Internal(err)
	}

	if callerID != edge.FriendID {
		return nil, apperrors.Forbidden("only the recipient can accept a friend request")
	}
	if edge.Status != StatusPending {
		return nil, apperrors.NotFound("friend request not found")
	}

	if err := s.repo.MarkAccepted(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("friend request not found")
		}
		return nil, apperrors.Internal(err)
	}

	edge.Status = StatusAccepted
	s.events.Emit(events.TypeFriendAccepted, edge.ID.String(), edge)
	return edge, nil
}

// Reject deletes a pending edge. Only the friend side may reject.
func (s *Service) Reject(ctx context.Context, callerID, id uuid.UUID) error {
	edge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("friend request not found")
		}
		return apperrors.Internal(err)
	}

	if callerID != edge.FriendID {
		return apperrors.Forbidden("only the recipient can reject a friend request")
	}
	if edge.Status != StatusPending {
		return apperrors.NotFound("friend request not found")
	}

	if err := s.repo.DeletePending(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("friend request not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// GetFriends returns userID's accepted friends, unioned over both edge
// directions so a single accepted row yields symmetric visibility.
func (s *Service) GetFriends(ctx context.Context, userID uuid.UUID) ([]FriendEntry, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	outgoing, err := s.repo.ListAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	incoming, err := s.repo.ListAcceptedByFriend(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	friends := make([]FriendEntry, 0, len(outgoing)+len(incoming))
	for _, edge := range outgoing {
		if edge.Friend == nil {
			continue
		}
		friends = append(friends, FriendEntry{FriendshipID: edge.ID, User: *edge.Friend})
	}
	for _, edge := range incoming {
		if edge.User == nil {
			continue
		}
		friends = append(friends, FriendEntry{FriendshipID: edge.ID, User: *edge.User})
	}
	return friends, nil
}
