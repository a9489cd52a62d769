// Package social maintains the follow graph consulted by the followers
// ranking dimension and per-entry "is followed" display state.
package social

import (
	"context"
	"fmt"

	"github.com/stride-fitness/stride/internal/domain"
	"github.com/stride-fitness/stride/internal/infra/observability"
)

// Service mutates and reads follow edges. Both sides of an edge are written
// so either profile reads its own lists without a scan.
type Service struct {
	profiles domain.ProfileStore
}

// New creates a social service.
func New(profiles domain.ProfileStore) *Service {
	return &Service{profiles: profiles}
}

// Follow adds target to userID's following list and userID to target's
// followers. Duplicate follows are no-ops.
func (s *Service) Follow(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return domain.ErrSelfFollow
	}

	user, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("read profile %s: %w", userID, err)
	}
	target, err := s.profiles.GetProfile(ctx, targetID)
	if err != nil {
		return fmt.Errorf("read profile %s: %w", targetID, err)
	}

	changedUser := user.Social.AddFollowing(targetID)
	changedTarget := target.Social.AddFollower(userID)
	return s.saveEdges(ctx, userID, targetID, user.Social, target.Social, changedUser, changedTarget)
}

// Unfollow removes the edge in both directions. Unfollowing someone not
// followed is a no-op.
func (s *Service) Unfollow(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return domain.ErrSelfFollow
	}

	user, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("read profile %s: %w", userID, err)
	}
	target, err := s.profiles.GetProfile(ctx, targetID)
	if err != nil {
		return fmt.Errorf("read profile %s: %w", targetID, err)
	}

	changedUser := user.Social.RemoveFollowing(targetID)
	changedTarget := target.Social.RemoveFollower(userID)
	return s.saveEdges(ctx, userID, targetID, user.Social, target.Social, changedUser, changedTarget)
}

func (s *Service) saveEdges(ctx context.Context, userID, targetID string, user, target domain.SocialState, changedUser, changedTarget bool) error {
	if changedUser {
		if err := s.profiles.SaveSocial(ctx, userID, user); err != nil {
			observability.StoreFailures.WithLabelValues("profile", "save_social").Inc()
			return fmt.Errorf("save social %s: %w", userID, err)
		}
	}
	if changedTarget {
		if err := s.profiles.SaveSocial(ctx, targetID, target); err != nil {
			observability.StoreFailures.WithLabelValues("profile", "save_social").Inc()
			return fmt.Errorf("save social %s: %w", targetID, err)
		}
	}
	return nil
}

// State returns a user's current follow graph.
func (s *Service) State(ctx context.Context, userID string) (domain.SocialState, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return domain.SocialState{}, fmt.Errorf("read profile %s: %w", userID, err)
	}
	return p.Social, nil
}
