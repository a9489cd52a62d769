package domain

// ─── Social Graph Types ─────────────────────────────────────────────────────
// Followers/following drive the "followers" ranking dimension and the
// per-entry "is followed" display state. Both sides of an edge are stored so
// either direction reads without a scan.

// SocialState holds a user's follow graph edges.
type SocialState struct {
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// FollowingSet returns the following list as a set for membership checks.
func (s SocialState) FollowingSet() map[string]bool {
	set := make(map[string]bool, len(s.Following))
	for _, id := range s.Following {
		set[id] = true
	}
	return set
}

// IsFollowing reports whether userID is in the following list.
func (s SocialState) IsFollowing(userID string) bool {
	for _, id := range s.Following {
		if id == userID {
			return true
		}
	}
	return false
}

// AddFollowing appends userID if absent. Returns true if the list changed.
func (s *SocialState) AddFollowing(userID string) bool {
	if s.IsFollowing(userID) {
		return false
	}
	s.Following = append(s.Following, userID)
	return true
}

// RemoveFollowing drops userID. Returns true if the list changed.
func (s *SocialState) RemoveFollowing(userID string) bool {
	for i, id := range s.Following {
		if id == userID {
			s.Following = append(s.Following[:i], s.Following[i+1:]...)
			return true
		}
	}
	return false
}

// AddFollower appends userID if absent. Returns true if the list changed.
func (s *SocialState) AddFollower(userID string) bool {
	for _, id := range s.Followers {
		if id == userID {
			return false
		}
	}
	s.Followers = append(s.Followers, userID)
	return true
}

// RemoveFollower drops userID. Returns true if the list changed.
func (s *SocialState) RemoveFollower(userID string) bool {
	for i, id := range s.Followers {
		if id == userID {
			s.Followers = append(s.Followers[:i], s.Followers[i+1:]...)
			return true
		}
	}
	return false
}
