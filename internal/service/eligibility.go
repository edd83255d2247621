package service

import "context"

// relationReader is the subset of the Relationship Store the eligibility rules read.
type relationReader interface {
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	IsBlockedEither(ctx context.Context, a, b string) (bool, error)
}

// canFollow reports why actorID may not follow targetID, or nil if it may.
// Checks run in order: self, already following, block in either direction.
func canFollow(ctx context.Context, rel relationReader, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	following, err := rel.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if following {
		return ErrAlreadyFollowing
	}
	blocked, err := rel.IsBlockedEither(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrBlocked
	}
	return nil
}

// canUnfollow reports why actorID may not unfollow targetID, or nil if it may.
func canUnfollow(ctx context.Context, rel relationReader, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfAction
	}
	following, err := rel.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !following {
		return ErrNotFollowing
	}
	blocked, err := rel.IsBlockedEither(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrBlocked
	}
	return nil
}
