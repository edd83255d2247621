package service

import (
	"context"
	"errors"

	"github.com/MuhammadYassa/WatchMate/internal/audit"
	"github.com/MuhammadYassa/WatchMate/internal/consumer"
	"github.com/MuhammadYassa/WatchMate/internal/repository"
	pkglog "github.com/MuhammadYassa/WatchMate/pkg/log"
)

// UserSync keeps the local users projection in step with the user service's CDC stream.
type UserSync struct {
	users repository.UserRepository
}

// NewUserSync creates a CDC handler that writes into users.
func NewUserSync(users repository.UserRepository) *UserSync {
	return &UserSync{users: users}
}

// HandleCDCEvent applies one Debezium change of the users table.
// Creates, snapshot reads and updates upsert the user; soft and hard deletes remove it
// together with every relationship it takes part in.
func (u *UserSync) HandleCDCEvent(ctx context.Context, event *consumer.DebeziumMessage) error {
	l := pkglog.Ctx(ctx)
	op := event.Payload.Op

	switch op {
	case "c", "r", "u":
		after := event.Payload.After
		if after == nil || after.ID == "" {
			l.Warn().Str("op", op).Msg("CDC event missing 'after' user")
			return nil
		}
		if after.DeletedAt != nil {
			return u.remove(ctx, after.ID)
		}
		if err := u.users.Upsert(ctx, after.ID, after.Username); err != nil {
			l.Error().Err(err).Str(pkglog.FieldUserID, after.ID).Msg("failed to upsert user")
			return err
		}
		audit.Record(ctx, audit.Entry{Action: audit.ActionUserSynced, UserID: after.ID, Detail: op, Message: "user synced"})

	case "d":
		before := event.Payload.Before
		if before == nil || before.ID == "" {
			l.Warn().Msg("CDC hard-delete event missing 'before' user")
			return nil
		}
		return u.remove(ctx, before.ID)

	default:
		l.Warn().Str("op", op).Msg("unknown CDC operation, skipping")
	}

	return nil
}

func (u *UserSync) remove(ctx context.Context, id string) error {
	if err := u.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldUserID, id).Msg("failed to remove user")
		return err
	}
	audit.Record(ctx, audit.Entry{Action: audit.ActionUserRemoved, UserID: id, Message: "user removed"})
	return nil
}

var _ consumer.CDCEventHandler = (*UserSync)(nil)
