package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/MuhammadYassa/WatchMate/pkg/log"
)

// Audit actions for the social graph.
const (
	ActionFollow               = "social.follow"
	ActionUnfollow             = "social.unfollow"
	ActionFollowRequest        = "social.follow_request"
	ActionRespondFollowRequest = "social.respond_follow_request"
	ActionBlock                = "social.block"
	ActionUnblock              = "social.unblock"
	ActionUpdatePrivacy        = "social.update_privacy"
	ActionUserSynced           = "social.user_synced"
	ActionUserRemoved          = "social.user_removed"
)

// Field constants for audit entries.
const (
	FieldAction    = "action"
	FieldTargetID = log.FieldTargetID
	FieldDetail   = "detail"
)

// Entry is one audited change to the social graph. UserID is the user who acted,
// TargetID the user the change was aimed at.
type Entry struct {
	Action   string
	UserID   string
	TargetID string
	Detail   string
	Message  string
}

// Record emits e through the context logger. Empty optional fields are left out.
// The context logger must not already carry user_id or target_id.
func Record(ctx context.Context, e Entry) {
	l := log.Ctx(ctx)
	ev := l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, e.Action).
		Str(log.FieldUserID, e.UserID)
	optional(ev, e).Msg(e.Message)
}

func optional(ev *zerolog.Event, e Entry) *zerolog.Event {
	if e.TargetID != "" {
		ev = ev.Str(FieldTargetID, e.TargetID)
	}
	if e.Detail != "" {
		ev = ev.Str(FieldDetail, e.Detail)
	}
	return ev
}
