package pubsub

import (
	"fmt"
	"strings"
)

// ChannelSocialEvents carries every relationship change of the social graph.
const ChannelSocialEvents = "social:events"

// Event types emitted by the social graph.
const (
	EventFollowCreated          = "social.follow.created"
	EventFollowRemoved          = "social.follow.removed"
	EventFollowRequestCreated   = "social.follow_request.created"
	EventFollowRequestResponded = "social.follow_request.responded"
	EventBlockCreated           = "social.block.created"
	EventBlockRemoved           = "social.block.removed"
	EventPrivacyChanged         = "social.privacy.changed"
)

// RelationPayload is the payload of follow and block events.
type RelationPayload struct {
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id"`
}

// FollowRequestPayload is the payload of follow request events.
type FollowRequestPayload struct {
	RequestID   uint64 `json:"request_id"`
	RequesterID string `json:"requester_id"`
	TargetID    string `json:"target_id"`
	Status      string `json:"status"`
}

// PrivacyPayload is the payload of privacy change events.
type PrivacyPayload struct {
	UserID        string `json:"user_id"`
	PrivacyStatus string `json:"privacy_status"`
}

// channelToTopic converts a Redis-style channel to a Kafka topic.
//
//	"social:events" → "social-events"
func channelToTopic(channel string) (string, error) {
	parts := strings.Split(channel, ":")
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid channel format: %s", channel)
	}
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid channel format: %s", channel)
		}
	}
	return strings.Join(parts, "-"), nil
}
