package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventRoundTrip(t *testing.T) {
	evt, err := NewEvent(EventFollowCreated, "user-2", RelationPayload{ActorID: "user-1", TargetID: "user-2"})
	require.NoError(t, err)
	assert.Equal(t, EventFollowCreated, evt.Type)
	assert.Equal(t, "user-2", evt.Key)
	assert.False(t, evt.Timestamp.IsZero())

	var p RelationPayload
	require.NoError(t, evt.UnmarshalPayload(&p))
	assert.Equal(t, RelationPayload{ActorID: "user-1", TargetID: "user-2"}, p)
}

func TestNewEventRejectsUnencodable(t *testing.T) {
	_, err := NewEvent(EventFollowCreated, "k", make(chan int))
	assert.Error(t, err)
}

func TestChannelToTopic(t *testing.T) {
	topic, err := channelToTopic(ChannelSocialEvents)
	require.NoError(t, err)
	assert.Equal(t, "social-events", topic)

	for _, bad := range []string{"social", "social:", ":events", ""} {
		_, err := channelToTopic(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewPublisher(t *testing.T) {
	p, err := NewPublisher(Config{Driver: DriverNone})
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), ChannelSocialEvents, &Event{}))
	assert.NoError(t, p.Close())

	p, err = NewPublisher(Config{})
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)

	_, err = NewPublisher(Config{Driver: "nats"})
	assert.Error(t, err)
}

func TestNewRedisPublisherFailsWithoutServer(t *testing.T) {
	_, err := NewRedisPublisher(RedisConfig{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}
