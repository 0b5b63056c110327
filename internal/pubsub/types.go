package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

// EventReplayRatings matches the default REPLAY_TOPIC config value.
const (
	EventReplayRatings EventType = "rating-replay"
	EventNotifyResult  EventType = "notify-result"
)

// ReplayRequest is the payload for EventReplayRatings. Reason is free text
// describing what triggered the replay, for the logs on the receiving side.
type ReplayRequest struct {
	Reason  string `msgpack:"reason"`
	MatchID string `msgpack:"match_id,omitempty"`
}

// ResultNotification is the payload for EventNotifyResult.
type ResultNotification struct {
	MatchID string `msgpack:"match_id"`
}
