package changefeed

import "time"

// Resources that emit changes
const (
	ResourceEvents     = "events"
	ResourceEventTypes = "event-types"
	ResourceUsers      = "users"
)

// Actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChannelPrefix is prepended to the resource name to build the Redis pub/sub channel
const ChannelPrefix = "changes:"

// Change is the message published whenever a directory entry or an event is mutated.
// Subscribers of the change stream and the Kafka topic use it to refresh their copies.
type Change struct {
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
}
