package model

// EventType identifies the kind of lifecycle event a notification describes.
type EventType string

// Notification event types emitted by the rental request workflow.
const (
	EventRentalRequestCreated  EventType = "RENTAL_REQUEST_CREATED"
	EventRentalRequestAccepted EventType = "RENTAL_REQUEST_ACCEPTED"
	EventRentalRequestRejected EventType = "RENTAL_REQUEST_REJECTED"
)

// Channel is a delivery channel for notifications.
type Channel string

// Supported notification channels. Current policy delivers everything on
// PUSH; the event model allows more than one channel per event.
const (
	ChannelPush  Channel = "PUSH"
	ChannelEmail Channel = "EMAIL"
)

// NotificationEvent is a fully-formed outbound notification. It is immutable
// once constructed; delivery is fire-and-forget and the workflow never
// consumes a delivery result.
type NotificationEvent struct {
	EventType    EventType
	RecipientIDs []int64
	Title        string
	Message      string
	Channels     []Channel
	Metadata     map[string]any
}
