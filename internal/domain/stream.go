package domain

// Stream names
const (
	StreamTrainEvents = "stream:train:events"
)

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}

// NotifiableEvents - события, о которых сообщается пассажиру
var NotifiableEvents = map[EventType]bool{
	EventRACUpgraded:         true,
	EventReallocationPending: true,
	EventNoShow:              true,
	EventNoShowReverted:      true,
}

// IsNotifiable - событие адресовано конкретному пассажиру
func (e *TrainEvent) IsNotifiable() bool {
	return e.PNR != "" && NotifiableEvents[e.Type]
}
