package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType - тип события поезда
type EventType string

const (
	EventStationArrival       EventType = "STATION_ARRIVAL"
	EventTrainAdvanced        EventType = "TRAIN_ADVANCED"
	EventRACUpgraded          EventType = "RAC_UPGRADED"
	EventNoShow               EventType = "NO_SHOW"
	EventNoShowReverted       EventType = "NO_SHOW_REVERTED"
	EventReallocationPending  EventType = "REALLOCATION_PENDING"
	EventReallocationApproved EventType = "REALLOCATION_APPROVED"
	EventReallocationRejected EventType = "REALLOCATION_REJECTED"
	EventReallocationExpired  EventType = "REALLOCATION_EXPIRED"
	EventReallocationFailed   EventType = "REALLOCATION_FAILED"
	EventTrainInitialized     EventType = "TRAIN_INITIALIZED"
)

// maxEventLog - сколько записей журнала держим в памяти
const maxEventLog = 500

// EventLogEntry - запись журнала поезда
type EventLogEntry struct {
	Type       EventType `json:"type"`
	Message    string    `json:"message"`
	StationIdx int       `json:"station_idx"`
	PNR        string    `json:"pnr,omitempty"`
	At         time.Time `json:"at"`
}

// TrainEvent - событие для рассылки внешним подписчикам
type TrainEvent struct {
	ID          uuid.UUID              `json:"id"`
	Type        EventType              `json:"type"`
	TrainNo     string                 `json:"train_no"`
	StationIdx  int                    `json:"station_idx"`
	StationCode string                 `json:"station_code,omitempty"`
	PNR         string                 `json:"pnr,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

func NewTrainEvent(eventType EventType, state *TrainState, pnr string, payload map[string]interface{}, at time.Time) TrainEvent {
	ev := TrainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TrainNo:    state.TrainNo,
		StationIdx: state.CurrentStationIdx,
		PNR:        pnr,
		Payload:    payload,
		OccurredAt: at,
	}
	if st, ok := state.CurrentStation(); ok {
		ev.StationCode = st.Code
	}
	return ev
}

// Notification - push уведомление пассажиру
type Notification struct {
	PNR   string            `json:"pnr"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}
