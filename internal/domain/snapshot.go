package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TrainSnapshot - сериализованное состояние поезда на момент изменения
type TrainSnapshot struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TrainNo     string          `json:"train_no" db:"train_no"`
	JourneyDate string          `json:"journey_date" db:"journey_date"`
	Version     int64           `json:"version" db:"version"`
	StationIdx  int             `json:"station_idx" db:"station_idx"`
	Payload     json.RawMessage `json:"payload" db:"payload"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
