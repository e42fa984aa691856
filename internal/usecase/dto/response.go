package dto

import (
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
)

// TrainSummary - сводка состояния поезда
type TrainSummary struct {
	TrainNo             string                  `json:"train_no"`
	TrainName           string                  `json:"train_name"`
	JourneyDate         string                  `json:"journey_date"`
	Mode                domain.ReallocationMode `json:"mode"`
	CurrentStationIdx   int                     `json:"current_station_idx"`
	CurrentStation      *domain.Station         `json:"current_station,omitempty"`
	ProcessedStationIdx int                     `json:"processed_station_idx"`
	JourneyComplete     bool                    `json:"journey_complete"`
	Stations            []domain.Station        `json:"stations"`
	CoachCount          int                     `json:"coach_count"`
	Stats               domain.Stats            `json:"stats"`
	Version             uint64                  `json:"version"`
	CreatedAt           time.Time               `json:"created_at"`
}

// InitializeTrainResponse - итог загрузки состава
type InitializeTrainResponse struct {
	Summary TrainSummary       `json:"summary"`
	Report  *engine.InitReport `json:"report"`
}

// PassengerView - пассажир для выдачи наружу
type PassengerView struct {
	PNR             string                 `json:"pnr"`
	Name            string                 `json:"name"`
	Age             int                    `json:"age"`
	Gender          string                 `json:"gender"`
	Class           domain.CoachClass      `json:"class"`
	From            string                 `json:"from"`
	To              string                 `json:"to"`
	FromIdx         int                    `json:"from_idx"`
	ToIdx           int                    `json:"to_idx"`
	PNRStatus       domain.PNRStatus       `json:"pnr_status"`
	RACStatus       string                 `json:"rac_status"`
	RACNumber       int                    `json:"rac_number,omitempty"`
	CoachNo         string                 `json:"coach_no,omitempty"`
	BerthNo         int                    `json:"berth_no,omitempty"`
	BerthType       domain.BerthType       `json:"berth_type,omitempty"`
	FullBerthNo     string                 `json:"full_berth_no,omitempty"`
	PassengerStatus domain.PassengerStatus `json:"passenger_status"`
	Boarded         bool                   `json:"boarded"`
	NoShow          bool                   `json:"no_show"`
	NoShowAt        *time.Time             `json:"no_show_at,omitempty"`
	Deboarded       bool                   `json:"deboarded"`
	UpgradedFrom    string                 `json:"upgraded_from,omitempty"`
	UpgradedAt      *time.Time             `json:"upgraded_at,omitempty"`
}

// RACQueueEntry - позиция в очереди RAC
type RACQueueEntry struct {
	Position  int           `json:"position"`
	Passenger PassengerView `json:"passenger"`
}

// BerthSegments - занятость полки по перегонам
type BerthSegments struct {
	CoachNo          string             `json:"coach_no"`
	BerthNo          int                `json:"berth_no"`
	FullBerthNo      string             `json:"full_berth_no"`
	Type             domain.BerthType   `json:"type"`
	Class            domain.CoachClass  `json:"class"`
	Status           domain.BerthStatus `json:"status"`
	SegmentOccupancy [][]string         `json:"segment_occupancy"`
}

// CoachSegments - вагон с матрицей занятости
type CoachSegments struct {
	CoachNo string            `json:"coach_no"`
	Class   domain.CoachClass `json:"class"`
	Berths  []BerthSegments   `json:"berths"`
}

// SegmentsView - матрица занятости всего поезда
type SegmentsView struct {
	Segments []domain.Segment `json:"segments"`
	Coaches  []CoachSegments  `json:"coaches"`
}

// StateSnapshot - полное состояние поезда для снимка в БД
type StateSnapshot struct {
	Summary       TrainSummary                 `json:"summary"`
	Passengers    []PassengerView              `json:"passengers"`
	RACQueue      []string                     `json:"rac_queue"`
	Reallocations []domain.PendingReallocation `json:"reallocations"`
	Coaches       []CoachSegments              `json:"coaches"`
}

// NoShowResponse - результат отметки или отмены неявки
type NoShowResponse struct {
	Passenger PassengerView `json:"passenger"`
	Stats     domain.Stats  `json:"stats"`
}

// AdvanceResponse - поезд перешёл к следующей станции
type AdvanceResponse struct {
	Station domain.Station `json:"station"`
	Summary TrainSummary   `json:"summary"`
}
