package repository

import (
	"context"

	"github.com/rac-reallocation/internal/domain"
)

// RosterQuery - какой состав загрузить.
// Mongo использует TrainNo и JourneyDate, CSV источник - пути к файлам.
type RosterQuery struct {
	TrainNo        string
	JourneyDate    string
	StationsPath   string
	PassengersPath string
}

// RosterRepository - источник маршрута и списка пассажиров
type RosterRepository interface {
	LoadStations(ctx context.Context, q RosterQuery) ([]domain.StationRecord, error)
	LoadPassengers(ctx context.Context, q RosterQuery) ([]domain.PassengerRecord, error)
}
