package mongo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// SourceJourneyDate - источник хранит дату как DD-MM-YYYY; YYYY-MM-DD переводится,
// остальные форматы передаются как есть
func SourceJourneyDate(date string) string {
	m := isoDatePattern.FindStringSubmatch(date)
	if m == nil {
		return date
	}
	return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
}

type rosterRepository struct {
	client *Client
	logger *zap.Logger
}

// NewRosterRepository - состав поезда из коллекций stations и passengers
func NewRosterRepository(client *Client) repository.RosterRepository {
	return &rosterRepository{
		client: client,
		logger: client.logger,
	}
}

func (r *rosterRepository) LoadStations(ctx context.Context, _ repository.RosterQuery) ([]domain.StationRecord, error) {
	coll := r.client.Collection(r.client.cfg.StationsCollection)

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "SNO", Value: 1}}))
	if err != nil {
		r.logger.Error("Failed to query stations", zap.Error(err))
		return nil, fmt.Errorf("load stations: %w", err)
	}

	var stations []domain.StationRecord
	if err := cursor.All(ctx, &stations); err != nil {
		r.logger.Error("Failed to decode stations", zap.Error(err))
		return nil, fmt.Errorf("decode stations: %w", err)
	}

	r.logger.Debug("Stations loaded", zap.Int("count", len(stations)))
	return stations, nil
}

func (r *rosterRepository) LoadPassengers(ctx context.Context, q repository.RosterQuery) ([]domain.PassengerRecord, error) {
	coll := r.client.Collection(r.client.cfg.PassengersCollection)
	date := SourceJourneyDate(q.JourneyDate)

	cursor, err := coll.Find(ctx, bson.M{
		"Train_Number": q.TrainNo,
		"Journey_Date": date,
	})
	if err != nil {
		r.logger.Error("Failed to query passengers",
			zap.String("train_no", q.TrainNo),
			zap.String("journey_date", date),
			zap.Error(err))
		return nil, fmt.Errorf("load passengers: %w", err)
	}

	var passengers []domain.PassengerRecord
	if err := cursor.All(ctx, &passengers); err != nil {
		r.logger.Error("Failed to decode passengers", zap.Error(err))
		return nil, fmt.Errorf("decode passengers: %w", err)
	}

	if len(passengers) == 0 {
		r.logger.Warn("No passengers found",
			zap.String("train_no", q.TrainNo),
			zap.String("journey_date", date),
			zap.String("collection", r.client.cfg.PassengersCollection))
	}

	return passengers, nil
}
