package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/pkg/errors"
	"go.uber.org/zap"
)

type snapshotRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSnapshotRepository создает репозиторий снимков состояния поезда
func NewSnapshotRepository(db *DB) repository.SnapshotRepository {
	return &snapshotRepository{
		db:     db,
		logger: db.logger,
	}
}

type snapshotRow struct {
	ID          uuid.UUID `db:"id"`
	TrainNo     string    `db:"train_no"`
	JourneyDate string    `db:"journey_date"`
	Version     int64     `db:"version"`
	StationIdx  int       `db:"station_idx"`
	Payload     []byte    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *snapshotRepository) Save(ctx context.Context, s *domain.TrainSnapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO train_snapshots (id, train_no, journey_date, version, station_idx, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
		ON CONFLICT (train_no, version) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.TrainNo, s.JourneyDate, s.Version, s.StationIdx, string(s.Payload), s.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save snapshot",
			zap.String("train_no", s.TrainNo),
			zap.Int64("version", s.Version),
			zap.Error(err))
		return errors.Wrap(errors.ErrDatabaseError, err)
	}

	r.logger.Debug("Snapshot saved",
		zap.String("train_no", s.TrainNo),
		zap.Int64("version", s.Version))
	return nil
}

func (r *snapshotRepository) Latest(ctx context.Context, trainNo string) (*domain.TrainSnapshot, error) {
	query := `
		SELECT id, train_no, journey_date, version, station_idx, payload, created_at
		FROM train_snapshots
		WHERE train_no = $1
		ORDER BY version DESC
		LIMIT 1
	`

	var row snapshotRow
	err := r.db.GetContext(ctx, &row, query, trainNo)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get latest snapshot", zap.String("train_no", trainNo), zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabaseError, err)
	}

	return &domain.TrainSnapshot{
		ID:          row.ID,
		TrainNo:     row.TrainNo,
		JourneyDate: row.JourneyDate,
		Version:     row.Version,
		StationIdx:  row.StationIdx,
		Payload:     row.Payload,
		CreatedAt:   row.CreatedAt,
	}, nil
}
