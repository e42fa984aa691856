package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultDecisionsLimit - сколько решений отдаём без явного лимита
	DefaultDecisionsLimit = 100

	decisionColumns = `
		id, train_no, pnr, passenger_name, rac_status, rac_number,
		coach_no, berth_no, full_berth_no, berth_type,
		vacant_from_idx, vacant_to_idx, station_idx, station_code,
		status, created_at, expires_at, processed_by, processed_at, reason`
)

type reallocationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReallocationRepository создает журнал решений по перераспределению
func NewReallocationRepository(db *DB) repository.ReallocationRepository {
	return &reallocationRepository{
		db:     db,
		logger: db.logger,
	}
}

// SaveDecisions - upsert по id: статус записи меняется от pending к итоговому
func (r *reallocationRepository) SaveDecisions(ctx context.Context, records []*domain.PendingReallocation) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO reallocation_decisions (` + decisionColumns + `)
		VALUES (
			:id, :train_no, :pnr, :passenger_name, :rac_status, :rac_number,
			:coach_no, :berth_no, :full_berth_no, :berth_type,
			:vacant_from_idx, :vacant_to_idx, :station_idx, :station_code,
			:status, :created_at, :expires_at, :processed_by, :processed_at, :reason
		)
		ON CONFLICT (id) DO UPDATE SET
			status       = EXCLUDED.status,
			processed_by = EXCLUDED.processed_by,
			processed_at = EXCLUDED.processed_at,
			reason       = EXCLUDED.reason
	`

	err := r.db.InTx(ctx, func(tx *sqlx.Tx) error {
		for _, rec := range records {
			if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
				r.logger.Error("Failed to save reallocation decision",
					zap.String("id", rec.ID),
					zap.String("pnr", rec.PNR),
					zap.Error(err))
				return fmt.Errorf("save decision %s: %w", rec.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save reallocation decisions",
			zap.Int("count", len(records)),
			zap.Error(err))
		return errors.Wrap(errors.ErrDatabaseError, err)
	}

	r.logger.Debug("Reallocation decisions saved", zap.Int("count", len(records)))
	return nil
}

func (r *reallocationRepository) ListByTrain(ctx context.Context, trainNo string, limit int) ([]*domain.PendingReallocation, error) {
	if limit <= 0 {
		limit = DefaultDecisionsLimit
	}

	query := `SELECT ` + decisionColumns + `
		FROM reallocation_decisions
		WHERE train_no = $1
		ORDER BY created_at DESC, id
		LIMIT $2`

	var records []*domain.PendingReallocation
	if err := r.db.SelectContext(ctx, &records, query, trainNo, limit); err != nil {
		r.logger.Error("Failed to list reallocation decisions", zap.String("train_no", trainNo), zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabaseError, err)
	}

	return records, nil
}

func (r *reallocationRepository) ListByPNRs(ctx context.Context, trainNo string, pnrs []string) ([]*domain.PendingReallocation, error) {
	if len(pnrs) == 0 {
		return []*domain.PendingReallocation{}, nil
	}

	query := `SELECT ` + decisionColumns + `
		FROM reallocation_decisions
		WHERE train_no = $1 AND pnr = ANY($2)
		ORDER BY pnr, created_at`

	var records []*domain.PendingReallocation
	if err := r.db.SelectContext(ctx, &records, query, trainNo, pq.Array(pnrs)); err != nil {
		r.logger.Error("Failed to list decisions by PNR",
			zap.String("train_no", trainNo),
			zap.Strings("pnrs", pnrs),
			zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabaseError, err)
	}

	return records, nil
}
