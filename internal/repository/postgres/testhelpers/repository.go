package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewSnapshotRepositoryForTest creates a snapshot repository with test database and logger
func NewSnapshotRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.SnapshotRepository {
	return postgres.NewSnapshotRepository(NewDBForTest(db, logger))
}

// NewReallocationRepositoryForTest creates a reallocation audit repository with test database and logger
func NewReallocationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ReallocationRepository {
	return postgres.NewReallocationRepository(NewDBForTest(db, logger))
}
