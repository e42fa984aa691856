// Package simulation прогоняет поезд по всему маршруту без внешних сервисов:
// состав из CSV, состояние в памяти, побочные эффекты отключены.
package simulation

import (
	"context"
	stderrors "errors"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/usecase"
	"github.com/rac-reallocation/internal/usecase/dto"
	"go.uber.org/zap"
)

// Config - параметры прогона
type Config struct {
	TrainNo            string
	TrainName          string
	JourneyDate        string
	StationsPath       string
	PassengersPath     string
	SleeperCoaches     int
	ThreeTierACCoaches int

	// NoShows - PNR, отмечаемые неявившимися до отправления
	NoShows []string
	// ApproveAs - TTE, от имени которого подтверждаются все предложения в режиме APPROVAL; пусто - не подтверждать
	ApproveAs string
}

// StationReport - итог обработки одной станции
type StationReport struct {
	Station  domain.Station        `json:"station"`
	Arrival  *engine.ArrivalResult `json:"arrival"`
	Approval *engine.BatchResult   `json:"approval,omitempty"`
}

// Report - итог всего прогона
type Report struct {
	Train    dto.TrainSummary       `json:"train"`
	Init     *engine.InitReport     `json:"init"`
	Stations []StationReport        `json:"stations"`
	Final    domain.Stats           `json:"final"`
	Events   []domain.EventLogEntry `json:"events"`
}

type Runner struct {
	engine         *engine.Engine
	trainUC        *usecase.TrainUseCase
	reallocationUC *usecase.ReallocationUseCase
	vizUC          *usecase.VisualizationUseCase
	publisher      *usecase.EventPublisher
	logger         *zap.Logger
}

func NewRunner(eng *engine.Engine, roster repository.RosterRepository, logger *zap.Logger) *Runner {
	registry := usecase.NewRegistry()
	publisher := usecase.NewEventPublisher(nil, nil, nil, usecase.PublisherOptions{Concurrency: 1}, logger)
	rosters := map[string]repository.RosterRepository{dto.SourceCSV: roster}

	return &Runner{
		engine:         eng,
		trainUC:        usecase.NewTrainUseCase(registry, eng, rosters, publisher, nil, usecase.TrainDefaults{Source: dto.SourceCSV}, logger),
		reallocationUC: usecase.NewReallocationUseCase(registry, eng, publisher, nil, logger),
		vizUC:          usecase.NewVisualizationUseCase(registry, eng, nil, 0, logger),
		publisher:      publisher,
		logger:         logger,
	}
}

// Run - загрузка, отметка неявок и обработка каждой станции до конечной
func (r *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	defer r.publisher.Wait()

	initResp, err := r.trainUC.Initialize(ctx, dto.InitializeTrainRequest{
		TrainNo:            cfg.TrainNo,
		TrainName:          cfg.TrainName,
		JourneyDate:        cfg.JourneyDate,
		Source:             dto.SourceCSV,
		StationsPath:       cfg.StationsPath,
		PassengersPath:     cfg.PassengersPath,
		SleeperCoaches:     cfg.SleeperCoaches,
		ThreeTierACCoaches: cfg.ThreeTierACCoaches,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.trainUC.Delete(context.WithoutCancel(ctx), cfg.TrainNo)
	}()

	for _, pnr := range cfg.NoShows {
		if _, err := r.trainUC.MarkNoShow(ctx, cfg.TrainNo, pnr); err != nil {
			r.logger.Warn("Skipping no-show", zap.String("pnr", pnr), zap.Error(err))
		}
	}

	report := &Report{Init: initResp.Report}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		station, err := r.processStation(ctx, cfg)
		if err != nil {
			return nil, err
		}
		report.Stations = append(report.Stations, *station)

		if _, err := r.trainUC.Advance(ctx, cfg.TrainNo); err != nil {
			if stderrors.Is(err, errors.ErrJourneyComplete) {
				break
			}
			return nil, err
		}
	}

	summary, _, err := r.vizUC.Summary(ctx, cfg.TrainNo)
	if err != nil {
		return nil, err
	}
	events, _, err := r.vizUC.Events(ctx, cfg.TrainNo)
	if err != nil {
		return nil, err
	}

	report.Train = summary
	report.Final = summary.Stats
	report.Events = events
	return report, nil
}

func (r *Runner) processStation(ctx context.Context, cfg Config) (*StationReport, error) {
	arrival, err := r.trainUC.ProcessArrival(ctx, cfg.TrainNo)
	if err != nil {
		return nil, err
	}

	out := &StationReport{Station: arrival.Station, Arrival: arrival}
	if r.engine.Mode() != domain.ModeApproval || cfg.ApproveAs == "" || len(arrival.Pending) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(arrival.Pending))
	for _, rec := range arrival.Pending {
		ids = append(ids, rec.ID)
	}

	batch, err := r.reallocationUC.Approve(ctx, cfg.TrainNo, dto.ApproveReallocationsRequest{IDs: ids, TTEID: cfg.ApproveAs})
	if err != nil {
		return nil, err
	}
	out.Approval = batch

	r.logger.Debug("Offers approved",
		zap.String("station", arrival.Station.Code),
		zap.Int("approved", batch.TotalApproved))
	return out, nil
}
