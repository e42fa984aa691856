package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/rac-reallocation/internal/domain"
	"go.uber.org/zap"
)

// Options - параметры движка перераспределения
type Options struct {
	Mode                 domain.ReallocationMode
	MinJourneyDistanceKm float64
	PendingTTL           time.Duration
	NoShowRevertWindow   time.Duration

	// StrictInvariants - нарушение занятости полок роняет операцию (режим разработки)
	StrictInvariants bool

	Clock func() time.Time
	NewID func() string
}

func DefaultOptions() Options {
	return Options{
		Mode:                 domain.ModeApproval,
		MinJourneyDistanceKm: 70,
		PendingTTL:           time.Hour,
		NoShowRevertWindow:   30 * time.Minute,
		Clock:                time.Now,
		NewID:                uuid.NewString,
	}
}

// Engine - синхронное ядро: все операции работают над переданным TrainState
// и не делают ввода-вывода. Сериализацию вызовов обеспечивает вызывающий слой.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Engine {
	if opts.Mode == "" {
		opts.Mode = domain.ModeApproval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		opts:   opts,
		logger: logger,
	}
}

func (e *Engine) Mode() domain.ReallocationMode {
	return e.opts.Mode
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) now() time.Time {
	return e.opts.Clock()
}

// Now - время по часам движка
func (e *Engine) Now() time.Time {
	return e.now()
}

// finish - общий хвост любой мутации
func (e *Engine) finish(state *domain.TrainState, now time.Time) {
	state.RecomputeStats(now)
	state.Touch()
	if e.opts.StrictInvariants {
		if err := state.CheckInvariants(); err != nil {
			panic(err)
		}
	}
}
