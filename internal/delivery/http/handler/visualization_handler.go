package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rac-reallocation/internal/pkg/utils"
	"github.com/rac-reallocation/internal/usecase"
	"go.uber.org/zap"
)

// VisualizationHandler - представления состояния поезда только для чтения
type VisualizationHandler struct {
	vizUC  *usecase.VisualizationUseCase
	logger *zap.Logger
}

func NewVisualizationHandler(vizUC *usecase.VisualizationUseCase, logger *zap.Logger) *VisualizationHandler {
	return &VisualizationHandler{
		vizUC:  vizUC,
		logger: logger,
	}
}

// ListTrains godoc
// @Summary List active trains
// @Tags Trains
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]string}
// @Router /api/v1/trains [get]
func (h *VisualizationHandler) ListTrains(c *fiber.Ctx) error {
	trains := h.vizUC.Trains()
	return utils.SendSuccess(c, trains, &utils.Meta{Total: len(trains)})
}

// GetSummary godoc
// @Summary Train summary
// @Tags Visualization
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=dto.TrainSummary}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo} [get]
func (h *VisualizationHandler) GetSummary(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	summary, version, err := h.vizUC.Summary(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, summary, trainMeta(trainNo, version))
}

// GetStats godoc
// @Summary Train statistics
// @Tags Visualization
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=domain.Stats}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/stats [get]
func (h *VisualizationHandler) GetStats(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	stats, version, err := h.vizUC.Stats(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stats, trainMeta(trainNo, version))
}

// GetSegments godoc
// @Summary Segment occupancy matrix
// @Description Занятость каждой полки по перегонам маршрута
// @Tags Visualization
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=dto.SegmentsView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/segments [get]
func (h *VisualizationHandler) GetSegments(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	view, version, err := h.vizUC.Segments(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, view, trainMeta(trainNo, version))
}

// GetVacancies godoc
// @Summary Vacant berths
// @Description Полки, свободные хотя бы на одном перегоне впереди
// @Tags Visualization
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=[]engine.Vacancy}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/vacancies [get]
func (h *VisualizationHandler) GetVacancies(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	vacancies, version, err := h.vizUC.Vacancies(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := trainMeta(trainNo, version)
	meta.Total = len(vacancies)
	return utils.SendSuccess(c, vacancies, meta)
}

// GetRACQueue godoc
// @Summary RAC queue
// @Tags Visualization
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.RACQueueEntry}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/rac-queue [get]
func (h *VisualizationHandler) GetRACQueue(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	queue, version, err := h.vizUC.RACQueue(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := trainMeta(trainNo, version)
	meta.Total = len(queue)
	return utils.SendSuccess(c, queue, meta)
}

// GetEvents godoc
// @Summary Train event log
// @Tags Visualization
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.EventLogEntry}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/events [get]
func (h *VisualizationHandler) GetEvents(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	events, version, err := h.vizUC.Events(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := trainMeta(trainNo, version)
	meta.Total = len(events)
	return utils.SendSuccess(c, events, meta)
}

// GetPassenger godoc
// @Summary Passenger details
// @Tags Passengers
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Param pnr path string true "PNR (10 цифр)"
// @Success 200 {object} utils.SuccessResponse{data=dto.PassengerView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/passengers/{pnr} [get]
func (h *VisualizationHandler) GetPassenger(c *fiber.Ctx) error {
	pnr, err := pnrParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	view, err := h.vizUC.Passenger(c.Context(), c.Params("trainNo"), pnr)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, view, nil)
}
