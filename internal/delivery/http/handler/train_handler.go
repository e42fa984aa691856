package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rac-reallocation/internal/pkg/utils"
	"github.com/rac-reallocation/internal/usecase"
	"github.com/rac-reallocation/internal/usecase/dto"
	"go.uber.org/zap"
)

// TrainHandler - жизненный цикл сессии поезда, станционные события и неявки
type TrainHandler struct {
	trainUC *usecase.TrainUseCase
	logger  *zap.Logger
}

// NewTrainHandler создает новый экземпляр TrainHandler
func NewTrainHandler(trainUC *usecase.TrainUseCase, logger *zap.Logger) *TrainHandler {
	return &TrainHandler{
		trainUC: trainUC,
		logger:  logger,
	}
}

// Initialize godoc
// @Summary Initialize train
// @Description Загружает маршрут и список пассажиров из источника (mongo или csv) и создаёт сессию поезда
// @Tags Trains
// @Accept json
// @Produce json
// @Param request body dto.InitializeTrainRequest true "Параметры поезда"
// @Success 201 {object} utils.SuccessResponse{data=dto.InitializeTrainResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/trains [post]
func (h *TrainHandler) Initialize(c *fiber.Ctx) error {
	var req dto.InitializeTrainRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.trainUC.Initialize(c.Context(), req)
	if err != nil {
		h.logger.Warn("Failed to initialize train", zap.String("train_no", req.TrainNo), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, resp, trainMeta(resp.Summary.TrainNo, resp.Summary.Version))
}

// Reset godoc
// @Summary Reset train
// @Description Пересоздаёт сессию поезда из того же источника
// @Tags Trains
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=dto.InitializeTrainResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/reset [post]
func (h *TrainHandler) Reset(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	resp, err := h.trainUC.Reset(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, trainMeta(trainNo, resp.Summary.Version))
}

// Delete godoc
// @Summary Delete train session
// @Tags Trains
// @Param trainNo path string true "Номер поезда"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo} [delete]
func (h *TrainHandler) Delete(c *fiber.Ctx) error {
	if err := h.trainUC.Delete(c.Context(), c.Params("trainNo")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ProcessArrival godoc
// @Summary Process station arrival
// @Description Высадка, снятие неявившихся, поиск свободных полок, перераспределение RAC и посадка на текущей станции
// @Tags Journey
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=engine.ArrivalResult}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/arrival [post]
func (h *TrainHandler) ProcessArrival(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	result, err := h.trainUC.ProcessArrival(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	idx := result.StationIdx
	return utils.SendSuccess(c, result, &utils.Meta{TrainNo: trainNo, StationIdx: &idx})
}

// Advance godoc
// @Summary Advance to next station
// @Tags Journey
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=dto.AdvanceResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/advance [post]
func (h *TrainHandler) Advance(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	resp, err := h.trainUC.Advance(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, trainMeta(trainNo, resp.Summary.Version))
}

// MarkNoShow godoc
// @Summary Mark passenger as no-show
// @Description Полка освобождается при обработке станции посадки пассажира
// @Tags Passengers
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Param pnr path string true "PNR (10 цифр)"
// @Success 200 {object} utils.SuccessResponse{data=dto.NoShowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/passengers/{pnr}/no-show [post]
func (h *TrainHandler) MarkNoShow(c *fiber.Ctx) error {
	pnr, err := pnrParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.trainUC.MarkNoShow(c.Context(), c.Params("trainNo"), pnr)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// RevertNoShow godoc
// @Summary Revert no-show
// @Description Отмена неявки в пределах окна NO_SHOW_REVERT_WINDOW
// @Tags Passengers
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Param pnr path string true "PNR (10 цифр)"
// @Success 200 {object} utils.SuccessResponse{data=dto.NoShowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/passengers/{pnr}/revert-no-show [post]
func (h *TrainHandler) RevertNoShow(c *fiber.Ctx) error {
	pnr, err := pnrParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.trainUC.RevertNoShow(c.Context(), c.Params("trainNo"), pnr)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}
