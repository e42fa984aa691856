package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/pkg/utils"
	pkgvalidator "github.com/rac-reallocation/internal/pkg/validator"
	"github.com/rac-reallocation/internal/usecase"
	"github.com/rac-reallocation/internal/usecase/dto"
	"go.uber.org/zap"
)

type ReallocationHandler struct {
	reallocationUC *usecase.ReallocationUseCase
	logger         *zap.Logger
}

func NewReallocationHandler(reallocationUC *usecase.ReallocationUseCase, logger *zap.Logger) *ReallocationHandler {
	return &ReallocationHandler{
		reallocationUC: reallocationUC,
		logger:         logger,
	}
}

// GetEligibility godoc
// @Summary Eligibility matrix
// @Description Допустимые пары (полка, RAC пассажир) с оценкой, по убыванию оценки внутри полки
// @Tags Reallocations
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=[]engine.MatrixEntry}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/eligibility [get]
func (h *ReallocationHandler) GetEligibility(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	matrix, err := h.reallocationUC.Matrix(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, matrix, &utils.Meta{TrainNo: trainNo, Total: len(matrix)})
}

// GetDiagnostics godoc
// @Summary Eligibility diagnostics
// @Description Для каждой пары (полка, RAC пассажир) - первое нарушенное правило
// @Tags Reallocations
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Success 200 {object} utils.SuccessResponse{data=[]engine.Diagnostic}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/eligibility/diagnostics [get]
func (h *ReallocationHandler) GetDiagnostics(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	diagnostics, err := h.reallocationUC.Diagnostics(c.Context(), trainNo)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, diagnostics, &utils.Meta{TrainNo: trainNo, Total: len(diagnostics)})
}

// List godoc
// @Summary List reallocation offers
// @Description Предложения переразмещения; по умолчанию только pending, status=all - все
// @Tags Reallocations
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Param status query string false "pending, approved, rejected, expired, failed или all"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.PendingReallocation}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/reallocations [get]
func (h *ReallocationHandler) List(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	status := domain.ReallocationStatus(c.Query("status", string(domain.ReallocationPending)))
	if status == "all" {
		status = ""
	}

	records, err := h.reallocationUC.List(c.Context(), trainNo, status)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, records, &utils.Meta{TrainNo: trainNo, Total: len(records)})
}

// Approve godoc
// @Summary Approve reallocation offers
// @Description Пакетное подтверждение. Каждое предложение перепроверяется по текущему состоянию, ошибки одного не влияют на остальные
// @Tags Reallocations
// @Accept json
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Param request body dto.ApproveReallocationsRequest true "Идентификаторы и TTE"
// @Success 200 {object} utils.SuccessResponse{data=engine.BatchResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/reallocations/approve [post]
func (h *ReallocationHandler) Approve(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	var req dto.ApproveReallocationsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reallocationUC.Approve(c.Context(), trainNo, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Info("Reallocations approved",
		zap.String("train_no", trainNo),
		zap.String("tte_id", req.TTEID),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("approved", result.TotalApproved),
	)

	return utils.SendSuccess(c, result, &utils.Meta{TrainNo: trainNo, Total: result.TotalProcessed})
}

// Reject godoc
// @Summary Reject reallocation offer
// @Tags Reallocations
// @Accept json
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Param id path string true "Идентификатор предложения"
// @Param request body dto.RejectReallocationRequest true "TTE и причина"
// @Success 200 {object} utils.SuccessResponse{data=domain.PendingReallocation}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/reallocations/{id}/reject [post]
func (h *ReallocationHandler) Reject(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	var req dto.RejectReallocationRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	rec, err := h.reallocationUC.Reject(c.Context(), trainNo, c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, rec, &utils.Meta{TrainNo: trainNo})
}

// History godoc
// @Summary Reallocation decision history
// @Description Журнал решений из БД, при отключённой БД - из текущей сессии
// @Tags Reallocations
// @Produce json
// @Param trainNo path string true "Номер поезда"
// @Param pnr query string false "Фильтр по PNR"
// @Param limit query int false "Максимум записей" default(100)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.PendingReallocation}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trains/{trainNo}/reallocations/history [get]
func (h *ReallocationHandler) History(c *fiber.Ctx) error {
	trainNo := c.Params("trainNo")

	pnr := c.Query("pnr")
	if pnr != "" {
		if err := pkgvalidator.ValidateVar(pnr, "pnr"); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"pnr": "must be exactly 10 digits"}))
		}
	}

	limit := c.QueryInt("limit", usecase.DefaultHistoryLimit)
	if limit < 1 || limit > 1000 {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("limit must be between 1 and 1000"))
	}

	records, err := h.reallocationUC.History(c.Context(), trainNo, pnr, limit)
	if err != nil {
		h.logger.Error("Failed to load reallocation history", zap.String("train_no", trainNo), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, records, &utils.Meta{TrainNo: trainNo, Total: len(records)})
}
