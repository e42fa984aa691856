package handler

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/pkg/utils"
	pkgvalidator "github.com/rac-reallocation/internal/pkg/validator"
)

// parseBody - разбор JSON тела и валидация; ошибки приводятся к INVALID_REQUEST
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.ErrInvalidRequest.WithMessage("Invalid request body")
	}
	return validate(req)
}

func validate(req interface{}) error {
	err := pkgvalidator.Validate(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ErrInvalidRequest.WithMessage(err.Error())
	}

	fields := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	return errors.ErrInvalidRequest.WithDetails(fields)
}

// pnrParam - PNR из пути, ровно 10 цифр
func pnrParam(c *fiber.Ctx) (string, error) {
	pnr := c.Params("pnr")
	if err := pkgvalidator.ValidateVar(pnr, "pnr"); err != nil {
		return "", errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"pnr": "must be exactly 10 digits"})
	}
	return pnr, nil
}

func trainMeta(trainNo string, version uint64) *utils.Meta {
	return &utils.Meta{TrainNo: trainNo, StateVersion: version}
}
