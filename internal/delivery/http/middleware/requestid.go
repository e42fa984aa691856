package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestIDKey - ключ request id в c.Locals
const RequestIDKey = "requestid"

// RequestID - проставляет X-Request-ID, если клиент его не передал
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: RequestIDKey,
		Generator:  uuid.NewString,
	})
}
