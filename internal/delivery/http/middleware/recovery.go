package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Recovery - перехват паники обработчика. Паника пишется в журнал со стеком,
// клиент получает 500 через общий ErrorHandler.
func Recovery(logger *zap.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			fields := []zap.Field{
				zap.Any("panic", e),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Stack("stack"),
			}
			if rid, ok := c.Locals(RequestIDKey).(string); ok && rid != "" {
				fields = append(fields, zap.String("request_id", rid))
			}
			logger.Error("Panic recovered", fields...)
		},
	})
}
