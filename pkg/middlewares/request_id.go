package middlewares

import (
	"emotion_music_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HeaderRequestID request id header
	HeaderRequestID = "X-Request-ID"
	// LocalRequestID c.Locals 中的 request id 名稱
	LocalRequestID = "requestID"
)

// RequestID 沿用合法 uuid 格式的 X-Request-ID，否則產生新的 uuid，並把帶 request id 的 logger 放進 user context
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		} else {
			id = uuid.New().String()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)

		reqLog := logger.Log.With(zap.String("request_id", id))
		c.SetUserContext(logger.NewContext(c.UserContext(), reqLog))
		return c.Next()
	}
}

// GetRequestID 取得目前 request id
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalRequestID).(string)
	return id
}
