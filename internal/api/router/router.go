package router

import (
	"emotion_music_service/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes 注册路由
// @title Emotion Music Service API
// @version 1.0
// @description Recommends embeddable YouTube music videos for the emotion of a text
// @host localhost:8080
// @BasePath /
func RegisterRoutes(app *fiber.App, recommendHandler *handlers.RecommendHandler) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	app.Post("/analyze-emotion", recommendHandler.AnalyzeEmotion)
}
