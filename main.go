package main

import (
	"emotion_music_service/internal/api/router"

	"github.com/gofiber/fiber/v2"
)

// swag init 的進入點，實際服務在 cmd/recommend_service
// swag init -g main.go -o ./cmd/recommend_service/docs
func main() {
	app := fiber.New()
	router.RegisterRoutes(app, nil)
}
