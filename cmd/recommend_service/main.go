package main

import (
	"context"
	"fmt"
	"log"
	"os"

	_ "emotion_music_service/cmd/recommend_service/docs" // 引入 Swagger 文档
	"emotion_music_service/internal/api/handlers"
	"emotion_music_service/internal/api/router"
	"emotion_music_service/internal/recommend/app"
	"emotion_music_service/internal/recommend/inference"
	"emotion_music_service/internal/recommend/repository"
	"emotion_music_service/pkg/config"
	"emotion_music_service/pkg/logger"
	"emotion_music_service/pkg/middlewares"
	testtool "emotion_music_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.RecommendService, config.EnvConfig.RecommendServiceLogPath)
	defer logger.Log.Sync()

	cfg, err := config.LoadRecommend(config.EnvConfig.RecommendService, config.EnvConfig.RecommendServiceYAMLPath)
	if err != nil {
		logger.Log.Fatal("Failed to load config", zap.Error(err))
	}

	// 外部服務
	searcher, err := repository.NewYouTubeSearcher(context.Background(), cfg.YouTube)
	if err != nil {
		logger.Log.Fatal("Failed to create YouTube client", zap.Error(err))
	}
	checker := repository.NewOEmbedChecker(cfg.OEmbed)
	analyzer := inference.NewEmotionClassifier(inference.NewGeminiGenerator(cfg.Emotion), cfg.Emotion)
	extractor := inference.NewKeywordExtractor(inference.NewOpenAIEmbedder(cfg.Keyword), cfg.Keyword)

	recommendUseCase := app.NewRecommendUseCase(analyzer, extractor, searcher, checker, cfg.YouTube.MaxResults)
	recommendHandler := handlers.NewRecommendHandler(recommendUseCase)

	testtool.StartPprof()

	// 创建 Fiber 应用
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.RecommendServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
		Format: "${time} ${locals:requestID} ${status} - ${latency} ${method} ${path}\n",
	}))
	r.Use(middlewares.RequestID())

	router.RegisterRoutes(r, recommendHandler)

	logger.Log.Info("recommend service start", zap.String("port", cfg.Port))
	if err := r.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
