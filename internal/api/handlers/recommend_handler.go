package handlers

import (
	"errors"

	"emotion_music_service/internal/recommend/app"
	"emotion_music_service/internal/recommend/domain"
	"emotion_music_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgInvalidBody   = "invalid request body"
	msgProcessing    = "Error processing text input."
	msgUpstreamFetch = "Error fetching music recommendations."
)

// RecommendHandler 处理情緒推薦的 HTTP 请求
type RecommendHandler struct {
	useCase app.RecommendUseCase
}

// NewRecommendHandler 创建 RecommendHandler
func NewRecommendHandler(useCase app.RecommendUseCase) *RecommendHandler {
	return &RecommendHandler{useCase: useCase}
}

// AnalyzeRequest POST /analyze-emotion body
type AnalyzeRequest struct {
	Text string `json:"text" example:"I am feeling very happy today!"`
}

// ErrorResponse 錯誤回應
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// AnalyzeEmotion 分析文字情緒並推薦音樂
// @Summary Recommend music for the emotion of a text
// @Description Classifies the emotion, extracts keywords, searches YouTube music and keeps embeddable videos
// @Tags Recommend
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "text 1-1000 characters"
// @Success 200 {object} domain.RecommendationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analyze-emotion [post]
func (h *RecommendHandler) AnalyzeEmotion(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)

	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("invalid request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: msgInvalidBody})
	}

	videos, err := h.useCase.Recommend(ctx, req.Text)
	if err != nil {
		status := domain.HTTPStatus(err)
		log.Error("analyze emotion failed", zap.String("text", req.Text), zap.Int("status", status), zap.Error(err))
		return c.Status(status).JSON(ErrorResponse{Detail: clientMessage(err)})
	}

	return c.JSON(domain.RecommendationResponse{YouTube: videos})
}

// clientMessage 輸入錯誤回傳具體訊息，其他錯誤只回傳通用訊息
func clientMessage(err error) string {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return validation.Detail
	case errors.Is(err, domain.ErrUpstream):
		return msgUpstreamFetch
	default:
		return msgProcessing
	}
}
