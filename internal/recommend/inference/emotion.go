package inference

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"emotion_music_service/internal/recommend/domain"
	"emotion_music_service/pkg"
	"emotion_music_service/pkg/config"
	"emotion_music_service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// LabelGenerator 給定 prompt 與可選標籤，回傳模型輸出的文字
type LabelGenerator interface {
	Generate(ctx context.Context, prompt string, labels []string) (string, error)
}

// GeminiGenerator 以 Gemini 做受限輸出的分類
type GeminiGenerator struct {
	apiKey  string
	baseURL string
	model   string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiGenerator create gemini label generator
func NewGeminiGenerator(cfg config.EmotionConfig) *GeminiGenerator {
	return &GeminiGenerator{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, model: cfg.Model}
}

func (g *GeminiGenerator) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
		}
		g.client, g.initErr = genai.NewClient(context.WithoutCancel(ctx), cc)
	})
	return g.client, g.initErr
}

// Generate 溫度 0，輸出限制在 labels 之內
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, labels []string) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "text/x.enum",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeString,
			Enum: labels,
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// EmotionClassifier 將文字分類為固定的情緒標籤
type EmotionClassifier struct {
	generator LabelGenerator
	timeout   time.Duration
}

// NewEmotionClassifier create emotion classifier
func NewEmotionClassifier(generator LabelGenerator, cfg config.EmotionConfig) *EmotionClassifier {
	return &EmotionClassifier{generator: generator, timeout: cfg.Timeout}
}

var _ domain.TextAnalyzer = (*EmotionClassifier)(nil)

const emotionPrompt = `Classify the dominant emotion expressed in the following text.
Answer with exactly one of: %s.

Text:
%s`

// Analyze 回傳情緒標籤；模型錯誤或答案不在詞彙內時回傳 EmotionUnknown
func (c *EmotionClassifier) Analyze(ctx context.Context, text string) (label domain.EmotionLabel, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("emotion classification panic", zap.Any("panic", r))
			label, err = domain.EmotionUnknown, nil
		}
	}()

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(emotionPrompt, strings.Join(domain.EmotionLabels, ", "), text)
	answer, err := c.generator.Generate(callCtx, prompt, domain.EmotionLabels)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.FromContext(ctx).Warn("emotion classification degraded", zap.Error(err))
		return domain.EmotionUnknown, nil
	}

	answer = pkg.NormalizeLabel(answer)
	if !pkg.Contains(domain.EmotionLabels, answer) {
		logger.FromContext(ctx).Warn("emotion classification out of vocabulary", zap.String("answer", answer))
		return domain.EmotionUnknown, nil
	}
	logger.FromContext(ctx).Debug("emotion classified", zap.String("emotion", answer))
	return domain.EmotionLabel(answer), nil
}
