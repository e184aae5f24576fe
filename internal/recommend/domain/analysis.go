package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextLength 輸入文字上限（字元）
	MaxTextLength = 1000
	// QuerySuffix 搜尋字串固定結尾
	QuerySuffix = "music"
)

// EmotionLabel 分類器輸出的情緒
type EmotionLabel string

// EmotionUnknown 分類失敗時的 sentinel
const EmotionUnknown EmotionLabel = "unknown"

// EmotionLabels j-hartmann/emotion-english-distilroberta-base 的七種情緒
var EmotionLabels = []string{"anger", "disgust", "fear", "joy", "neutral", "sadness", "surprise"}

// TextAnalyzer 情緒分類
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (EmotionLabel, error)
}

// KeywordExtractor 關鍵字擷取
type KeywordExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// TextInput 使用者輸入
type TextInput string

// Validate 檢查輸入是否可處理
func (t TextInput) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return &ValidationError{Detail: "Input text is empty."}
	}
	if n := utf8.RuneCountInString(string(t)); n > MaxTextLength {
		return &ValidationError{Detail: fmt.Sprintf("Input text must be at most %d characters, got %d.", MaxTextLength, n)}
	}
	return nil
}

// BuildQuery 情緒在前，關鍵字依序，最後加上 "music"
// 分類失敗的 EmotionUnknown 不放進搜尋字串，避免以 "unknown" 當搜尋詞
func BuildQuery(emotion EmotionLabel, keywords []string) string {
	parts := make([]string, 0, len(keywords)+2)
	if e := strings.TrimSpace(string(emotion)); e != "" && EmotionLabel(e) != EmotionUnknown {
		parts = append(parts, e)
	}
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			parts = append(parts, kw)
		}
	}
	parts = append(parts, QuerySuffix)
	return strings.Join(parts, " ")
}
