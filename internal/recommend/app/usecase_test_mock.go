package app

import (
	"context"

	"emotion_music_service/internal/recommend/domain"

	"github.com/stretchr/testify/mock"
)

// MockTextAnalyzer Mock TextAnalyzer
type MockTextAnalyzer struct {
	mock.Mock
}

// Analyze moke emotion classify
func (m *MockTextAnalyzer) Analyze(ctx context.Context, text string) (domain.EmotionLabel, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.EmotionLabel), args.Error(1)
}

// MockKeywordExtractor Mock KeywordExtractor
type MockKeywordExtractor struct {
	mock.Mock
}

// Extract moke keyword extract
func (m *MockKeywordExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockVideoSearcher Mock VideoSearcher
type MockVideoSearcher struct {
	mock.Mock
}

// Search moke video search
func (m *MockVideoSearcher) Search(ctx context.Context, query string, maxResults int64) ([]domain.VideoCandidate, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.VideoCandidate), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEmbedChecker Mock EmbedChecker
type MockEmbedChecker struct {
	mock.Mock
}

// Check moke embeddability probe
func (m *MockEmbedChecker) Check(ctx context.Context, videoIDs []string) map[string]bool {
	args := m.Called(ctx, videoIDs)
	return args.Get(0).(map[string]bool)
}
