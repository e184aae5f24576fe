package app

import (
	"context"
	"errors"
	"fmt"

	"emotion_music_service/internal/recommend/domain"
	errprocess "emotion_music_service/pkg/err"
	"emotion_music_service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecommendUseCase 依輸入文字的情緒推薦可嵌入的音樂影片
type RecommendUseCase interface {
	Recommend(ctx context.Context, text string) ([]domain.VideoResult, error)
}

type recommendUseCase struct {
	analyzer   domain.TextAnalyzer
	extractor  domain.KeywordExtractor
	searcher   domain.VideoSearcher
	checker    domain.EmbedChecker
	maxResults int64
}

// NewRecommendUseCase init recommend use case
func NewRecommendUseCase(
	analyzer domain.TextAnalyzer,
	extractor domain.KeywordExtractor,
	searcher domain.VideoSearcher,
	checker domain.EmbedChecker,
	maxResults int64,
) RecommendUseCase {
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}
	return &recommendUseCase{
		analyzer:   analyzer,
		extractor:  extractor,
		searcher:   searcher,
		checker:    checker,
		maxResults: maxResults,
	}
}

// Recommend 驗證 -> 情緒/關鍵字 -> 搜尋 -> 嵌入檢查，結果維持搜尋順序
func (uc *recommendUseCase) Recommend(ctx context.Context, text string) ([]domain.VideoResult, error) {
	log := logger.FromContext(ctx)

	// 1. 驗證輸入，失敗時不呼叫任何外部服務
	if err := domain.TextInput(text).Validate(); err != nil {
		log.Warn("invalid input", zap.Error(err))
		return nil, err
	}
	log.Info("recommend request", zap.String("text", text))

	// 2. 情緒與關鍵字並行
	emotion, keywords, err := uc.analyze(ctx, text)
	if err != nil {
		return nil, errprocess.Wrap("text analysis failed", errors.Join(domain.ErrProcessing, err), zap.String("text", text))
	}
	log.Info("text analyzed", zap.String("emotion", string(emotion)), zap.Strings("keywords", keywords))

	// 3. 組合搜尋字串
	query := domain.BuildQuery(emotion, keywords)
	log.Info("search query", zap.String("query", query))

	// 4. 搜尋
	candidates, err := uc.searcher.Search(ctx, query, uc.maxResults)
	if err != nil {
		var upstream *domain.UpstreamError
		if !errors.As(err, &upstream) {
			err = domain.NewUpstreamError(domain.KindOther, 0, err)
		}
		return nil, errprocess.Wrap("video search failed", err, zap.String("query", query))
	}

	// 5. 嵌入檢查
	valid := make([]domain.VideoCandidate, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !c.Valid() {
			continue
		}
		valid = append(valid, c)
		ids = append(ids, c.VideoID)
	}
	if len(valid) == 0 {
		log.Info("no search results", zap.String("query", query))
		return []domain.VideoResult{}, nil
	}
	embeddable := uc.checker.Check(ctx, ids)

	// 6. 依原搜尋順序輸出
	results := make([]domain.VideoResult, 0, len(valid))
	for _, c := range valid {
		if embeddable[c.VideoID] {
			results = append(results, c.ToResult())
		}
	}
	log.Info("recommend done", zap.Int("candidates", len(valid)), zap.Int("embeddable", len(results)))
	return results, nil
}

// analyze 兩者都完成才繼續，任一錯誤或 panic 視為處理失敗
func (uc *recommendUseCase) analyze(ctx context.Context, text string) (domain.EmotionLabel, []string, error) {
	var (
		emotion  domain.EmotionLabel
		keywords []string
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		defer recoverAsError("emotion", &err)
		emotion, err = uc.analyzer.Analyze(gctx, text)
		return err
	})
	g.Go(func() (err error) {
		defer recoverAsError("keyword", &err)
		keywords, err = uc.extractor.Extract(gctx, text)
		return err
	})

	if err := g.Wait(); err != nil {
		return "", nil, err
	}
	return emotion, keywords, nil
}

func recoverAsError(step string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s step panic: %v", step, r)
	}
}
