package inference

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"emotion_music_service/internal/recommend/domain"
	"emotion_music_service/pkg/config"
	errprocess "emotion_music_service/pkg/err"
	"emotion_music_service/pkg/logger"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Embedder 將多段文字轉為向量，回傳順序與輸入一致
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEmbedder 使用 OpenAI 相容的 embeddings API
type OpenAIEmbedder struct {
	apiKey  string
	baseURL string
	model   string

	once   sync.Once
	client *openai.Client
}

// NewOpenAIEmbedder create embedder
func NewOpenAIEmbedder(cfg config.KeywordConfig) *OpenAIEmbedder {
	return &OpenAIEmbedder{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, model: cfg.Model}
}

func (e *OpenAIEmbedder) getClient() *openai.Client {
	e.once.Do(func() {
		c := openai.DefaultConfig(e.apiKey)
		if e.baseURL != "" {
			c.BaseURL = e.baseURL
		}
		e.client = openai.NewClientWithConfig(c)
	})
	return e.client
}

// Embed 一次請求送出所有文字
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.getClient().CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, errprocess.Set(fmt.Sprintf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts)))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := make([][]float32, len(data))
	for i, d := range data {
		out[i] = d.Embedding
	}
	return out, nil
}

// EmbeddingKeywordExtractor 以 embedding 相似度 + MMR 選出關鍵詞
type EmbeddingKeywordExtractor struct {
	embedder  Embedder
	topN      int
	diversity float64
	maxChars  int
	timeout   time.Duration
}

// NewKeywordExtractor create keyword extractor
func NewKeywordExtractor(embedder Embedder, cfg config.KeywordConfig) *EmbeddingKeywordExtractor {
	return &EmbeddingKeywordExtractor{
		embedder:  embedder,
		topN:      cfg.TopN,
		diversity: cfg.Diversity,
		maxChars:  cfg.MaxChars,
		timeout:   cfg.Timeout,
	}
}

var _ domain.KeywordExtractor = (*EmbeddingKeywordExtractor)(nil)

// Extract 回傳最多 topN 個關鍵詞，依與全文相似度遞減；
// 模型失敗時回傳空 slice，只有呼叫端取消時才回傳錯誤
func (k *EmbeddingKeywordExtractor) Extract(ctx context.Context, text string) (keywords []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("keyword extraction panic", zap.Any("panic", r))
			keywords, err = []string{}, nil
		}
	}()

	doc := TruncateAtWord(text, k.maxChars)
	candidates := Candidates(doc)
	if len(candidates) == 0 {
		return []string{}, nil
	}

	callCtx := ctx
	if k.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	vectors, err := k.embedder.Embed(callCtx, append([]string{doc}, candidates...))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.FromContext(ctx).Warn("keyword extraction degraded", zap.Error(err))
		return []string{}, nil
	}
	if len(vectors) != len(candidates)+1 {
		logger.FromContext(ctx).Warn("keyword extraction degraded", zap.Int("vectors", len(vectors)), zap.Int("candidates", len(candidates)))
		return []string{}, nil
	}

	picked := MMR(vectors[0], vectors[1:], k.topN, k.diversity)
	keywords = make([]string, 0, len(picked))
	for _, idx := range picked {
		keywords = append(keywords, candidates[idx])
	}
	logger.FromContext(ctx).Debug("keywords extracted", zap.Strings("keywords", keywords))
	return keywords, nil
}

// MMR Maximal Marginal Relevance，回傳候選索引，依與 doc 相似度遞減排序
func MMR(doc []float32, candidates [][]float32, topN int, diversity float64) []int {
	if topN <= 0 || len(candidates) == 0 {
		return []int{}
	}

	docSim := make([]float64, len(candidates))
	for i, c := range candidates {
		docSim[i] = Cosine(doc, c)
	}

	best := 0
	for i := range docSim {
		if docSim[i] > docSim[best] {
			best = i
		}
	}
	picked := []int{best}
	remaining := make([]int, 0, len(candidates)-1)
	for i := range candidates {
		if i != best {
			remaining = append(remaining, i)
		}
	}

	rounds := min(topN-1, len(candidates)-1)
	for r := 0; r < rounds; r++ {
		bestPos, bestScore := -1, math.Inf(-1)
		for pos, i := range remaining {
			redundancy := math.Inf(-1)
			for _, p := range picked {
				redundancy = math.Max(redundancy, Cosine(candidates[i], candidates[p]))
			}
			score := (1-diversity)*docSim[i] - diversity*redundancy
			if score > bestScore {
				bestPos, bestScore = pos, score
			}
		}
		if bestPos < 0 {
			break
		}
		picked = append(picked, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	sort.SliceStable(picked, func(a, b int) bool { return docSim[picked[a]] > docSim[picked[b]] })
	return picked
}

// Cosine 兩向量的 cosine similarity，任一為零向量時回傳 0
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
