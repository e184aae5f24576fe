package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"emotion_music_service/internal/recommend/domain"
	"emotion_music_service/pkg/config"
	"emotion_music_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetNewNop()
}

// fakeEmbedder 依詞表給向量，未知詞為零向量
type fakeEmbedder struct {
	vectors map[string][]float32
	doc     []float32
	err     error
	calls   int
	inputs  []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.inputs = texts
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	out[0] = f.doc
	for i, t := range texts[1:] {
		if v, ok := f.vectors[t]; ok {
			out[i+1] = v
		} else {
			out[i+1] = []float32{0, 0, 0}
		}
	}
	return out, nil
}

type fakeGenerator struct {
	answer string
	err    error
	panic  bool
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, labels []string) (string, error) {
	f.prompt = prompt
	if f.panic {
		panic("boom")
	}
	return f.answer, f.err
}

func keywordCfg() config.KeywordConfig {
	return config.KeywordConfig{TopN: 3, Diversity: 0.7, MaxChars: 500}
}

func TestTruncateAtWord(t *testing.T) {
	t.Run("未超過上限不變", func(t *testing.T) {
		assert.Equal(t, "hello world", TruncateAtWord("hello world", 500))
	})

	t.Run("在空白處截斷", func(t *testing.T) {
		text := strings.Repeat("abcd ", 200) // 1000 runes
		got := TruncateAtWord(text, 502)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 502)
		assert.True(t, strings.HasPrefix(text, got))
		assert.True(t, strings.HasSuffix(got, "abcd"))
	})

	t.Run("第 maxChars 個字元為空白時保留完整前綴", func(t *testing.T) {
		text := strings.Repeat("a", 10) + " tail"
		assert.Equal(t, strings.Repeat("a", 10), TruncateAtWord(text, 10))
	})

	t.Run("沒有空白的長字串保留前綴", func(t *testing.T) {
		text := strings.Repeat("x", 600)
		assert.Equal(t, strings.Repeat("x", 500), TruncateAtWord(text, 500))
	})

	t.Run("多位元組字元以 rune 計算", func(t *testing.T) {
		text := strings.Repeat("é", 300) + " " + strings.Repeat("ü", 300)
		got := TruncateAtWord(text, 500)
		assert.Equal(t, strings.Repeat("é", 300), got)
	})
}

func TestCandidates(t *testing.T) {
	t.Run("移除停用詞並產生 bigram", func(t *testing.T) {
		got := Candidates("I am so happy today")
		assert.Equal(t, []string{"happy", "today", "happy today"}, got)
	})

	t.Run("去重保留第一次出現順序", func(t *testing.T) {
		got := Candidates("rain rain city")
		assert.Equal(t, []string{"rain", "city", "rain rain", "rain city"}, got)
	})

	t.Run("單字元與標點不是 token", func(t *testing.T) {
		assert.Empty(t, Candidates("a ! ? , x"))
	})
}

func TestMMR(t *testing.T) {
	doc := []float32{1, 0, 0}
	cands := [][]float32{
		{0.9, 0.1, 0},   // 0 與 doc 最接近
		{0.89, 0.11, 0}, // 1 幾乎與 0 相同
		{0.5, 0, 0.5},   // 2 較不同
	}

	t.Run("第一個選最相似，多樣性避開重複", func(t *testing.T) {
		got := MMR(doc, cands, 2, 0.7)
		assert.Equal(t, []int{0, 2}, got)
	})

	t.Run("結果依 doc 相似度遞減", func(t *testing.T) {
		got := MMR(doc, cands, 3, 0.7)
		require.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, Cosine(doc, cands[got[i-1]]), Cosine(doc, cands[got[i]]))
		}
	})

	t.Run("候選不足 topN", func(t *testing.T) {
		assert.Len(t, MMR(doc, cands[:1], 3, 0.7), 1)
		assert.Empty(t, MMR(doc, nil, 3, 0.7))
	})
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestKeywordExtractor(t *testing.T) {
	t.Run("回傳最多三個關鍵詞", func(t *testing.T) {
		emb := &fakeEmbedder{
			doc: []float32{1, 1, 0},
			vectors: map[string][]float32{
				"happy":       {1, 0.8, 0},
				"today":       {0, 1, 0},
				"happy today": {1, 1, 0.1},
			},
		}
		k := NewKeywordExtractor(emb, keywordCfg())
		got, err := k.Extract(context.Background(), "I am so happy today")
		assert.NoError(t, err)
		assert.Equal(t, "happy today", got[0])
		assert.LessOrEqual(t, len(got), 3)
		assert.Equal(t, 1, emb.calls)
		assert.Equal(t, "I am so happy today", emb.inputs[0])
	})

	t.Run("沒有候選詞時不呼叫 embeddings", func(t *testing.T) {
		emb := &fakeEmbedder{}
		k := NewKeywordExtractor(emb, keywordCfg())
		got, err := k.Extract(context.Background(), "I am so")
		assert.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		assert.Equal(t, 0, emb.calls)
	})

	t.Run("embeddings 失敗時回傳空 slice", func(t *testing.T) {
		emb := &fakeEmbedder{err: errors.New("503")}
		k := NewKeywordExtractor(emb, keywordCfg())
		got, err := k.Extract(context.Background(), "thunder storms tonight")
		assert.NoError(t, err)
		assert.Equal(t, []string{}, got)
	})

	t.Run("呼叫端取消時回傳錯誤", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		emb := &fakeEmbedder{err: context.Canceled}
		k := NewKeywordExtractor(emb, keywordCfg())
		_, err := k.Extract(ctx, "thunder storms tonight")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("長文字截斷後才送出", func(t *testing.T) {
		emb := &fakeEmbedder{doc: []float32{1, 0, 0}}
		k := NewKeywordExtractor(emb, keywordCfg())
		_, err := k.Extract(context.Background(), strings.Repeat("melody ", 150))
		assert.NoError(t, err)
		assert.LessOrEqual(t, utf8.RuneCountInString(emb.inputs[0]), 500)
	})
}

func TestEmotionClassifier(t *testing.T) {
	cfg := config.EmotionConfig{}

	t.Run("回傳詞彙內的標籤", func(t *testing.T) {
		gen := &fakeGenerator{answer: " Joy.\n"}
		c := NewEmotionClassifier(gen, cfg)
		label, err := c.Analyze(context.Background(), "I am so happy today")
		assert.NoError(t, err)
		assert.Equal(t, domain.EmotionLabel("joy"), label)
		assert.Contains(t, gen.prompt, "I am so happy today")
	})

	t.Run("詞彙外的答案降級為 unknown", func(t *testing.T) {
		c := NewEmotionClassifier(&fakeGenerator{answer: "ecstatic"}, cfg)
		label, err := c.Analyze(context.Background(), "wow")
		assert.NoError(t, err)
		assert.Equal(t, domain.EmotionUnknown, label)
	})

	t.Run("模型錯誤降級為 unknown", func(t *testing.T) {
		c := NewEmotionClassifier(&fakeGenerator{err: errors.New("quota")}, cfg)
		label, err := c.Analyze(context.Background(), "wow")
		assert.NoError(t, err)
		assert.Equal(t, domain.EmotionUnknown, label)
	})

	t.Run("panic 降級為 unknown", func(t *testing.T) {
		c := NewEmotionClassifier(&fakeGenerator{panic: true}, cfg)
		label, err := c.Analyze(context.Background(), "wow")
		assert.NoError(t, err)
		assert.Equal(t, domain.EmotionUnknown, label)
	})

	t.Run("呼叫端取消時回傳錯誤", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := NewEmotionClassifier(&fakeGenerator{err: context.Canceled}, cfg)
		_, err := c.Analyze(ctx, "wow")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// geminiServer 假 generateContent endpoint，記錄最後一次的 request body
func geminiServer(t *testing.T, status int, answer string, bodies chan<- map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bodies != nil {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			select {
			case bodies <- body:
			default:
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": answer}}},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiGenerator(t *testing.T) {
	t.Run("request 限制輸出為情緒標籤且溫度為 0", func(t *testing.T) {
		bodies := make(chan map[string]any, 1)
		srv := geminiServer(t, http.StatusOK, "joy", bodies)
		cfg := config.EmotionConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "gemini-test"}

		c := NewEmotionClassifier(NewGeminiGenerator(cfg), cfg)
		label, err := c.Analyze(context.Background(), "I am so happy today")
		require.NoError(t, err)
		assert.Equal(t, domain.EmotionLabel("joy"), label)

		body := <-bodies
		gc, ok := body["generationConfig"].(map[string]any)
		require.True(t, ok, "generationConfig missing: %v", body)
		assert.Equal(t, "text/x.enum", gc["responseMimeType"])
		assert.Equal(t, float64(0), gc["temperature"])

		schema, ok := gc["responseSchema"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "STRING", schema["type"])
		enum := make([]any, 0, len(domain.EmotionLabels))
		for _, l := range domain.EmotionLabels {
			enum = append(enum, l)
		}
		assert.Equal(t, enum, schema["enum"])
	})

	t.Run("Gemini 500 降級為 unknown", func(t *testing.T) {
		srv := geminiServer(t, http.StatusInternalServerError, "", nil)
		cfg := config.EmotionConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "gemini-test"}

		c := NewEmotionClassifier(NewGeminiGenerator(cfg), cfg)
		label, err := c.Analyze(context.Background(), "wow")
		assert.NoError(t, err)
		assert.Equal(t, domain.EmotionUnknown, label)
	})

	t.Run("client 建立失敗降級為 unknown", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")
		cfg := config.EmotionConfig{Model: "gemini-test"}

		c := NewEmotionClassifier(NewGeminiGenerator(cfg), cfg)
		label, err := c.Analyze(context.Background(), "wow")
		assert.NoError(t, err)
		assert.Equal(t, domain.EmotionUnknown, label)
	})
}

// embeddingsServer 假 /embeddings endpoint，依 vectors 回傳，index 由呼叫端指定
func embeddingsServer(t *testing.T, calls *atomic.Int32, respond func(inputs []string) []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   respond(req.Input),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIEmbedder(t *testing.T) {
	t.Run("依 index 重新排序向量", func(t *testing.T) {
		var calls atomic.Int32
		srv := embeddingsServer(t, &calls, func([]string) []map[string]any {
			return []map[string]any{
				{"object": "embedding", "index": 1, "embedding": []float32{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float32{1, 0}},
			}
		})
		e := NewOpenAIEmbedder(config.KeywordConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "embed-test"})

		got, err := e.Embed(context.Background(), []string{"doc", "candidate"})
		require.NoError(t, err)
		assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, got)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("全文與候選詞一次送出", func(t *testing.T) {
		var calls atomic.Int32
		sent := make(chan []string, 1)
		srv := embeddingsServer(t, &calls, func(inputs []string) []map[string]any {
			sent <- inputs
			data := make([]map[string]any, len(inputs))
			for i, in := range inputs {
				v := []float32{1, 0}
				if in == "happy" || in == "happy today" {
					v = []float32{1, 0.1}
				}
				data[i] = map[string]any{"object": "embedding", "index": i, "embedding": v}
			}
			return data
		})
		cfg := keywordCfg()
		cfg.APIKey, cfg.BaseURL, cfg.Model = "test-key", srv.URL+"/v1", "embed-test"

		k := NewKeywordExtractor(NewOpenAIEmbedder(cfg), cfg)
		got, err := k.Extract(context.Background(), "I am so happy today")
		require.NoError(t, err)
		assert.NotEmpty(t, got)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, []string{"I am so happy today", "happy", "today", "happy today"}, <-sent)
	})

	t.Run("向量數量不符時 Extract 回傳空 slice", func(t *testing.T) {
		var calls atomic.Int32
		srv := embeddingsServer(t, &calls, func([]string) []map[string]any {
			return []map[string]any{{"object": "embedding", "index": 0, "embedding": []float32{1, 0}}}
		})
		cfg := keywordCfg()
		cfg.APIKey, cfg.BaseURL, cfg.Model = "test-key", srv.URL+"/v1", "embed-test"

		k := NewKeywordExtractor(NewOpenAIEmbedder(cfg), cfg)
		got, err := k.Extract(context.Background(), "thunder storms tonight")
		assert.NoError(t, err)
		assert.Equal(t, []string{}, got)
		assert.Equal(t, int32(1), calls.Load())
	})
}
