package repository

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"emotion_music_service/internal/recommend/domain"
	"emotion_music_service/pkg/config"
	"emotion_music_service/pkg/logger"

	"go.uber.org/zap"
)

// OEmbedChecker 以 oEmbed endpoint 判斷影片能否嵌入
type OEmbedChecker struct {
	endpoint string
	client   *http.Client
}

// NewOEmbedChecker create checker
func NewOEmbedChecker(cfg config.OEmbedConfig) *OEmbedChecker {
	return &OEmbedChecker{
		endpoint: cfg.URL,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

var _ domain.EmbedChecker = (*OEmbedChecker)(nil)

// Check 每個 id 一個 goroutine，非 200、錯誤、逾時一律視為不可嵌入
func (c *OEmbedChecker) Check(ctx context.Context, videoIDs []string) map[string]bool {
	result := make(map[string]bool, len(videoIDs))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, id := range videoIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			ok := c.probe(ctx, id)
			mu.Lock()
			result[id] = ok
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return result
}

func (c *OEmbedChecker) probe(ctx context.Context, videoID string) (embeddable bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("oembed probe panic", zap.String("video_id", videoID), zap.Any("panic", r))
			embeddable = false
		}
	}()

	target, err := probeURL(c.endpoint, videoID)
	if err != nil {
		logger.FromContext(ctx).Warn("oembed url invalid", zap.String("endpoint", c.endpoint), zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		logger.FromContext(ctx).Warn("oembed request build failed", zap.String("video_id", videoID), zap.Error(err))
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.FromContext(ctx).Debug("oembed probe failed", zap.String("video_id", videoID), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// probeURL 保留 endpoint 既有的 query 參數，再加上 url 與 format
func probeURL(endpoint, videoID string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("url", domain.WatchURL(videoID))
	q.Set("format", "json")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
