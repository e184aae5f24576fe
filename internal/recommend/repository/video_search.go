package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"emotion_music_service/internal/recommend/domain"
	"emotion_music_service/pkg/config"
	"emotion_music_service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// musicCategoryID YouTube 的 Music 分類
const musicCategoryID = "10"

// YouTubeSearcher YouTube Data API v3 search.list
type YouTubeSearcher struct {
	service *youtube.Service
}

// NewYouTubeSearcher create searcher，endpoint 可指向測試用的 server
func NewYouTubeSearcher(ctx context.Context, cfg config.YouTubeConfig) (*YouTubeSearcher, error) {
	// WithHTTPClient 會忽略 WithAPIKey，key 由 transport 帶入
	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{
			Timeout:   cfg.Timeout,
			Transport: &apiKeyTransport{key: cfg.APIKey, base: http.DefaultTransport},
		}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &YouTubeSearcher{service: service}, nil
}

// apiKeyTransport 在每個請求加上 key 參數
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("key", t.key)
	r.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(r)
}

var _ domain.VideoSearcher = (*YouTubeSearcher)(nil)

// Search 搜尋音樂影片，略過缺少 id 或標題的項目，重複 id 保留第一個
func (s *YouTubeSearcher) Search(ctx context.Context, query string, maxResults int64) ([]domain.VideoCandidate, error) {
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}

	resp, err := s.service.Search.
		List([]string{"snippet"}).
		Q(query).
		MaxResults(maxResults).
		Type("video").
		VideoCategoryId(musicCategoryID).
		Context(ctx).
		Do()
	if err != nil {
		upstreamErr := classifySearchError(err)
		logger.FromContext(ctx).Error("youtube search failed",
			zap.String("query", query),
			zap.String("kind", string(upstreamErr.Kind)),
			zap.Int("status", upstreamErr.Status),
			zap.Error(err))
		return nil, upstreamErr
	}

	seen := make(map[string]struct{}, len(resp.Items))
	videos := make([]domain.VideoCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Snippet == nil {
			continue
		}
		v := domain.VideoCandidate{
			VideoID: item.Id.VideoId,
			Title:   item.Snippet.Title,
		}
		if th := item.Snippet.Thumbnails; th != nil && th.Default != nil {
			v.ThumbnailURL = th.Default.Url
		}
		if !v.Valid() {
			continue
		}
		if _, dup := seen[v.VideoID]; dup {
			continue
		}
		seen[v.VideoID] = struct{}{}
		videos = append(videos, v)
	}

	logger.FromContext(ctx).Debug("youtube search done", zap.String("query", query), zap.Int("items", len(videos)))
	return videos, nil
}

func classifySearchError(err error) *domain.UpstreamError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return domain.NewUpstreamError(domain.KindHTTP, apiErr.Code, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.NewUpstreamError(domain.KindParse, http.StatusInternalServerError, err)
	}
	return domain.NewUpstreamError(domain.KindOther, http.StatusInternalServerError, err)
}
