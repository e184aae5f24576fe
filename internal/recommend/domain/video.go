package domain

import (
	"context"
	"fmt"
)

const (
	// DefaultMaxResults 每次搜尋的影片上限
	DefaultMaxResults = 15
	// WatchURLFormat YouTube 觀看頁
	WatchURLFormat = "https://www.youtube.com/watch?v=%s"
)

// VideoCandidate 搜尋結果中的候選影片
type VideoCandidate struct {
	VideoID      string
	Title        string
	ThumbnailURL string
}

// Valid 缺少 id 或 title 的項目不可使用
func (v VideoCandidate) Valid() bool {
	return v.VideoID != "" && v.Title != ""
}

// VideoResult 對外回傳的影片
type VideoResult struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	VideoID   string `json:"video_id"`
}

// RecommendationResponse POST /analyze-emotion response
type RecommendationResponse struct {
	YouTube []VideoResult `json:"youtube"`
}

// WatchURL 由 video id 產生觀看網址
func WatchURL(videoID string) string {
	return fmt.Sprintf(WatchURLFormat, videoID)
}

// ToResult VideoCandidate -> VideoResult
func (v VideoCandidate) ToResult() VideoResult {
	return VideoResult{
		Title:     v.Title,
		URL:       WatchURL(v.VideoID),
		Thumbnail: v.ThumbnailURL,
		VideoID:   v.VideoID,
	}
}

// VideoSearcher 影片搜尋
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]VideoCandidate, error)
}

// EmbedChecker 檢查影片是否可嵌入，回傳以 id 為 key 的結果
type EmbedChecker interface {
	Check(ctx context.Context, videoIDs []string) map[string]bool
}
