package testtool

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// FakeVideo 假 search.list 的一筆結果
type FakeVideo struct {
	ID        string
	Title     string
	Thumbnail string
}

// FakeUpstream 同時模擬 YouTube search.list 與 oEmbed 的測試 server
type FakeUpstream struct {
	Server *httptest.Server

	mu           sync.Mutex
	videos       []FakeVideo
	searchStatus int
	searchBody   string
	blocked      map[string]int
	slow         map[string]time.Duration
	queries      []url.Values

	searchCalls atomic.Int32
	probeCalls  atomic.Int32
}

// NewFakeUpstream 啟動假 server，測試結束時呼叫 Close
func NewFakeUpstream() *FakeUpstream {
	f := &FakeUpstream{
		blocked: map[string]int{},
		slow:    map[string]time.Duration{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/search", f.handleSearch)
	mux.HandleFunc("/oembed", f.handleOEmbed)
	f.Server = httptest.NewServer(mux)
	return f
}

// Close 關閉 server
func (f *FakeUpstream) Close() {
	f.Server.Close()
}

// YouTubeEndpoint 給 youtube.NewService 的 endpoint
func (f *FakeUpstream) YouTubeEndpoint() string {
	return f.Server.URL + "/"
}

// OEmbedURL oEmbed endpoint
func (f *FakeUpstream) OEmbedURL() string {
	return f.Server.URL + "/oembed"
}

// SetVideos 設定搜尋結果
func (f *FakeUpstream) SetVideos(videos ...FakeVideo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = videos
}

// FailSearch 搜尋回傳指定狀態碼
func (f *FakeUpstream) FailSearch(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchStatus = status
}

// SetSearchBody 搜尋直接回傳原始 body（測試格式錯誤）
func (f *FakeUpstream) SetSearchBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchBody = body
}

// Block oEmbed 對此影片回傳指定狀態碼
func (f *FakeUpstream) Block(videoID string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocked[videoID] = status
}

// Delay oEmbed 對此影片延遲回應
func (f *FakeUpstream) Delay(videoID string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slow[videoID] = d
}

// LastQuery 最後一次搜尋的 query string
func (f *FakeUpstream) LastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

// SearchCalls 搜尋次數
func (f *FakeUpstream) SearchCalls() int {
	return int(f.searchCalls.Load())
}

// ProbeCalls oEmbed 探測次數
func (f *FakeUpstream) ProbeCalls() int {
	return int(f.probeCalls.Load())
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID      map[string]string `json:"id"`
	Snippet map[string]any    `json:"snippet"`
}

func (f *FakeUpstream) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.searchCalls.Add(1)
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.Query())
	status, body, videos := f.searchStatus, f.searchBody, f.videos
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"code":` + strconv.Itoa(status) + `,"message":"fake failure"}}`))
		return
	}
	if body != "" {
		_, _ = w.Write([]byte(body))
		return
	}

	resp := searchResponse{Items: make([]searchItem, 0, len(videos))}
	for _, v := range videos {
		item := searchItem{ID: map[string]string{"kind": "youtube#video"}, Snippet: map[string]any{}}
		if v.ID != "" {
			item.ID["videoId"] = v.ID
		}
		if v.Title != "" {
			item.Snippet["title"] = v.Title
		}
		if v.Thumbnail != "" {
			item.Snippet["thumbnails"] = map[string]any{"default": map[string]string{"url": v.Thumbnail}}
		}
		resp.Items = append(resp.Items, item)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *FakeUpstream) handleOEmbed(w http.ResponseWriter, r *http.Request) {
	f.probeCalls.Add(1)
	target := r.URL.Query().Get("url")
	id := target[strings.LastIndex(target, "=")+1:]

	f.mu.Lock()
	status, isBlocked := f.blocked[id]
	delay := f.slow[id]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if isBlocked {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"type":"video","provider_name":"YouTube"}`))
}
