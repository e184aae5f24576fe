package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput 輸入錯誤，可由使用者修正 (400)
	ErrInvalidInput = errors.New("invalid input")
	// ErrProcessing 情緒分析或關鍵字擷取失敗 (500)
	ErrProcessing = errors.New("text processing failed")
	// ErrUpstream 外部搜尋 API 失敗
	ErrUpstream = errors.New("upstream request failed")
)

// ValidationError 輸入檢查失敗，Detail 直接回給使用者
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Detail
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// UpstreamKind 外部錯誤分類
type UpstreamKind string

const (
	// KindHTTP 上游回傳非 2xx
	KindHTTP UpstreamKind = "http"
	// KindParse 回應格式錯誤
	KindParse UpstreamKind = "parse"
	// KindOther 其他錯誤（連線、逾時...）
	KindOther UpstreamKind = "other"
)

// UpstreamError 搜尋 API 錯誤，Status 為上游狀態碼（未知時為 500）
type UpstreamError struct {
	Kind   UpstreamKind
	Status int
	Err    error
}

// NewUpstreamError create upstream error
func NewUpstreamError(kind UpstreamKind, status int, err error) *UpstreamError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &UpstreamError{Kind: kind, Status: status, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("youtube %s error (status %d): %v", e.Kind, e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}

// HTTPStatus 依錯誤類型決定回應狀態碼
func HTTPStatus(err error) int {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &upstream):
		return upstream.Status
	default:
		return http.StatusInternalServerError
	}
}
