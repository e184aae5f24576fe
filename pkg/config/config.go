package config

import (
	"errors"
	"time"
)

// Recommend definition recommend_service YAML structure
type Recommend struct {
	Port    string        `mapstructure:"port"`
	YouTube YouTubeConfig `mapstructure:"youtube"`
	OEmbed  OEmbedConfig  `mapstructure:"oembed"`
	Emotion EmotionConfig `mapstructure:"emotion"`
	Keyword KeywordConfig `mapstructure:"keyword"`
}

// YouTubeConfig definition YouTube Data API setting
type YouTubeConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Endpoint   string        `mapstructure:"endpoint"`
	MaxResults int64         `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// OEmbedConfig definition embeddability probe setting
type OEmbedConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmotionConfig definition emotion classifier (Gemini) setting
type EmotionConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// KeywordConfig definition keyword extractor (embeddings) setting
type KeywordConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	TopN      int           `mapstructure:"top_n"`
	Diversity float64       `mapstructure:"diversity"`
	MaxChars  int           `mapstructure:"max_chars"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

const (
	defaultPort             = "8080"
	defaultYouTubeEndpoint  = "https://youtube.googleapis.com/"
	defaultMaxResults       = 15
	defaultOEmbedURL        = "https://www.youtube.com/oembed"
	defaultEmotionModel     = "gemini-2.5-flash"
	defaultKeywordModel     = "text-embedding-3-small"
	defaultKeywordTopN      = 3
	defaultKeywordDiversity = 0.7
	defaultKeywordMaxChars  = 500
	defaultUpstreamTimeout  = 10 * time.Second
	defaultProbeTimeout     = 5 * time.Second
)

// ErrMissingAPIKey YouTube API key 未設定
var ErrMissingAPIKey = errors.New("YOUTUBE_API_KEY environment variable is not set")

// ApplyDefaults 補上未設定的欄位
func (c *Recommend) ApplyDefaults() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.YouTube.Endpoint == "" {
		c.YouTube.Endpoint = defaultYouTubeEndpoint
	}
	if c.YouTube.MaxResults <= 0 {
		c.YouTube.MaxResults = defaultMaxResults
	}
	if c.YouTube.Timeout <= 0 {
		c.YouTube.Timeout = defaultUpstreamTimeout
	}
	if c.OEmbed.URL == "" {
		c.OEmbed.URL = defaultOEmbedURL
	}
	if c.OEmbed.Timeout <= 0 {
		c.OEmbed.Timeout = defaultProbeTimeout
	}
	if c.Emotion.Model == "" {
		c.Emotion.Model = defaultEmotionModel
	}
	if c.Emotion.Timeout <= 0 {
		c.Emotion.Timeout = defaultUpstreamTimeout
	}
	if c.Keyword.Model == "" {
		c.Keyword.Model = defaultKeywordModel
	}
	if c.Keyword.TopN <= 0 {
		c.Keyword.TopN = defaultKeywordTopN
	}
	if c.Keyword.Diversity <= 0 {
		c.Keyword.Diversity = defaultKeywordDiversity
	}
	if c.Keyword.MaxChars <= 0 {
		c.Keyword.MaxChars = defaultKeywordMaxChars
	}
	if c.Keyword.Timeout <= 0 {
		c.Keyword.Timeout = defaultUpstreamTimeout
	}
}

// Validate 啟動時檢查必要設定
func (c *Recommend) Validate() error {
	if c.YouTube.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
