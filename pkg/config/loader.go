package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo 服務設定 from .env
type EnvInfo struct {
	// image name
	RecommendService string

	// service port
	RecommendServicePort string

	// service yaml path
	RecommendServiceYAMLPath string

	// service log path
	RecommendServiceLogPath string
}

// EnvConfig 服務設定
var (
	EnvConfig = initEnv()
	envConfig EnvInfo
	once      sync.Once
	env       string
)

func initEnv() EnvInfo {
	once.Do(func() {
		path, err := GetPath(".env", 5)
		if err != nil {
			log.Printf("Warning: Could not get .env path: %v", err)
		} else if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}

		env = os.Getenv("ENV")

		envConfig = EnvInfo{
			RecommendService:         getEnv("RECOMMEND_SERVICE", "recommend_service"),
			RecommendServicePort:     os.Getenv("RECOMMEND_SERVICE_PORT"),
			RecommendServiceYAMLPath: getEnv("RECOMMEND_SERVICE_YAML", "./config"),
			RecommendServiceLogPath:  getEnv("RECOMMEND_SERVICE_LOG", "./logs"),
		}
	})

	return envConfig
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

// IsProduction check run env
func IsProduction() bool {
	return env == "production"
}

// IsLocal check run env
func IsLocal() bool {
	return env == "local"
}

// LoadConfig 加載配置，YAML 中的 ${} 占位符會替換為環境變數
func LoadConfig[T any](serviceName string, configPath string) (T, error) {
	var cfg T

	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// 自動讀取環境變數 youtube.api_key -> YOUTUBE_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("error loading config file: %w", err)
		}
		log.Printf("Warning: config file %s not found in %s, using environment only", serviceName, configPath)
	} else {
		rawConfig, err := os.ReadFile(v.ConfigFileUsed())
		if err != nil {
			return cfg, fmt.Errorf("error reading raw config file: %w", err)
		}

		expandedConfig := os.ExpandEnv(string(rawConfig))
		if err := v.ReadConfig(bytes.NewBufferString(expandedConfig)); err != nil {
			return cfg, fmt.Errorf("error reading expanded config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadRecommend 讀取 recommend_service 設定，補預設值並檢查必要欄位
func LoadRecommend(serviceName string, configPath string) (*Recommend, error) {
	cfg, err := LoadConfig[Recommend](serviceName, configPath)
	if err != nil {
		return nil, err
	}

	if cfg.Port == "" {
		cfg.Port = EnvConfig.RecommendServicePort
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.Emotion.APIKey == "" {
		cfg.Emotion.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Keyword.APIKey == "" {
		cfg.Keyword.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// GetPath use fileName loop maxCount find file path
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + " can't find path")
}
