package config

import (
	_ "embed"
	"os"
)

//go:embed system_prompt.txt
var SystemPromptTemplate string

type Config struct {
	Port         string
	AIAPIKey     string
	AIBaseURL    string
	ModelName    string
	DBPath       string
	SearchAPIKey string
	Platform     PlatformConfig
}

type PlatformConfig struct {
	BaseURL string // API root, e.g. https://df.example.com/api/v2
	APIKey  string // static service key, attached to every request
}

func GetConfig() Config {
	return Config{
		Port:         getEnv("PORT", "9090"),
		AIAPIKey:     getEnv("AI_API_KEY", ""),
		AIBaseURL:    getEnv("AI_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		ModelName:    getEnv("AI_MODEL", "qwen-max"),
		DBPath:       getEnv("DB_PATH", "./data/badger"),
		SearchAPIKey: getEnv("SEARCH_API_KEY", ""),
		Platform: PlatformConfig{
			BaseURL: getEnv("PLATFORM_BASE_URL", "http://localhost:8080/api/v2"),
			APIKey:  getEnv("PLATFORM_API_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
