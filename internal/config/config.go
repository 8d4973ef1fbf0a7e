package config

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Storage ObjectStorageConfig
	AI      AIConfig
	RAG     RAGConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Host string
	Port string
	DB   int
}

type ObjectStorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UseSSL       bool
	UploadExpiry int // 预签名上传URL有效期（秒）
}

type AIConfig struct {
	OpenAIAPIKey string
	BaseURL      string
}

// RAGConfig 检索增强问答核心配置
// 显式注入到各流水线，核心代码不直接读取环境变量
type RAGConfig struct {
	ChunkSize           int
	EmbeddingDimensions int
	TopK                int
	GenerationTimeout   int // 秒
	GenerationModel     string
	EmbeddingProvider   string // hash | openai
	EmbeddingModel      string
}

var AppConfig *Config

func LoadConfig() error {
	// 设置默认值
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("storage.endpoint", "")
	viper.SetDefault("storage.bucket", "pai-pdf-storage")
	viper.SetDefault("storage.use_ssl", false)
	viper.SetDefault("storage.upload_expiry", 300) // 5分钟
	viper.SetDefault("ai.base_url", "")

	// RAG配置默认值
	viper.SetDefault("rag.chunk_size", 500)
	viper.SetDefault("rag.embedding_dimensions", 768)
	viper.SetDefault("rag.top_k", 3)
	viper.SetDefault("rag.generation_timeout", 30)
	viper.SetDefault("rag.generation_model", "gpt-4o-mini")
	viper.SetDefault("rag.embedding_provider", "hash")
	viper.SetDefault("rag.embedding_model", "")

	// 读取环境变量
	viper.SetEnvPrefix("PAI")
	viper.AutomaticEnv()

	// 从环境变量读取
	if port := os.Getenv("PORT"); port != "" {
		viper.Set("server.port", port)
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		viper.Set("redis.host", redisHost)
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		viper.Set("redis.port", redisPort)
	}
	// MinIO配置从环境变量读取
	if minioEndpoint := os.Getenv("MINIO_ENDPOINT"); minioEndpoint != "" {
		viper.Set("storage.endpoint", minioEndpoint)
	}
	if minioAccessKey := os.Getenv("MINIO_ACCESS_KEY"); minioAccessKey != "" {
		viper.Set("storage.access_key", minioAccessKey)
	}
	if minioSecretKey := os.Getenv("MINIO_SECRET_KEY"); minioSecretKey != "" {
		viper.Set("storage.secret_key", minioSecretKey)
	}
	if minioBucket := os.Getenv("MINIO_BUCKET"); minioBucket != "" {
		viper.Set("storage.bucket", minioBucket)
	}
	// AI配置环境变量
	if openaiKey := os.Getenv("OPENAI_API_KEY"); openaiKey != "" {
		viper.Set("ai.openai_api_key", openaiKey)
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		viper.Set("ai.base_url", baseURL)
	}
	if model := os.Getenv("GENERATION_MODEL"); model != "" {
		viper.Set("rag.generation_model", model)
	}
	if provider := os.Getenv("EMBEDDING_PROVIDER"); provider != "" {
		viper.Set("rag.embedding_provider", provider)
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Redis: RedisConfig{
			Host: viper.GetString("redis.host"),
			Port: viper.GetString("redis.port"),
			DB:   viper.GetInt("redis.db"),
		},
		Storage: ObjectStorageConfig{
			Endpoint:     viper.GetString("storage.endpoint"),
			AccessKey:    viper.GetString("storage.access_key"),
			SecretKey:    viper.GetString("storage.secret_key"),
			Bucket:       viper.GetString("storage.bucket"),
			UseSSL:       viper.GetBool("storage.use_ssl"),
			UploadExpiry: viper.GetInt("storage.upload_expiry"),
		},
		AI: AIConfig{
			OpenAIAPIKey: viper.GetString("ai.openai_api_key"),
			BaseURL:      viper.GetString("ai.base_url"),
		},
		RAG: RAGConfig{
			ChunkSize:           viper.GetInt("rag.chunk_size"),
			EmbeddingDimensions: viper.GetInt("rag.embedding_dimensions"),
			TopK:                viper.GetInt("rag.top_k"),
			GenerationTimeout:   viper.GetInt("rag.generation_timeout"),
			GenerationModel:     viper.GetString("rag.generation_model"),
			EmbeddingProvider:   viper.GetString("rag.embedding_provider"),
			EmbeddingModel:      viper.GetString("rag.embedding_model"),
		},
	}

	return nil
}
