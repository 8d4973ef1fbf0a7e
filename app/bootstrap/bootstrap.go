package bootstrap

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/paiapp/backend-go/app/controllers"
	"github.com/paiapp/backend-go/internal/config"
	"github.com/paiapp/backend-go/internal/database"
	"github.com/paiapp/backend-go/internal/logger"
	"github.com/paiapp/backend-go/internal/rag"
	"github.com/paiapp/backend-go/internal/services"
	"github.com/paiapp/backend-go/internal/storage"
	"github.com/paiapp/backend-go/internal/store"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	cleanupTasks []func() error
}

// Init bootstraps configuration, logger, storage connections and the
// ingestion/query pipelines required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize structured logger.
	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	// Load configuration.
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	app := &App{}

	// 文档记录存储：优先Redis，连接失败时退化为进程内存储（仅限本地开发）
	var documents store.DocumentStore
	if client, err := database.InitRedis(); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory document store", zap.Error(err))
		documents = store.NewMemoryDocumentStore()
	} else {
		redisStore, err := store.NewRedisDocumentStore(client)
		if err != nil {
			return nil, err
		}
		documents = redisStore
		app.cleanupTasks = append(app.cleanupTasks, database.CloseRedis)
	}

	// 对象存储：未配置时上传入口不可用，查询路径不受影响
	var objects *storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		var err error
		objects, err = storage.NewObjectStorage(cfg.Storage)
		if err != nil {
			logger.Warn("Object storage unavailable", zap.Error(err))
			objects = nil
		}
	}

	// 向量生成器：上传与查询共用同一实例
	var embedder rag.Embedder
	if cfg.RAG.EmbeddingProvider == "openai" {
		openaiEmbedder := rag.NewOpenAIEmbedder(cfg.AI.OpenAIAPIKey, cfg.RAG.EmbeddingModel)
		if openaiEmbedder.Ready() {
			embedder = openaiEmbedder
		} else {
			logger.Warn("OpenAI embedder not configured, using hash embedder")
		}
	}
	if embedder == nil {
		embedder = rag.NewHashEmbedder(cfg.RAG.EmbeddingDimensions)
	}

	generator := rag.NewOpenAIGenerator(
		cfg.AI.OpenAIAPIKey,
		cfg.AI.BaseURL,
		cfg.RAG.GenerationModel,
		time.Duration(cfg.RAG.GenerationTimeout)*time.Second,
	)
	if !generator.Ready() {
		logger.Warn("Generation service not configured, queries will fail until OPENAI_API_KEY is set")
	}

	// 显式转接口，避免把typed-nil探入流水线
	var objectReader services.ObjectReader
	if objects != nil {
		objectReader = objects
	}

	ingestion := services.NewIngestionPipeline(
		rag.NewExtractorManager(),
		rag.NewChunker(cfg.RAG.ChunkSize),
		embedder,
		documents,
		objectReader,
	)

	queries := services.NewQueryPipeline(
		embedder,
		rag.NewIdentifierResolver(rag.DefaultCorrections()),
		rag.NewVectorIndex(),
		documents,
		generator,
		cfg.RAG.TopK,
	)

	var uploads *services.UploadService
	if objects != nil {
		uploads = services.NewUploadService(
			objects,
			objects,
			documents,
			time.Duration(cfg.Storage.UploadExpiry)*time.Second,
		)
	}

	controllers.Setup(controllers.Deps{
		Uploads:   uploads,
		Ingestion: ingestion,
		Queries:   queries,
		Documents: documents,
		Metrics:   services.NewMetricsService(),
	})

	logger.Info("Application bootstrapped",
		zap.String("embedding_provider", cfg.RAG.EmbeddingProvider),
		zap.Int("chunk_size", cfg.RAG.ChunkSize),
		zap.Int("top_k", cfg.RAG.TopK))

	return app, nil
}

// Shutdown releases resources acquired during Init.
func (a *App) Shutdown() {
	for _, task := range a.cleanupTasks {
		if err := task(); err != nil {
			logger.Warn("Cleanup task failed", zap.Error(err))
		}
	}
	logger.Sync()
}
