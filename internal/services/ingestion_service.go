package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/paiapp/backend-go/internal/logger"
	"github.com/paiapp/backend-go/internal/models"
	"github.com/paiapp/backend-go/internal/rag"
	"github.com/paiapp/backend-go/internal/store"
)

// storeTimeout 单次存储调用的超时上限
const storeTimeout = 10 * time.Second

// ObjectReader 从对象存储按键读取原始文档
type ObjectReader interface {
	GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

// IngestionPipeline 文档摄取流水线：提取文本 → 分块 → 向量化 → 持久化
type IngestionPipeline struct {
	extractor *rag.ExtractorManager
	chunker   *rag.Chunker
	embedder  rag.Embedder
	documents store.DocumentStore
	objects   ObjectReader
}

// NewIngestionPipeline 创建摄取流水线
// embedder必须与查询流水线共用同一实例，两侧向量才保证同源
func NewIngestionPipeline(
	extractor *rag.ExtractorManager,
	chunker *rag.Chunker,
	embedder rag.Embedder,
	documents store.DocumentStore,
	objects ObjectReader,
) *IngestionPipeline {
	return &IngestionPipeline{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		documents: documents,
		objects:   objects,
	}
}

// Ingest 对已提取的文本执行分块、向量化并写入Processed记录
// 任一步骤失败时尽力写入Failed记录（写入失败不升级，避免掩盖原始错误）
func (p *IngestionPipeline) Ingest(ctx context.Context, rawText string, doc models.Document) (*models.DocumentRecord, error) {
	fragments := p.chunker.Split(rawText)

	vectors, err := p.embedder.EmbedAll(ctx, rag.Texts(fragments))
	if err != nil {
		return p.recordFailure(ctx, doc, fmt.Errorf("embedding failed: %w", err))
	}

	record := &models.DocumentRecord{
		Document:   doc,
		Fragments:  rag.Texts(fragments),
		Vectors:    vectors,
		Status:     models.StatusProcessed,
		TextLength: len([]rune(rawText)),
		ChunkCount: len(fragments),
	}

	putCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := p.documents.Put(putCtx, record); err != nil {
		return p.recordFailure(ctx, doc, fmt.Errorf("persisting record failed: %w", err))
	}

	ingestionsTotal.WithLabelValues("processed").Inc()
	logger.Info("Document processed",
		zap.String("doc_id", doc.ID),
		zap.Int("chunks", len(fragments)),
		zap.Int("text_length", record.TextLength))

	return record, nil
}

// IngestReader 从调用方持有的原始文件内容提取文本后执行摄取
// 直传路径使用：文件内容已在内存中，不经过对象存储回读
func (p *IngestionPipeline) IngestReader(ctx context.Context, reader io.Reader, doc models.Document) (*models.DocumentRecord, error) {
	rawText, err := p.extractor.Extract(reader, doc.Filename)
	if err != nil {
		return p.recordFailure(ctx, doc, fmt.Errorf("text extraction failed: %w", err))
	}
	return p.Ingest(ctx, rawText, doc)
}

// IngestStored 读取对象存储中的原始文件，提取文本后执行摄取
func (p *IngestionPipeline) IngestStored(ctx context.Context, doc models.Document) (*models.DocumentRecord, error) {
	if p.objects == nil {
		return p.recordFailure(ctx, doc, fmt.Errorf("object storage not configured"))
	}

	object, err := p.objects.GetObject(ctx, doc.StorageKey)
	if err != nil {
		return p.recordFailure(ctx, doc, fmt.Errorf("fetching object failed: %w", err))
	}
	defer object.Close()

	rawText, err := p.extractor.Extract(object, doc.Filename)
	if err != nil {
		return p.recordFailure(ctx, doc, fmt.Errorf("text extraction failed: %w", err))
	}

	return p.Ingest(ctx, rawText, doc)
}

// recordFailure 写入Failed记录，写入本身的失败只记日志
func (p *IngestionPipeline) recordFailure(ctx context.Context, doc models.Document, cause error) (*models.DocumentRecord, error) {
	ingestionsTotal.WithLabelValues("failed").Inc()
	logger.Error("Document ingestion failed",
		zap.String("doc_id", doc.ID),
		zap.Error(cause))

	record := &models.DocumentRecord{
		Document: doc,
		Status:   models.StatusFailed,
		Error:    cause.Error(),
	}

	putCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if err := p.documents.Put(putCtx, record); err != nil {
		logger.Warn("Failed to persist failure record",
			zap.String("doc_id", doc.ID),
			zap.Error(err))
	}

	return record, cause
}
