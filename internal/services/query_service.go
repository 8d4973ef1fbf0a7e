package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/paiapp/backend-go/internal/errors"
	"github.com/paiapp/backend-go/internal/logger"
	"github.com/paiapp/backend-go/internal/models"
	"github.com/paiapp/backend-go/internal/rag"
	"github.com/paiapp/backend-go/internal/store"
)

// fallbackPreviewLimit 配额降级回答中文档预览的最大字符数
const fallbackPreviewLimit = 500

// AnswerResult 检索增强问答结果
// Corrected为真时携带原始ID与规范ID，否则两个字段为空
type AnswerResult struct {
	Answer     string `json:"answer"`
	IsFallback bool   `json:"is_fallback,omitempty"`
	Corrected  bool   `json:"doc_id_corrected,omitempty"`
	OriginalID string `json:"original_doc_id,omitempty"`
	ResolvedID string `json:"corrected_doc_id,omitempty"`
}

// QueryPipeline 检索增强问答流水线
// 每次调用相互独立，除DocumentStore外不共享任何可变状态
type QueryPipeline struct {
	embedder  rag.Embedder
	resolver  *rag.IdentifierResolver
	index     *rag.VectorIndex
	documents store.DocumentStore
	generator rag.Generator
	topK      int
}

// NewQueryPipeline 创建问答流水线
// embedder必须与摄取流水线共用同一实例
func NewQueryPipeline(
	embedder rag.Embedder,
	resolver *rag.IdentifierResolver,
	index *rag.VectorIndex,
	documents store.DocumentStore,
	generator rag.Generator,
	topK int,
) *QueryPipeline {
	if topK <= 0 {
		topK = 3
	}
	return &QueryPipeline{
		embedder:  embedder,
		resolver:  resolver,
		index:     index,
		documents: documents,
		generator: generator,
		topK:      topK,
	}
}

// Answer 针对指定文档回答问题
func (p *QueryPipeline) Answer(ctx context.Context, docID, question string) (*AnswerResult, error) {
	if strings.TrimSpace(docID) == "" {
		queriesTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.NewInputError(apperrors.ErrCodeMissingDocID, "Missing doc_id")
	}
	if strings.TrimSpace(question) == "" {
		queriesTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.NewInputError(apperrors.ErrCodeMissingQuestion, "Missing question")
	}

	queryVector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		queriesTotal.WithLabelValues("error").Inc()
		return nil, apperrors.GetAppError(fmt.Errorf("embedding question failed: %w", err))
	}

	record, resolvedID, corrected, err := p.loadRecord(ctx, docID)
	if err != nil {
		queriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	contextFragments, err := p.retrieve(queryVector, record)
	if err != nil {
		queriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result := &AnswerResult{}
	if corrected {
		result.Corrected = true
		result.OriginalID = docID
		result.ResolvedID = resolvedID
	}

	prompt := rag.BuildPrompt(contextFragments, question)
	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		// 配额耗尽时降级为文档预览回答而不是报错，这是有意的降级服务行为
		if apperrors.IsCode(err, apperrors.ErrCodeGenerationQuotaExceeded) && len(contextFragments) > 0 {
			result.Answer = fallbackAnswer(contextFragments)
			result.IsFallback = true
			queriesTotal.WithLabelValues("fallback").Inc()
			logger.Warn("Generation quota exceeded, serving fallback answer",
				zap.String("doc_id", resolvedID))
			return result, nil
		}
		queriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result.Answer = answer
	queriesTotal.WithLabelValues("answered").Inc()
	return result, nil
}

// loadRecord 修正文档ID并加载记录
// 修正后的ID查不到记录时回退原始ID再试一次（修正表本身可能指向过期ID）
func (p *QueryPipeline) loadRecord(ctx context.Context, docID string) (*models.DocumentRecord, string, bool, error) {
	resolvedID, corrected := p.resolver.Resolve(docID)

	record, err := p.getRecord(ctx, resolvedID)
	if err != nil {
		return nil, "", false, err
	}

	if record == nil && corrected {
		record, err = p.getRecord(ctx, docID)
		if err != nil {
			return nil, "", false, err
		}
		if record != nil {
			resolvedID = docID
			corrected = false
		}
	}

	if record == nil {
		return nil, "", false, apperrors.NewNotFoundError(
			apperrors.ErrCodeDocumentNotFound,
			"Document not found. Please check the document ID.",
		)
	}
	if len(record.Fragments) == 0 {
		return nil, "", false, apperrors.NewNotFoundError(
			apperrors.ErrCodeNoFragments,
			"No chunks found for this doc_id",
		)
	}
	if len(record.Vectors) == 0 {
		return nil, "", false, apperrors.NewNotFoundError(
			apperrors.ErrCodeNoVectors,
			"No embeddings found for this doc_id",
		)
	}
	// Processed记录必须满足分块与向量一一对应，违反时立即失败而不是静默截断
	if len(record.Fragments) != len(record.Vectors) {
		return nil, "", false, apperrors.NewValidationError(
			apperrors.ErrCodeRecordInconsistent,
			"Document record is inconsistent. Please re-upload the document.",
		).WithDetails(map[string]int{
			"fragments": len(record.Fragments),
			"vectors":   len(record.Vectors),
		})
	}

	if corrected {
		logger.Info("Applied document id correction",
			zap.String("original_doc_id", docID),
			zap.String("corrected_doc_id", resolvedID))
	}

	return record, resolvedID, corrected, nil
}

func (p *QueryPipeline) getRecord(ctx context.Context, id string) (*models.DocumentRecord, error) {
	getCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	record, err := p.documents.Get(getCtx, id)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to load document record").WithCause(err)
	}
	return record, nil
}

// retrieve 校验维度并检索与问题向量最近的分块文本，最近邻在前
func (p *QueryPipeline) retrieve(queryVector []float32, record *models.DocumentRecord) ([]string, error) {
	storedDims := len(record.Vectors[0])
	if storedDims != len(queryVector) {
		return nil, apperrors.NewValidationError(
			apperrors.ErrCodeDimensionMismatch,
			"Embedding dimension mismatch",
		).WithDetails(map[string]int{
			"query_dimensions":  len(queryVector),
			"stored_dimensions": storedDims,
		})
	}

	indices, err := p.index.Search(queryVector, record.Vectors, p.topK)
	if err != nil {
		return nil, err
	}

	fragments := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(record.Fragments) {
			continue
		}
		fragments = append(fragments, record.Fragments[idx])
	}
	return fragments, nil
}

// fallbackAnswer 用最相关的前两个分块合成预览回答
func fallbackAnswer(contextFragments []string) string {
	limit := 2
	if len(contextFragments) < limit {
		limit = len(contextFragments)
	}

	preview := strings.Join(contextFragments[:limit], "\n")
	if runes := []rune(preview); len(runes) > fallbackPreviewLimit {
		preview = string(runes[:fallbackPreviewLimit])
	}

	return fmt.Sprintf("I found relevant content in your document:\n\n%s...\n\n"+
		"Note: Full AI analysis is temporarily unavailable due to API limits. "+
		"Please try again later for a detailed response.", preview)
}
